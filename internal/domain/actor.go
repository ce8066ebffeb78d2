package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Actor represents a performer managed by the agency
type Actor struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActorRequest is the body accepted when creating or replacing an actor
type ActorRequest struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"required,gt=0"`
	Gender string `json:"gender" validate:"required"`
}

// NewActor creates a new actor instance
func NewActor(name string, age int, gender string) *Actor {
	now := time.Now()
	return &Actor{
		ID:        ulid.Make(),
		Name:      name,
		Age:       age,
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ActorRepository defines the interface for actor persistence
type ActorRepository interface {
	// Create stores a new actor
	Create(ctx context.Context, actor *Actor) error

	// FindByID finds an actor by ID
	FindByID(ctx context.Context, id ulid.ULID) (*Actor, error)

	// List lists all actors, oldest first
	List(ctx context.Context) ([]*Actor, error)

	// Update replaces an actor's fields
	Update(ctx context.Context, actor *Actor) error

	// Delete deletes an actor
	Delete(ctx context.Context, id ulid.ULID) error
}
