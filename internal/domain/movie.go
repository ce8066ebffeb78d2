package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Movie represents a production the agency casts for
type Movie struct {
	ID          ulid.ULID `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate string    `json:"release_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovieRequest is the body accepted when creating or replacing a movie.
// ReleaseDate is kept as free text, as clients send it in several formats.
type MovieRequest struct {
	Title       string `json:"title" validate:"required"`
	ReleaseDate string `json:"release_date" validate:"required"`
}

// NewMovie creates a new movie instance
func NewMovie(title, releaseDate string) *Movie {
	now := time.Now()
	return &Movie{
		ID:          ulid.Make(),
		Title:       title,
		ReleaseDate: releaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MovieRepository defines the interface for movie persistence
type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	FindByID(ctx context.Context, id ulid.ULID) (*Movie, error)
	List(ctx context.Context) ([]*Movie, error)
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id ulid.ULID) error
}
