package application

import (
	"context"
	"testing"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockActorRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}

func (m *MockActorRepository) List(ctx context.Context) ([]*domain.Actor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Actor), args.Error(1)
}

func (m *MockActorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockActorRepository) Delete(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestActorService_CreateActor(t *testing.T) {
	ctx := context.Background()
	req := domain.ActorRequest{Name: "Tom Hanks", Age: 67, Gender: "male"}

	t.Run("successful create", func(t *testing.T) {
		repo := new(MockActorRepository)
		service := NewActorService(repo, zap.NewNop())

		repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Actor) bool {
			return a.Name == "Tom Hanks" && a.Age == 67 && a.Gender == "male"
		})).Return(nil)
		roster := []*domain.Actor{domain.NewActor("Tom Hanks", 67, "male")}
		repo.On("List", ctx).Return(roster, nil)

		actors, err := service.CreateActor(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, roster, actors)
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockActorRepository)
		service := NewActorService(repo, zap.NewNop())

		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDatabaseQuery)

		actors, err := service.CreateActor(ctx, req)
		assert.ErrorIs(t, err, domain.ErrDatabaseQuery)
		assert.Nil(t, actors)
		repo.AssertNotCalled(t, "List", ctx)
	})
}

func TestActorService_UpdateActor(t *testing.T) {
	ctx := context.Background()
	req := domain.ActorRequest{Name: "Meryl Streep", Age: 74, Gender: "female"}

	t.Run("successful update", func(t *testing.T) {
		repo := new(MockActorRepository)
		service := NewActorService(repo, zap.NewNop())

		existing := domain.NewActor("Old Name", 30, "female")
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(a *domain.Actor) bool {
			return a.ID == existing.ID && a.Name == "Meryl Streep" && a.Age == 74
		})).Return(nil)
		repo.On("List", ctx).Return([]*domain.Actor{existing}, nil)

		actors, err := service.UpdateActor(ctx, existing.ID, req)
		assert.NoError(t, err)
		assert.Len(t, actors, 1)
		assert.False(t, existing.UpdatedAt.Before(existing.CreatedAt))
		repo.AssertExpectations(t)
	})

	t.Run("actor not found", func(t *testing.T) {
		repo := new(MockActorRepository)
		service := NewActorService(repo, zap.NewNop())

		id := ulid.Make()
		repo.On("FindByID", ctx, id).Return(nil, domain.ErrActorNotFound)

		actors, err := service.UpdateActor(ctx, id, req)
		assert.ErrorIs(t, err, domain.ErrActorNotFound)
		assert.Nil(t, actors)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestActorService_DeleteActor(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		repo := new(MockActorRepository)
		service := NewActorService(repo, zap.NewNop())

		id := ulid.Make()
		repo.On("Delete", ctx, id).Return(nil)

		assert.NoError(t, service.DeleteActor(ctx, id))
		repo.AssertExpectations(t)
	})

	t.Run("actor not found", func(t *testing.T) {
		repo := new(MockActorRepository)
		service := NewActorService(repo, zap.NewNop())

		id := ulid.Make()
		repo.On("Delete", ctx, id).Return(domain.ErrActorNotFound)

		assert.ErrorIs(t, service.DeleteActor(ctx, id), domain.ErrActorNotFound)
	})
}

func TestActorService_ListActors(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActorRepository)
	service := NewActorService(repo, zap.NewNop())

	repo.On("List", ctx).Return([]*domain.Actor{}, nil)

	actors, err := service.ListActors(ctx)
	assert.NoError(t, err)
	assert.Empty(t, actors)
}
