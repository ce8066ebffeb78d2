package application

import (
	"context"
	"time"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ActorService struct {
	repo   domain.ActorRepository
	logger *zap.Logger
}

func NewActorService(repo domain.ActorRepository, logger *zap.Logger) *ActorService {
	return &ActorService{
		repo:   repo,
		logger: logger,
	}
}

// ListActors returns every actor, oldest first
func (s *ActorService) ListActors(ctx context.Context) ([]*domain.Actor, error) {
	return s.repo.List(ctx)
}

// CreateActor stores a new actor and returns the updated roster
func (s *ActorService) CreateActor(ctx context.Context, req domain.ActorRequest) ([]*domain.Actor, error) {
	actor := domain.NewActor(req.Name, req.Age, req.Gender)
	if err := s.repo.Create(ctx, actor); err != nil {
		s.logger.Error("Failed to create actor", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Actor created", zap.String("actor_id", actor.ID.String()))
	return s.repo.List(ctx)
}

// UpdateActor replaces an actor's fields and returns the updated roster
func (s *ActorService) UpdateActor(ctx context.Context, id ulid.ULID, req domain.ActorRequest) ([]*domain.Actor, error) {
	actor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor.Name = req.Name
	actor.Age = req.Age
	actor.Gender = req.Gender
	actor.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, actor); err != nil {
		s.logger.Error("Failed to update actor", zap.String("actor_id", id.String()), zap.Error(err))
		return nil, err
	}

	return s.repo.List(ctx)
}

func (s *ActorService) DeleteActor(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Actor deleted", zap.String("actor_id", id.String()))
	return nil
}
