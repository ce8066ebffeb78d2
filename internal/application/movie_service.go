package application

import (
	"context"
	"time"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type MovieService struct {
	repo   domain.MovieRepository
	logger *zap.Logger
}

func NewMovieService(repo domain.MovieRepository, logger *zap.Logger) *MovieService {
	return &MovieService{
		repo:   repo,
		logger: logger,
	}
}

func (s *MovieService) ListMovies(ctx context.Context) ([]*domain.Movie, error) {
	return s.repo.List(ctx)
}

func (s *MovieService) CreateMovie(ctx context.Context, req domain.MovieRequest) (*domain.Movie, error) {
	movie := domain.NewMovie(req.Title, req.ReleaseDate)
	if err := s.repo.Create(ctx, movie); err != nil {
		s.logger.Error("Failed to create movie", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Movie created", zap.String("movie_id", movie.ID.String()))
	return movie, nil
}

// UpdateMovie replaces a movie's fields and returns the updated catalogue
func (s *MovieService) UpdateMovie(ctx context.Context, id ulid.ULID, req domain.MovieRequest) ([]*domain.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	movie.Title = req.Title
	movie.ReleaseDate = req.ReleaseDate
	movie.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, movie); err != nil {
		s.logger.Error("Failed to update movie", zap.String("movie_id", id.String()), zap.Error(err))
		return nil, err
	}

	return s.repo.List(ctx)
}

func (s *MovieService) DeleteMovie(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}
