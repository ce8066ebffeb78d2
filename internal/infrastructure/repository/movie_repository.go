package repository

import (
	"context"
	"errors"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type MovieRepository struct {
	logger *zap.Logger
	db     *database.Postgres
}

func NewMovieRepository(db *database.Postgres, logger *zap.Logger) *MovieRepository {
	return &MovieRepository{db: db, logger: logger}
}

func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO movies (id, title, release_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, movie.ID.String(), movie.Title, movie.ReleaseDate, movie.CreatedAt, movie.UpdatedAt)
	if err != nil {
		return domain.ErrDatabaseQuery
	}
	return nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id ulid.ULID) (*domain.Movie, error) {
	movie := &domain.Movie{}
	err := r.db.QueryRow(ctx, `
		SELECT id, title, release_date, created_at, updated_at
		FROM movies WHERE id = $1
	`, id.String()).Scan(&movie.ID, &movie.Title, &movie.ReleaseDate, &movie.CreatedAt, &movie.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMovieNotFound
	}
	if err != nil {
		r.logger.Error("failed to find movie by id", zap.String("movie_id", id.String()), zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	return movie, nil
}

func (r *MovieRepository) List(ctx context.Context) ([]*domain.Movie, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, release_date, created_at, updated_at
		FROM movies
		ORDER BY created_at ASC
	`)
	if err != nil {
		r.logger.Error("failed to list movies", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	defer rows.Close()

	movies := []*domain.Movie{}
	for rows.Next() {
		movie := &domain.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.ReleaseDate, &movie.CreatedAt, &movie.UpdatedAt); err != nil {
			r.logger.Error("failed to scan movie", zap.Error(err))
			return nil, domain.ErrDatabaseQuery
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate movies", zap.Error(err))
		return nil, domain.ErrDatabaseQuery
	}
	return movies, nil
}

func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	affected, err := r.db.Exec(ctx, `
		UPDATE movies
		SET title = $1, release_date = $2, updated_at = $3
		WHERE id = $4
	`, movie.Title, movie.ReleaseDate, movie.UpdatedAt, movie.ID.String())
	if err != nil {
		return domain.ErrDatabaseQuery
	}
	if affected == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id ulid.ULID) error {
	affected, err := r.db.Exec(ctx, "DELETE FROM movies WHERE id = $1", id.String())
	if err != nil {
		return domain.ErrDatabaseQuery
	}
	if affected == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}
