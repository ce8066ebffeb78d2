package handlers

import (
	"context"
	"net/http"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/errors"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type MovieService interface {
	ListMovies(ctx context.Context) ([]*domain.Movie, error)
	CreateMovie(ctx context.Context, req domain.MovieRequest) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id ulid.ULID, req domain.MovieRequest) ([]*domain.Movie, error)
	DeleteMovie(ctx context.Context, id ulid.ULID) error
}

type MovieHandler struct {
	service MovieService
	guard   Guard
	logger  *zap.Logger
}

func NewMovieHandler(service MovieService, guard Guard, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

// ListMoviesHandler godoc
// @Summary List movies
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MoviesResponse
// @Router /movies [get]
func (h *MovieHandler) ListMoviesHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionGetMovies)
	if !ok {
		return
	}

	movies, err := h.service.ListMovies(r.Context())
	if err != nil {
		h.logger.Error("failed to list movies", zap.Error(err))
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, MoviesResponse{Success: true, Movies: movies})
}

// CreateMovieHandler godoc
// @Summary Create a movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movie body domain.MovieRequest true "Movie"
// @Success 200 {object} SuccessResponse
// @Router /movies [post]
func (h *MovieHandler) CreateMovieHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionPostMovies)
	if !ok {
		return
	}

	var req domain.MovieRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if _, err := h.service.CreateMovie(r.Context(), req); err != nil {
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, SuccessResponse{Success: true})
}

// UpdateMovieHandler godoc
// @Summary Replace a movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param movie body domain.MovieRequest true "Movie"
// @Success 200 {object} MoviesResponse
// @Router /movies/{id} [patch]
func (h *MovieHandler) UpdateMovieHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionPatchMovies)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.MovieRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	movies, err := h.service.UpdateMovie(r.Context(), id, req)
	if err != nil {
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, MoviesResponse{Success: true, Movies: movies})
}

// DeleteMovieHandler godoc
// @Summary Delete a movie
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} DeletedResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionDeleteMovies)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(r.Context(), id); err != nil {
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, DeletedResponse{Success: true, Deleted: id.String()})
}
