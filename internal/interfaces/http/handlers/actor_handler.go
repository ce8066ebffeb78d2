package handlers

import (
	"context"
	"net/http"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/errors"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ActorService interface {
	ListActors(ctx context.Context) ([]*domain.Actor, error)
	CreateActor(ctx context.Context, req domain.ActorRequest) ([]*domain.Actor, error)
	UpdateActor(ctx context.Context, id ulid.ULID, req domain.ActorRequest) ([]*domain.Actor, error)
	DeleteActor(ctx context.Context, id ulid.ULID) error
}

type ActorHandler struct {
	service ActorService
	guard   Guard
	logger  *zap.Logger
}

func NewActorHandler(service ActorService, guard Guard, logger *zap.Logger) *ActorHandler {
	return &ActorHandler{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

// ListActorsHandler godoc
// @Summary List actors
// @Tags actors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ActorsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /actors [get]
func (h *ActorHandler) ListActorsHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionGetActors)
	if !ok {
		return
	}

	actors, err := h.service.ListActors(r.Context())
	if err != nil {
		h.logger.Error("failed to list actors", zap.Error(err))
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, ActorsResponse{Success: true, Actors: actors})
}

// CreateActorHandler godoc
// @Summary Create an actor
// @Tags actors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param actor body domain.ActorRequest true "Actor"
// @Success 200 {object} ActorsResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /actors [post]
func (h *ActorHandler) CreateActorHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionPostActors)
	if !ok {
		return
	}

	var req domain.ActorRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	actors, err := h.service.CreateActor(r.Context(), req)
	if err != nil {
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, ActorsResponse{Success: true, Actors: actors})
}

// UpdateActorHandler godoc
// @Summary Replace an actor
// @Tags actors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Actor ID"
// @Param actor body domain.ActorRequest true "Actor"
// @Success 200 {object} ActorsResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /actors/{id} [patch]
func (h *ActorHandler) UpdateActorHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionPatchActors)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.ActorRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	actors, err := h.service.UpdateActor(r.Context(), id, req)
	if err != nil {
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, ActorsResponse{Success: true, Actors: actors})
}

// DeleteActorHandler godoc
// @Summary Delete an actor
// @Tags actors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Actor ID"
// @Success 200 {object} DeletedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /actors/{id} [delete]
func (h *ActorHandler) DeleteActorHandler(w http.ResponseWriter, r *http.Request) {
	r, ok := h.guard.Check(w, r, domain.PermissionDeleteActors)
	if !ok {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteActor(r.Context(), id); err != nil {
		errors.RespondWithDomainError(w, err)
		return
	}

	respondJSON(w, h.logger, DeletedResponse{Success: true, Deleted: id.String()})
}
