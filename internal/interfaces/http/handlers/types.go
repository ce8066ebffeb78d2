package handlers

import "github.com/ifat-github/casting-agency/internal/domain"

type ActorsResponse struct {
	Success bool            `json:"success"`
	Actors  []*domain.Actor `json:"actors"`
}

type MoviesResponse struct {
	Success bool            `json:"success"`
	Movies  []*domain.Movie `json:"movies"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type DeletedResponse struct {
	Success bool   `json:"success"`
	Deleted string `json:"deleted"`
}
