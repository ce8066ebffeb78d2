package domain

import "errors"

var (
	// ErrActorNotFound is returned when no actor has the requested ID
	ErrActorNotFound = errors.New("actor not found")

	// ErrMovieNotFound is returned when no movie has the requested ID
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidField is returned when a request body fails validation
	ErrInvalidField = errors.New("invalid field")

	// ErrDatabaseQuery is returned when the record store fails
	ErrDatabaseQuery = errors.New("database query failed")

	// ErrInvalidKeyConfig is returned when no usable key source is configured
	ErrInvalidKeyConfig = errors.New("invalid key configuration")
)
