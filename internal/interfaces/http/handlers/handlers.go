package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/errors"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Guard authorizes a request before a handler touches it
type Guard interface {
	Check(w http.ResponseWriter, r *http.Request, required domain.Permission) (*http.Request, bool)
}

var validate = validator.New()

// decodeRequest decodes and validates a JSON body, writing a 422 on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.RespondWithError(w, http.StatusUnprocessableEntity, errors.MessageUnprocessable, nil)
		return false
	}
	if err := validate.Struct(req); err != nil {
		errors.RespondWithError(w, http.StatusUnprocessableEntity, errors.MessageUnprocessable,
			errors.FromValidator(err).ToErrorDetails())
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. An unparseable ID names no record.
func pathID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := domain.ParseULID(chi.URLParam(r, "id"))
	if err != nil {
		errors.RespondWithError(w, http.StatusNotFound, errors.MessageNotFound, nil)
		return ulid.ULID{}, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
