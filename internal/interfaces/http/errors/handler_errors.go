package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ifat-github/casting-agency/internal/domain"
)

const realm = "casting-agency"

func getStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrActorNotFound), errors.Is(err, domain.ErrMovieNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidField):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func getMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return MessageNotFound
	case http.StatusUnprocessableEntity:
		return MessageUnprocessable
	}
	return MessageInternal
}

// RespondWithDomainError maps a domain error to its HTTP response
func RespondWithDomainError(w http.ResponseWriter, err error) {
	status := getStatus(err)
	RespondWithError(w, status, getMessage(status), nil)
}

// RespondWithAuthError renders a denied authorization decision. The body
// never carries the denial reason.
func RespondWithAuthError(w http.ResponseWriter, decision domain.AuthorizationDecision) {
	if decision.Status == http.StatusForbidden {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm=%q, error="insufficient_scope"`, realm))
		RespondWithError(w, http.StatusForbidden, MessageUnauthorized, nil)
		return
	}

	code := "invalid_token"
	if decision.Denial != nil && decision.Denial.Kind == domain.AuthErrMissingOrMalformedHeader {
		code = "invalid_request"
	}
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm=%q, error=%q`, realm, code))
	RespondWithError(w, http.StatusUnauthorized, MessageAuthError, nil)
}
