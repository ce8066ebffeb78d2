package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// Authorizer decides whether an Authorization header grants a permission
type Authorizer interface {
	Authorize(ctx context.Context, header string, required domain.Permission) domain.AuthorizationDecision
}

// Guard is called at the top of every protected handler
type Guard struct {
	authorizer Authorizer
	logger     *zap.Logger
}

func NewGuard(authorizer Authorizer, logger *zap.Logger) *Guard {
	return &Guard{authorizer: authorizer, logger: logger}
}

// Check authorizes r for required. When access is granted it returns r with
// the principal attached to its context. Otherwise the denial has already
// been written to w and the handler must return.
func (g *Guard) Check(w http.ResponseWriter, r *http.Request, required domain.Permission) (*http.Request, bool) {
	ctx := r.Context()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		ctx = domain.WithRequestID(ctx, reqID)
	}

	decision := g.authorizer.Authorize(ctx, r.Header.Get("Authorization"), required)
	if !decision.IsGranted() {
		errors.RespondWithAuthError(w, decision)
		return r, false
	}

	return r.WithContext(domain.WithPrincipal(ctx, *decision.Principal)), true
}
