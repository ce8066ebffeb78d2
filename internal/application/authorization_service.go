package application

import (
	"context"
	"errors"
	"strings"

	"github.com/ifat-github/casting-agency/internal/domain"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

var (
	errMissingHeader   = errors.New("authorization header is missing")
	errMalformedHeader = errors.New(`authorization header must be "Bearer <token>"`)
)

// AuthorizationService is the per-request gate in front of every protected
// operation: it extracts the bearer token, verifies it and checks the
// required permission.
type AuthorizationService struct {
	verifier domain.TokenVerifier
	issuer   string
	audience string
	logger   *zap.Logger
}

func NewAuthorizationService(verifier domain.TokenVerifier, issuer, audience string, logger *zap.Logger) *AuthorizationService {
	return &AuthorizationService{
		verifier: verifier,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}
}

// Authorize decides whether the request carrying header may perform an
// operation guarded by required.
func (s *AuthorizationService) Authorize(ctx context.Context, header string, required domain.Permission) domain.AuthorizationDecision {
	token, err := parseBearer(header)
	if err != nil {
		return s.deny(ctx, domain.NewAuthError(domain.AuthErrMissingOrMalformedHeader, err), required)
	}

	claims, err := s.verifier.Verify(ctx, token, s.issuer, s.audience)
	if err != nil {
		return s.deny(ctx, asAuthError(err, domain.AuthErrKeyProviderUnavailable), required)
	}

	if err := CheckPermission(claims, required); err != nil {
		authErr := asAuthError(err, domain.AuthErrMissingPermission)
		s.logger.Warn("Authorization denied",
			zap.String("kind", authErr.Kind.String()),
			zap.String("sub", claims.Subject),
			zap.String("permission", string(required)),
			zap.String("request_id", requestID(ctx)),
			zap.Error(authErr.Reason))
		return domain.Denied(authErr)
	}

	s.logger.Debug("Authorization granted",
		zap.String("sub", claims.Subject),
		zap.String("permission", string(required)),
		zap.String("request_id", requestID(ctx)))
	return domain.Granted(claims.Principal())
}

// asAuthError returns the *domain.AuthError in err's chain, or wraps err as
// fallback when there is none
func asAuthError(err error, fallback domain.AuthErrorKind) *domain.AuthError {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return domain.NewAuthError(fallback, err)
}

func (s *AuthorizationService) deny(ctx context.Context, err *domain.AuthError, required domain.Permission) domain.AuthorizationDecision {
	s.logger.Warn("Authentication failed",
		zap.String("kind", err.Kind.String()),
		zap.String("permission", string(required)),
		zap.String("request_id", requestID(ctx)),
		zap.Error(err.Reason))
	return domain.Denied(err)
}

func requestID(ctx context.Context) string {
	id, _ := domain.GetRequestID(ctx)
	return id
}

// parseBearer extracts the token from an Authorization header of the exact
// form "Bearer <token>".
func parseBearer(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", errMalformedHeader
	}
	return token, nil
}
