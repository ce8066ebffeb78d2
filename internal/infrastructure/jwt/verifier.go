package jwt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ifat-github/casting-agency/internal/domain"
	"go.uber.org/zap"
)

type header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ,omitempty"`
}

// Verifier checks RS256 bearer tokens against keys from a KeyProvider
type Verifier struct {
	keys   domain.KeyProvider
	logger *zap.Logger
	parser *jwt.Parser
	now    func() time.Time
	leeway time.Duration
}

type VerifierOption func(*Verifier)

// WithClock sets the time source used for exp and nbf checks
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// WithLeeway tolerates clock skew in exp and nbf checks
func WithLeeway(d time.Duration) VerifierOption {
	return func(v *Verifier) { v.leeway = d }
}

func NewVerifier(keys domain.KeyProvider, logger *zap.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		keys:   keys,
		logger: logger,
		parser: jwt.NewParser(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates token and returns its claims. Every failure is a
// *domain.AuthError.
func (v *Verifier) Verify(ctx context.Context, token, issuer, audience string) (*domain.Claims, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 || segments[0] == "" || segments[1] == "" || segments[2] == "" {
		return nil, domain.NewAuthError(domain.AuthErrMalformedToken,
			fmt.Errorf("expected 3 non-empty segments, got %d", len(segments)))
	}

	rawHeader, err := v.parser.DecodeSegment(segments[0])
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthErrMalformedToken, fmt.Errorf("decode header: %w", err))
	}
	var h header
	if err := json.Unmarshal(rawHeader, &h); err != nil {
		return nil, domain.NewAuthError(domain.AuthErrMalformedToken, fmt.Errorf("parse header: %w", err))
	}

	if h.Alg != domain.AlgorithmRS256 {
		return nil, domain.NewAuthError(domain.AuthErrUnsupportedAlgorithm, fmt.Errorf("alg %q", h.Alg))
	}
	if h.Kid == "" {
		return nil, domain.NewAuthError(domain.AuthErrUnknownSigningKey, errors.New("token header has no kid"))
	}

	key, err := v.keys.GetKey(ctx, h.Kid)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		return nil, domain.NewAuthError(domain.AuthErrKeyProviderUnavailable, err)
	}

	sig, err := v.parser.DecodeSegment(segments[2])
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthErrMalformedToken, fmt.Errorf("decode signature: %w", err))
	}
	signingString := segments[0] + "." + segments[1]
	if err := jwt.SigningMethodRS256.Verify(signingString, sig, key.PublicKey); err != nil {
		return nil, domain.NewAuthError(domain.AuthErrInvalidSignature, err)
	}

	payload, err := v.parser.DecodeSegment(segments[1])
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthErrMalformedClaims, fmt.Errorf("decode payload: %w", err))
	}
	claims := &domain.Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, domain.NewAuthError(domain.AuthErrMalformedClaims, fmt.Errorf("parse payload: %w", err))
	}

	checks := []jwt.ParserOption{
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
	}
	if audience != "" {
		checks = append(checks, jwt.WithAudience(audience))
	}
	if err := jwt.NewValidator(checks...).Validate(claims); err != nil {
		return nil, domain.NewAuthError(domain.AuthErrInvalidClaims, err)
	}

	claims.KeyID = key.KeyID
	v.logger.Debug("Token verified",
		zap.String("sub", claims.Subject),
		zap.String("kid", key.KeyID))
	return claims, nil
}
