package domain

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
)

// Permission is the tag a protected operation requires, e.g. "get:actors".
// Tags are compared by exact string equality.
type Permission string

const (
	PermissionGetActors    Permission = "get:actors"
	PermissionPostActors   Permission = "post:actors"
	PermissionPatchActors  Permission = "patch:actors"
	PermissionDeleteActors Permission = "delete:actors"
	PermissionGetMovies    Permission = "get:movies"
	PermissionPostMovies   Permission = "post:movies"
	PermissionPatchMovies  Permission = "patch:movies"
	PermissionDeleteMovies Permission = "delete:movies"
)

// AlgorithmRS256 is the only signing algorithm accepted for bearer tokens.
const AlgorithmRS256 = "RS256"

// SigningKey is a public verification key published by the identity authority.
type SigningKey struct {
	KeyID     string
	Algorithm string
	PublicKey *rsa.PublicKey
}

// KeyProvider resolves signing keys by key ID.
type KeyProvider interface {
	// GetKey returns the key registered under kid. Failures are *AuthError
	// with kind AuthErrUnknownSigningKey or AuthErrKeyProviderUnavailable.
	GetKey(ctx context.Context, kid string) (SigningKey, error)
}

// TokenVerifier validates a compact bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token, issuer, audience string) (*Claims, error)
}

// Principal is the authorized identity handed to a protected operation.
type Principal struct {
	Subject     string
	Permissions []string
}

// AuthorizationDecision is the outcome of one authorization check: either
// Principal is set (granted) or Denial is set (denied) with the HTTP status
// the boundary must answer with.
type AuthorizationDecision struct {
	Principal *Principal
	Denial    *AuthError
	Status    int
}

// Granted builds a granting decision.
func Granted(p Principal) AuthorizationDecision {
	return AuthorizationDecision{Principal: &p, Status: http.StatusOK}
}

// Denied builds a denying decision. Permission failures answer 403, every
// other kind answers 401.
func Denied(err *AuthError) AuthorizationDecision {
	status := http.StatusUnauthorized
	if err.Kind == AuthErrMissingPermission {
		status = http.StatusForbidden
	}
	return AuthorizationDecision{Denial: err, Status: status}
}

// IsGranted reports whether the operation may proceed.
func (d AuthorizationDecision) IsGranted() bool {
	return d.Principal != nil && d.Denial == nil
}

// AuthErrorKind classifies why a request was denied.
type AuthErrorKind int

const (
	AuthErrMissingOrMalformedHeader AuthErrorKind = iota + 1
	AuthErrMalformedToken
	AuthErrUnsupportedAlgorithm
	AuthErrUnknownSigningKey
	AuthErrInvalidSignature
	AuthErrMalformedClaims
	AuthErrInvalidClaims
	AuthErrKeyProviderUnavailable
	AuthErrMissingPermission
)

var authErrorKindNames = map[AuthErrorKind]string{
	AuthErrMissingOrMalformedHeader: "missing or malformed authorization header",
	AuthErrMalformedToken:           "malformed token",
	AuthErrUnsupportedAlgorithm:     "unsupported signing algorithm",
	AuthErrUnknownSigningKey:        "unknown signing key",
	AuthErrInvalidSignature:         "invalid signature",
	AuthErrMalformedClaims:          "malformed claims",
	AuthErrInvalidClaims:            "invalid claims",
	AuthErrKeyProviderUnavailable:   "key provider unavailable",
	AuthErrMissingPermission:        "missing permission",
}

func (k AuthErrorKind) String() string {
	if name, ok := authErrorKindNames[k]; ok {
		return name
	}
	return "unknown auth error"
}

// AuthError is a typed authentication or authorization failure. Reason holds
// the diagnostic cause for logs; Error never includes it.
type AuthError struct {
	Kind   AuthErrorKind
	Reason error
}

// NewAuthError creates an AuthError of the given kind.
func NewAuthError(kind AuthErrorKind, reason error) *AuthError {
	return &AuthError{Kind: kind, Reason: reason}
}

func (e *AuthError) Error() string {
	return e.Kind.String()
}

// Unwrap exposes the diagnostic reason to errors.Is and errors.As.
func (e *AuthError) Unwrap() error {
	return e.Reason
}

// AuthErrorKindOf extracts the kind of an *AuthError anywhere in err's chain.
func AuthErrorKindOf(err error) (AuthErrorKind, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind, true
	}
	return 0, false
}

// IsAuthErrorKind reports whether err carries an *AuthError of the given kind.
func IsAuthErrorKind(err error, kind AuthErrorKind) bool {
	k, ok := AuthErrorKindOf(err)
	return ok && k == kind
}
