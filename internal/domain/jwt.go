package domain

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultJWKSCacheDuration is how long a fetched key set is trusted before refetching
	DefaultJWKSCacheDuration = 10 * time.Minute
	// DefaultJWKSFetchTimeout bounds a single key set fetch
	DefaultJWKSFetchTimeout = 5 * time.Second
)

// Claims is the decoded payload of a bearer token issued by the identity authority
type Claims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions,omitempty"`

	// KeyID is the "kid" header the token was verified with; it is not part of the payload
	KeyID string `json:"-"`
}

// HasPermission checks whether the token grants the given permission
func (c *Claims) HasPermission(required Permission) bool {
	return c != nil && slices.Contains(c.Permissions, string(required))
}

// Principal returns the identity carried by the claims
func (c *Claims) Principal() Principal {
	return Principal{
		Subject:     c.Subject,
		Permissions: append([]string(nil), c.Permissions...),
	}
}
