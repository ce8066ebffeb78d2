package jwks

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// DiscoverJWKSURL reads the jwks_uri from the issuer's OpenID configuration
func DiscoverJWKSURL(ctx context.Context, issuer string) (string, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("jwks: discovery: %w", err)
	}

	var meta struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return "", fmt.Errorf("jwks: discovery metadata: %w", err)
	}
	if meta.JWKSURL == "" {
		return "", fmt.Errorf("jwks: discovery: issuer %q publishes no jwks_uri", issuer)
	}
	return meta.JWKSURL, nil
}
