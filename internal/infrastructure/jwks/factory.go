package jwks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/ifat-github/casting-agency/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewKeyProvider builds the key provider described by cfg. A configured
// public key file wins over a JWKS URL; without either the JWKS URL is
// discovered from the issuer. The returned func releases held resources.
func NewKeyProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.KeyProvider, func(), error) {
	noop := func() {}

	if cfg.AuthPublicKeyPath != "" {
		key, err := LoadPEMKey(cfg.AuthPublicKeyPath, cfg.AuthPublicKeyID)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Using static verification key",
			zap.String("path", cfg.AuthPublicKeyPath),
			zap.String("kid", key.KeyID))
		return NewStaticProvider(key), noop, nil
	}

	jwksURL := cfg.AuthJWKSURL
	if jwksURL == "" {
		discovered, err := DiscoverJWKSURL(ctx, cfg.AuthIssuer)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Discovered key set url", zap.String("issuer", cfg.AuthIssuer), zap.String("url", discovered))
		jwksURL = discovered
	}

	opts := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.AuthJWKSFetchTimeout}),
		WithCacheTTL(cfg.AuthJWKSCacheTTL),
		WithFetchTimeout(cfg.AuthJWKSFetchTimeout),
	}

	release := noop
	if cfg.Redis.Enabled() {
		client, err := NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, noop, fmt.Errorf("jwks: shared cache: %w", err)
		}
		opts = append(opts, WithSharedCache(NewRedisCache(client, cfg.Redis.KeyPrefix, jwksURL)))
		release = func() { client.Close() }
		logger.Info("Sharing key set through redis", zap.String("addr", cfg.Redis.Addr))
	}

	provider, err := NewProvider(jwksURL, logger, opts...)
	if err != nil {
		release()
		return nil, noop, err
	}
	return provider, release, nil
}
