package jwks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ifat-github/casting-agency/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const maxKeySetSize = 1 << 20

var errRefetchLimited = errors.New("jwks: forced refetch rate limited")

// Provider resolves signing keys from a remote JWKS document. The key ring is
// cached for the configured TTL and refreshed when it expires or when a token
// names a key ID the ring does not hold. Concurrent refreshes share one fetch.
type Provider struct {
	url          string
	client       *http.Client
	logger       *zap.Logger
	ttl          time.Duration
	fetchTimeout time.Duration
	shared       SharedCache
	unknownKID   *rate.Limiter
	now          func() time.Time

	mu        sync.RWMutex
	keys      map[string]domain.SigningKey
	lastSync  time.Time
	refreshes singleflight.Group
}

// Option configures a Provider
type Option func(*Provider)

// WithHTTPClient sets the client used to fetch the key set
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithCacheTTL sets how long a fetched key ring is trusted. Zero keeps the
// ring until a key ID misses.
func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithFetchTimeout bounds a single key set fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Provider) { p.fetchTimeout = d }
}

// WithSharedCache shares fetched key sets with other replicas
func WithSharedCache(c SharedCache) Option {
	return func(p *Provider) { p.shared = c }
}

// WithUnknownKIDLimit limits how often an unknown key ID may force a refetch
func WithUnknownKIDLimit(l *rate.Limiter) Option {
	return func(p *Provider) { p.unknownKID = l }
}

// WithClock overrides the time source used for cache expiry
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a Provider for the key set published at jwksURL
func NewProvider(jwksURL string, logger *zap.Logger, opts ...Option) (*Provider, error) {
	if jwksURL == "" {
		return nil, fmt.Errorf("jwks: %w: empty key set url", domain.ErrInvalidKeyConfig)
	}

	p := &Provider{
		url:          jwksURL,
		client:       http.DefaultClient,
		logger:       logger,
		ttl:          domain.DefaultJWKSCacheDuration,
		fetchTimeout: domain.DefaultJWKSFetchTimeout,
		unknownKID:   rate.NewLimiter(rate.Every(5*time.Second), 1),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.ttl < 0 {
		return nil, fmt.Errorf("jwks: %w: negative cache ttl", domain.ErrInvalidKeyConfig)
	}
	if p.fetchTimeout <= 0 {
		return nil, fmt.Errorf("jwks: %w: fetch timeout must be positive", domain.ErrInvalidKeyConfig)
	}
	return p, nil
}

// GetKey returns the signing key registered under kid
func (p *Provider) GetKey(ctx context.Context, kid string) (domain.SigningKey, error) {
	key, found, fresh := p.lookup(kid)
	if found && fresh {
		return key, nil
	}

	if !fresh {
		fromShared, err := p.refresh(ctx, false)
		if err != nil {
			return domain.SigningKey{}, domain.NewAuthError(domain.AuthErrKeyProviderUnavailable, err)
		}
		if key, found, _ = p.lookup(kid); found {
			return key, nil
		}
		// A ring fetched from the origin is authoritative. A shared copy may
		// predate a rotation.
		if !fromShared {
			return domain.SigningKey{}, unknownKey(kid)
		}
	}

	// The ring is current but does not know kid: the authority may have
	// rotated keys since the last fetch.
	if _, err := p.refresh(ctx, true); err != nil && !errors.Is(err, errRefetchLimited) {
		return domain.SigningKey{}, domain.NewAuthError(domain.AuthErrKeyProviderUnavailable, err)
	}
	if key, found, _ = p.lookup(kid); found {
		return key, nil
	}
	return domain.SigningKey{}, unknownKey(kid)
}

func unknownKey(kid string) *domain.AuthError {
	return domain.NewAuthError(domain.AuthErrUnknownSigningKey, fmt.Errorf("kid %q not in key set", kid))
}

// lookup reports whether kid is in the ring and whether the ring is within
// its TTL. An empty ring is never fresh.
func (p *Provider) lookup(kid string) (domain.SigningKey, bool, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	fresh := !p.lastSync.IsZero() && (p.ttl == 0 || p.now().Sub(p.lastSync) < p.ttl)
	key, ok := p.keys[kid]
	return key, ok, fresh
}

// refresh joins the in-flight load of the same kind or starts one. Forced
// loads go to the origin and are rate limited per flight, so callers that
// join a running flight are never turned away by the limiter. It reports
// whether the ring came from the shared cache.
func (p *Provider) refresh(ctx context.Context, force bool) (bool, error) {
	flight := "jwks"
	if force {
		flight = "jwks:forced"
	}

	ch := p.refreshes.DoChan(flight, func() (interface{}, error) {
		if force && !p.unknownKID.Allow() {
			p.logger.Debug("Skipping forced key set refetch")
			return false, errRefetchLimited
		}
		// Detached from the caller so other waiters still get the result if
		// the first caller goes away.
		fetchCtx, cancel := context.WithTimeout(context.Background(), p.fetchTimeout)
		defer cancel()
		return p.load(fetchCtx, force)
	})

	select {
	case res := <-ch:
		fromShared, _ := res.Val.(bool)
		return fromShared, res.Err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Provider) load(ctx context.Context, force bool) (bool, error) {
	p.mu.RLock()
	cold := p.lastSync.IsZero()
	p.mu.RUnlock()

	if cold && !force && p.shared != nil {
		if keys, ok := p.loadShared(ctx); ok {
			p.store(keys)
			p.logger.Info("Loaded key set from shared cache", zap.Int("keys", len(keys)))
			return true, nil
		}
	}

	doc, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn("Failed to fetch key set", zap.String("url", p.url), zap.Error(err))
		return false, err
	}
	keys, err := ParseKeySet(doc)
	if err != nil {
		p.logger.Warn("Failed to parse key set", zap.String("url", p.url), zap.Error(err))
		return false, err
	}
	p.store(keys)

	if p.shared != nil {
		if err := p.shared.Set(ctx, doc, p.ttl); err != nil {
			p.logger.Warn("Failed to write key set to shared cache", zap.Error(err))
		}
	}

	p.logger.Info("Refreshed key set",
		zap.String("url", p.url),
		zap.Int("keys", len(keys)),
		zap.Bool("forced", force))
	return false, nil
}

func (p *Provider) loadShared(ctx context.Context) (map[string]domain.SigningKey, bool) {
	doc, err := p.shared.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			p.logger.Warn("Failed to read key set from shared cache", zap.Error(err))
		}
		return nil, false
	}
	keys, err := ParseKeySet(doc)
	if err != nil {
		p.logger.Warn("Discarding unusable key set from shared cache", zap.Error(err))
		return nil, false
	}
	return keys, true
}

func (p *Provider) store(keys map[string]domain.SigningKey) {
	p.mu.Lock()
	p.keys = keys
	p.lastSync = p.now()
	p.mu.Unlock()
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("jwks: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetSize))
	if err != nil {
		return nil, fmt.Errorf("jwks: read body: %w", err)
	}
	return doc, nil
}
