package jwks

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newSigningKey(t *testing.T, kid string) domain.SigningKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return domain.SigningKey{KeyID: kid, Algorithm: domain.AlgorithmRS256, PublicKey: &priv.PublicKey}
}

// keySetServer serves whatever keys currently holds and counts requests
type keySetServer struct {
	*httptest.Server
	mu    sync.Mutex
	keys  []domain.SigningKey
	hits  atomic.Int32
	fail  atomic.Bool
	delay time.Duration
}

func newKeySetServer(t *testing.T, keys ...domain.SigningKey) *keySetServer {
	t.Helper()
	s := &keySetServer{keys: keys}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		if s.fail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		s.mu.Lock()
		doc, err := MarshalKeySet(s.keys...)
		s.mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *keySetServer) setKeys(keys ...domain.SigningKey) {
	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider("", zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrInvalidKeyConfig)

	_, err = NewProvider("http://example.test/jwks.json", zap.NewNop(), WithCacheTTL(-time.Second))
	assert.ErrorIs(t, err, domain.ErrInvalidKeyConfig)

	_, err = NewProvider("http://example.test/jwks.json", zap.NewNop(), WithFetchTimeout(0))
	assert.ErrorIs(t, err, domain.ErrInvalidKeyConfig)
}

func TestProvider_GetKey(t *testing.T) {
	key := newSigningKey(t, "k1")
	srv := newKeySetServer(t, key)

	p, err := NewProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	got, err := p.GetKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "k1", got.KeyID)
	assert.Equal(t, domain.AlgorithmRS256, got.Algorithm)
	assert.True(t, key.PublicKey.Equal(got.PublicKey))

	// served from the ring
	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestProvider_ConcurrentCallersShareOneFetch(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))
	srv.delay = 50 * time.Millisecond

	p, err := NewProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	const callers = 32
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.GetKey(context.Background(), "k1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestProvider_UnknownKIDRefetchesOnce(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))

	p, err := NewProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "missing")
	assert.True(t, domain.IsAuthErrorKind(err, domain.AuthErrUnknownSigningKey))
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestProvider_PicksUpRotatedKey(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))

	p, err := NewProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)

	rotated := newSigningKey(t, "k2")
	srv.setKeys(rotated)

	got, err := p.GetKey(context.Background(), "k2")
	require.NoError(t, err)
	assert.True(t, rotated.PublicKey.Equal(got.PublicKey))
}

func TestProvider_UnknownKIDRefetchIsRateLimited(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))

	p, err := NewProvider(srv.URL, zap.NewNop(),
		WithUnknownKIDLimit(rate.NewLimiter(rate.Every(time.Hour), 1)))
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = p.GetKey(context.Background(), "missing")
		assert.True(t, domain.IsAuthErrorKind(err, domain.AuthErrUnknownSigningKey))
	}
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestProvider_ConcurrentCallersShareRotationRefetch(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))
	srv.delay = 100 * time.Millisecond

	p, err := NewProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)

	rotated := newSigningKey(t, "k2")
	srv.setKeys(rotated)

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.GetKey(context.Background(), "k2")
			if err == nil && !rotated.PublicKey.Equal(got.PublicKey) {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestProvider_RefreshesAfterTTL(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := NewProvider(srv.URL, zap.NewNop(),
		WithCacheTTL(time.Minute),
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	now = now.Add(time.Minute)
	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestProvider_ZeroTTLCachesUntilMiss(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := NewProvider(srv.URL, zap.NewNop(),
		WithCacheTTL(0),
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)

	now = now.Add(365 * 24 * time.Hour)
	_, err = p.GetKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestProvider_FetchFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*keySetServer)
	}{
		{
			name:  "origin error status",
			setup: func(s *keySetServer) { s.fail.Store(true) },
		},
		{
			name:  "no usable keys",
			setup: func(s *keySetServer) { s.setKeys() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newKeySetServer(t, newSigningKey(t, "k1"))
			tt.setup(srv)

			p, err := NewProvider(srv.URL, zap.NewNop())
			require.NoError(t, err)

			_, err = p.GetKey(context.Background(), "k1")
			assert.True(t, domain.IsAuthErrorKind(err, domain.AuthErrKeyProviderUnavailable))
		})
	}
}

func TestProvider_FetchTimeout(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))
	srv.delay = 200 * time.Millisecond

	p, err := NewProvider(srv.URL, zap.NewNop(), WithFetchTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = p.GetKey(context.Background(), "k1")
	assert.True(t, domain.IsAuthErrorKind(err, domain.AuthErrKeyProviderUnavailable))
}

func TestProvider_CallerCancellation(t *testing.T) {
	srv := newKeySetServer(t, newSigningKey(t, "k1"))
	srv.delay = 200 * time.Millisecond

	p, err := NewProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.GetKey(ctx, "k1")
	assert.True(t, domain.IsAuthErrorKind(err, domain.AuthErrKeyProviderUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticProvider(t *testing.T) {
	key := newSigningKey(t, "static")
	p := NewStaticProvider(key)

	got, err := p.GetKey(context.Background(), "static")
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = p.GetKey(context.Background(), "other")
	assert.True(t, domain.IsAuthErrorKind(err, domain.AuthErrUnknownSigningKey))
}
