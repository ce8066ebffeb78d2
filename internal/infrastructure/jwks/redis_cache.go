package jwks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by a SharedCache holding no key set
var ErrCacheMiss = errors.New("jwks: shared cache miss")

// SharedCache stores raw JWKS documents where several replicas can read them
type SharedCache interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, doc []byte, ttl time.Duration) error
}

// RedisCache is a SharedCache backed by a single Redis key
type RedisCache struct {
	client redis.UniversalClient
	key    string
}

// NewRedisCache stores the key set published at jwksURL under prefix+jwksURL
func NewRedisCache(client redis.UniversalClient, prefix, jwksURL string) *RedisCache {
	return &RedisCache{client: client, key: prefix + jwksURL}
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("jwks: redis ping: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context) ([]byte, error) {
	doc, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("jwks: redis get: %w", err)
	}
	return doc, nil
}

// Set stores doc. A zero ttl keeps it until overwritten.
func (c *RedisCache) Set(ctx context.Context, doc []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key, doc, ttl).Err(); err != nil {
		return fmt.Errorf("jwks: redis set: %w", err)
	}
	return nil
}
