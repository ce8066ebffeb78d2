package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ifat-github/casting-agency/internal/domain"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Token verification configuration
	AuthIssuer           string
	AuthAudience         string
	AuthJWKSURL          string
	AuthJWKSCacheTTL     time.Duration
	AuthJWKSFetchTimeout time.Duration
	AuthPublicKeyPath    string
	AuthPublicKeyID      string

	// Shared key set cache, optional
	Redis RedisConfig

	// Server configuration
	ServerPort     int
	RateLimitRPS   float64
	RateLimitBurst int
}

// RedisConfig configures the shared key set cache. ENV: REDIS_ADDR, REDIS_KEY_PREFIX
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB,default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX,default=casting-agency:jwks:"`
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		// Database defaults
		DBHost: "localhost",
		DBPort: 5432,

		// Token verification defaults
		AuthJWKSCacheTTL:     domain.DefaultJWKSCacheDuration,
		AuthJWKSFetchTimeout: domain.DefaultJWKSFetchTimeout,

		Redis: RedisConfig{KeyPrefix: "casting-agency:jwks:"},

		// Server defaults
		ServerPort:     8080,
		RateLimitRPS:   100,
		RateLimitBurst: 200,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig(logger *zap.Logger) (*Config, error) {
	// Load .env from project root
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	serverPort, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("AUTH_JWKS_CACHE_TTL", domain.DefaultJWKSCacheDuration.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_JWKS_CACHE_TTL: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(getEnv("AUTH_JWKS_FETCH_TIMEOUT", domain.DefaultJWKSFetchTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_JWKS_FETCH_TIMEOUT: %w", err)
	}
	if fetchTimeout <= 0 {
		return nil, errors.New("AUTH_JWKS_FETCH_TIMEOUT must be positive")
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	var redisCfg RedisConfig
	if err := envdecode.Decode(&redisCfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("invalid redis configuration: %w", err)
	}

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "casting_agency"),

		AuthIssuer:           getEnv("AUTH_ISSUER", ""),
		AuthAudience:         getEnv("AUTH_AUDIENCE", ""),
		AuthJWKSURL:          getEnv("AUTH_JWKS_URL", ""),
		AuthJWKSCacheTTL:     cacheTTL,
		AuthJWKSFetchTimeout: fetchTimeout,
		AuthPublicKeyPath:    getEnv("AUTH_PUBLIC_KEY_PATH", ""),
		AuthPublicKeyID:      getEnv("AUTH_PUBLIC_KEY_ID", ""),

		Redis: redisCfg,

		ServerPort:     serverPort,
		RateLimitRPS:   rps,
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 200),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that token verification can be configured
func (c *Config) Validate() error {
	if c.AuthIssuer == "" {
		return errors.New("AUTH_ISSUER is required")
	}
	if c.AuthAudience == "" {
		return errors.New("AUTH_AUDIENCE is required")
	}
	if c.AuthJWKSCacheTTL < 0 {
		return errors.New("AUTH_JWKS_CACHE_TTL must not be negative")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
