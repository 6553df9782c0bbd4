package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageBadger   = "badger"
)

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Badger      BadgerConfig
	Typesense   TypesenseConfig
	Auth        AuthConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	TrustProxy     bool
}

// StorageConfig selects the durable key-value backend.
type StorageConfig struct {
	Backend string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// EventsEnabled routes notification events through Redis pub/sub.
	EventsEnabled bool
}

// BadgerConfig holds the embedded store location.
type BadgerConfig struct {
	Dir string
}

// TypesenseConfig holds Typesense configuration. An empty URL disables search indexing.
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// AuthConfig controls the login/registration screens and session lifetime.
// SessionIdleTTL evicts in-memory session stores untouched for that long.
type AuthConfig struct {
	SimulatedDelay  time.Duration
	RateLimitPerMin int
	RateLimitBurst  int
	SessionCookie   string
	SessionIdleTTL  time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			TrustProxy:     getEnvAsBool("TRUST_PROXY", false),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "stayhealthy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnvAsInt("REDIS_PORT", 6379),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			EventsEnabled: getEnvAsBool("REDIS_EVENTS_ENABLED", false),
		},
		Badger: BadgerConfig{
			Dir: getEnv("BADGER_DIR", "./data/badger"),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", ""),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Auth: AuthConfig{
			SimulatedDelay:  getEnvAsDuration("AUTH_SIMULATED_DELAY", time.Second),
			RateLimitPerMin: getEnvAsInt("AUTH_RATE_LIMIT_PER_MIN", 30),
			RateLimitBurst:  getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
			SessionCookie:   getEnv("SESSION_COOKIE_NAME", "stayhealthy_sid"),
			SessionIdleTTL:  getEnvAsDuration("SESSION_IDLE_TTL", 24*time.Hour),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "stayhealthy"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	switch cfg.Storage.Backend {
	case StorageMemory, StorageRedis, StoragePostgres, StorageBadger:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
