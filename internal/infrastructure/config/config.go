package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session   SessionConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Identity  IdentityConfig
	AMQP      AMQPConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,           default=1440h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=portal_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=true"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=sqlite"`
	DSN    string `env:"DATABASE_DSN,   default=file:recruitment.db?_foreign_keys=on"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=recruitment_portal"`
}

// RedisConfig is optional; an empty Addr disables the session denylist and
// switches rate limiting to the in-memory limiter.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type IdentityConfig struct {
	BaseURL string        `env:"USERS_SERVICE_API_URL, default=https://getmocha.com/u"`
	APIKey  string        `env:"USERS_SERVICE_API_KEY"`
	Timeout time.Duration `env:"USERS_SERVICE_TIMEOUT, default=10s"`
}

// AMQPConfig is optional; an empty URL discards workflow events.
type AMQPConfig struct {
	URL       string `env:"AMQP_URL"`
	Queue     string `env:"AMQP_QUEUE,          default=recruitment.events"`
	Workers   int    `env:"EVENT_WORKERS,       default=4"`
	QueueSize int    `env:"EVENT_QUEUE_SIZE,    default=256"`
}

// RateLimitConfig bounds application submissions per user with a token
// bucket that gains one token every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool          `env:"SUBMIT_RATE_LIMIT_ENABLED,   default=true"`
	Capacity       int           `env:"SUBMIT_RATE_CAPACITY,        default=5"`
	RefillInterval time.Duration `env:"SUBMIT_RATE_REFILL_INTERVAL, default=1m"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=http://localhost:5173"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageSQLite, StoragePostgres, StorageMongo:
	default:
		return fmt.Errorf("config: unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Session.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Capacity <= 0 || c.RateLimit.RefillInterval <= 0) {
		return fmt.Errorf("config: submit rate limit needs a positive capacity and refill interval")
	}
	if c.AMQP.Workers <= 0 {
		return fmt.Errorf("config: EVENT_WORKERS must be positive")
	}
	return nil
}
