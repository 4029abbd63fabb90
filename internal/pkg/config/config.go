package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/campusdesk/classroom-auth/internal/core/domain"
)

type Config struct {
	Port         string `env:"PORT,      default=8080"`
	Env          string `env:"ENV,       default=development"`
	LogLevel     string `env:"LOG_LEVEL, default=info"`
	JWTSecret    string `env:"JWT_SECRET, required"`
	BcryptCost   int    `env:"BCRYPT_COST, default=12"`
	StrictBearer bool   `env:"STRICT_BEARER, default=false"`

	HTTP  HTTPConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT,  default=10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT, default=15s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=classroom"`
}

type RedisConfig struct {
	Addr             string        `env:"REDIS_ADDR,         default=localhost:6379"`
	DB               int           `env:"REDIS_DB,           default=0"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL, default=5m"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper. A missing or blank
// JWT_SECRET is an error; the process must not start without it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("config: JWT_SECRET: %w", domain.ErrMissingSecret)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
