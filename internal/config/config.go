// Package config builds the immutable process configuration from the
// environment. It is loaded once in main and passed into constructors.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds runtime settings for the game store server.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:"file:gamestore.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"game-store"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"game-store-users"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"8h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`

	OtelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint string `env:"OTEL_ENDPOINT" envDefault:"otel-collector:4317"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	return errors.Join(errs...)
}

// SlogLevel converts LogLevel into a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name onto a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StoreConfig is the subset of settings the admin CLI needs. It does not
// require a signing secret.
type StoreConfig struct {
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN      string `env:"DB_DSN" envDefault:"file:gamestore.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadStore reads an optional .env file and parses the store settings.
func LoadStore() (*StoreConfig, error) {
	_ = godotenv.Load()

	cfg := &StoreConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverPostgres {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DBDriver)
	}
	return cfg, nil
}
