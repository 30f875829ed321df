// Package config loads the server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	CORS        CORSConfig        `yaml:"cors"`
	Logging     LoggingConfig     `yaml:"logging"`
	Bookings    BookingsConfig    `yaml:"bookings"`
	Inventories InventoriesConfig `yaml:"inventories"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"CAMPGROUND_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// DSN empty means the in-memory store is used.
	DSN string `yaml:"dsn" env:"CAMPGROUND_DATABASE_DSN"`
}

type AuthConfig struct {
	StaffSecret string        `yaml:"staff_secret" env:"CAMPGROUND_STAFF_JWT_SECRET"`
	GuestSecret string        `yaml:"guest_secret" env:"CAMPGROUND_GUEST_JWT_SECRET"`
	StaffTTL    time.Duration `yaml:"staff_ttl" env:"CAMPGROUND_STAFF_TOKEN_TTL"`
	GuestTTL    time.Duration `yaml:"guest_ttl" env:"CAMPGROUND_GUEST_TOKEN_TTL"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"CAMPGROUND_RATE_LIMIT_RPM"`
	Burst             int `yaml:"burst" env:"CAMPGROUND_RATE_LIMIT_BURST"`
}

type CORSConfig struct {
	// Overridable via CAMPGROUND_CORS_ORIGINS, semicolon separated.
	AllowedOrigins []string `yaml:"allowed_origins" env:"CAMPGROUND_CORS_ORIGINS"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"CAMPGROUND_LOG_LEVEL"`
}

type BookingsConfig struct {
	RevalidateOverlapOnUpdate bool `yaml:"revalidate_overlap_on_update"`
}

type InventoriesConfig struct {
	RecheckAlternationOnUpdate bool `yaml:"recheck_alternation_on_update"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			StaffTTL: 24 * time.Hour,
			GuestTTL: 12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 300,
			Burst:             50,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration file at path (if non-empty) on top of the
// defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Unset variables leave the file values in place.
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.StaffSecret == "" {
		return fmt.Errorf("auth.staff_secret is required (or CAMPGROUND_STAFF_JWT_SECRET)")
	}
	if c.Auth.GuestSecret == "" {
		return fmt.Errorf("auth.guest_secret is required (or CAMPGROUND_GUEST_JWT_SECRET)")
	}
	if c.Auth.StaffSecret == c.Auth.GuestSecret {
		return fmt.Errorf("staff and guest JWT secrets must differ")
	}
	return nil
}
