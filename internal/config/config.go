// Package config loads paylink's configuration from a YAML file, an optional
// .env file and PAYLINK_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Payment  PaymentConfig  `yaml:"payment"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	DSN    string `yaml:"dsn"`    // file path for sqlite
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// RedisConfig enables the Redis locker and notifier when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
	Stream   string        `yaml:"stream"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type PaymentConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     time.Minute,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "./data/paylink.db",
		},
		Auth: AuthConfig{
			TokenDuration: 24 * time.Hour,
		},
		Redis: RedisConfig{
			LockTTL: 10 * time.Second,
			Stream:  "paylink:billing-created",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Payment: PaymentConfig{
			BaseURL: "http://localhost:8080",
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply. A .env file in the working directory
// is loaded first if present; it never overrides variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides overrides config values with PAYLINK_* variables if set.
func applyEnvOverrides(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	setString("PAYLINK_SERVER_ADDRESS", &cfg.Server.Address)
	if err := setDuration("PAYLINK_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout); err != nil {
		return err
	}
	if err := setDuration("PAYLINK_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout); err != nil {
		return err
	}
	if origins := os.Getenv("PAYLINK_SERVER_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	setString("PAYLINK_DATABASE_DRIVER", &cfg.Database.Driver)
	setString("PAYLINK_DATABASE_DSN", &cfg.Database.DSN)

	setString("PAYLINK_AUTH_JWT_SECRET", &cfg.Auth.JWTSecret)
	if err := setDuration("PAYLINK_AUTH_TOKEN_DURATION", &cfg.Auth.TokenDuration); err != nil {
		return err
	}

	setString("PAYLINK_REDIS_ADDR", &cfg.Redis.Addr)
	setString("PAYLINK_REDIS_PASSWORD", &cfg.Redis.Password)
	if db := os.Getenv("PAYLINK_REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid PAYLINK_REDIS_DB %q: %w", db, err)
		}
		cfg.Redis.DB = n
	}

	setString("PAYLINK_LOG_LEVEL", &cfg.Log.Level)
	setString("PAYLINK_LOG_FORMAT", &cfg.Log.Format)

	setString("PAYLINK_PAYMENT_BASE_URL", &cfg.Payment.BaseURL)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first configuration error found.
func (c Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("database.driver must be sqlite or mysql, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.TokenDuration <= 0 {
		return errors.New("auth.token_duration must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Payment.BaseURL == "" {
		return errors.New("payment.base_url is required")
	}
	return nil
}
