package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config captures the runtime configuration for the service.
type Config struct {
	HTTPAddress    string
	DatabaseDriver string
	DatabaseURL    string
	LogLevel       slog.Level
	AutoMigrate    bool
}

// Load reads configuration from the environment with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddress:    valueOrDefault(os.Getenv("HTTP_ADDRESS"), ":8080"),
		DatabaseDriver: valueOrDefault(os.Getenv("DATABASE_DRIVER"), "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return cfg, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}

	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == "postgres" {
		cfg.DatabaseURL = legacyPostgresURL()
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL must be provided")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(valueOrDefault(os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(valueOrDefault(os.Getenv("AUTO_MIGRATE"), "true"))
	if err != nil {
		return cfg, fmt.Errorf("AUTO_MIGRATE: %w", err)
	}
	cfg.AutoMigrate = autoMigrate

	return cfg, nil
}

// legacyPostgresURL assembles a connection URL from the DB_* variables used
// by earlier deployments. It returns "" when DB_NAME is not set.
func legacyPostgresURL() string {
	name := os.Getenv("DB_NAME")
	if name == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host: net.JoinHostPort(
			valueOrDefault(os.Getenv("DB_LOCATION"), "localhost"),
			valueOrDefault(os.Getenv("DB_PORT"), "5432"),
		),
		Path: "/" + name,
	}
	if user := os.Getenv("DB_USER"); user != "" {
		if password := os.Getenv("DB_PASSWORD"); password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	if mode := os.Getenv("DB_SSLMODE"); mode != "" {
		u.RawQuery = "sslmode=" + strings.ToLower(mode)
	}

	return u.String()
}

func valueOrDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
