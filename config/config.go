package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Migration modes for MIGRATIONS_MODE.
const (
	MigrationsSQL  = "sql"  // versioned SQL files via golang-migrate
	MigrationsAuto = "auto" // GORM AutoMigrate
)

type Config struct {
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsMode string `env:"MIGRATIONS_MODE" envDefault:"sql"`

	DB DatabaseConfig
}

// DatabaseConfig holds connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

func LoadEnv() error {
	// Try to load .env file if it exists (for local development)
	// On production, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		// .env file not found is not an error
		return nil
	}
	return nil
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	switch mode := GetEnv("MIGRATIONS_MODE", MigrationsSQL); mode {
	case MigrationsSQL, MigrationsAuto:
	default:
		return fmt.Errorf("MIGRATIONS_MODE must be %q or %q, got %q", MigrationsSQL, MigrationsAuto, mode)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("APP_ENV") == "" {
		log.Warn().Msg("APP_ENV not set - defaulting to development")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
