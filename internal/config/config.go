// Package config loads and validates configuration at startup.
// Values come from the environment, optionally seeded from a .env file.
// Invalid values fail fast.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

type Config struct {
	ServerAddress  string
	Storage        string
	PostgresConn   string
	MigrationsPath string
	RedisURL       string // optional, empty disables bid events
	Currency       string
	SeedFile       string
	LogFormat      string
	LogLevel       slog.Level
}

// Load reads the given .env files (default ".env"), skipping missing ones,
// then builds a validated Config from the environment. Variables already
// set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":8080"),
		Storage:        getEnv("STORAGE", StoragePostgres),
		PostgresConn:   os.Getenv("POSTGRES_CONN"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		RedisURL:       os.Getenv("REDIS_URL"),
		Currency:       getEnv("BID_CURRENCY", "GBP"),
		SeedFile:       os.Getenv("SEED_FILE"),
		LogFormat:      getEnv("LOG_FORMAT", LogFormatJSON),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.PostgresConn == "" {
			return fmt.Errorf("POSTGRES_CONN is required when STORAGE=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}

	if c.SeedFile != "" && c.Storage != StorageMemory {
		return fmt.Errorf("SEED_FILE is only supported with STORAGE=%s", StorageMemory)
	}

	if !isCurrencyCode(c.Currency) {
		return fmt.Errorf("BID_CURRENCY must be a three-letter code, got %q", c.Currency)
	}

	switch c.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatText, c.LogFormat)
	}

	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	return strings.Trim(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") == ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
