// Package config loads server configuration from a .env file and environment
// variables, with sensible defaults for local development.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens. Override the default in production.
	JWTSecret string

	// TokenTTL is how long issued session tokens remain valid.
	TokenTTL time.Duration

	// ServerPort is the HTTP listen port.
	ServerPort string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	return &Config{
		DBPath:     getEnv("DB_PATH", "./data/habitsync.db"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:   time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return n
}
