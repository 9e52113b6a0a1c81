package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port        string
	PostgresDSN string

	// RedisAddr is optional; when empty the rate limiter falls back to
	// its in-process implementation.
	RedisAddr     string
	RedisPassword string

	// Rate-limit windows (seconds) for the two auth endpoints.
	TokenWindowSec   int
	RefreshWindowSec int

	// Table names, overridable to match an existing deployment.
	AccountsTable string
	TokensTable   string
	ClassesTable  string
	HomeworkTable string
}

func Load() *Config {
	// Best-effort: a missing .env just means plain env vars.
	godotenv.Load()

	return &Config{
		Port:             getenv("PORT", "8080"),
		PostgresDSN:      getenv("POSTGRES_DSN", ""),
		RedisAddr:        getenv("REDIS_ADDR", ""),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		TokenWindowSec:   getenvInt("RATE_LIMIT_TOKEN", 10),
		RefreshWindowSec: getenvInt("RATE_LIMIT_REFRESH", 10),
		AccountsTable:    getenv("TABLE_ACCOUNTS", "accounts"),
		TokensTable:      getenv("TABLE_TOKENS", "tokens"),
		ClassesTable:     getenv("TABLE_CLASSES", "classes"),
		HomeworkTable:    getenv("TABLE_HOMEWORK", "homework"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
