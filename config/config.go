// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration. DataDir is threaded explicitly
// into the loan store; nothing reads it as ambient state.
type Config struct {
	DataDir        string
	Port           int
	LogLevel       string
	DevMode        bool
	RedisAddr      string // empty disables the redis cache
	BackupDir      string // empty disables the backup job
	BackupSchedule string // cron spec
	APIRatePerMin  int    // calculator/payoff API requests per client per minute
}

// Load reads configuration from a .env file (if present) and the
// environment, with sensible defaults for local use.
func Load() (*Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "5003"))
	if err != nil {
		port = 5003
	}
	rate, err := strconv.Atoi(getEnv("API_RATE_PER_MIN", "30"))
	if err != nil || rate <= 0 {
		rate = 30
	}

	return &Config{
		DataDir:        getEnv("LOANBOOK_DATA_DIR", "data"),
		Port:           port,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnv("DEV_MODE", "") == "true",
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		BackupDir:      getEnv("BACKUP_DIR", ""),
		BackupSchedule: getEnv("BACKUP_SCHEDULE", "@daily"),
		APIRatePerMin:  rate,
	}, nil
}

// getEnv retrieves an environment variable, returning the fallback when it
// is unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
