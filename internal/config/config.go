package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	DefaultGrid           string
	ClockIntervalMS       int
	RevealDelayMS         int
	PersistWorkerCount    int
	PersistQueueSize      int
	SessionIdleTTLMinutes int
	BcryptCost            int
	LoginAttemptsPerMin   int
	AdminUsername         string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:memorymatch.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		DefaultGrid:           envOr("DEFAULT_GRID", "4x4"),
		ClockIntervalMS:       envIntOr("CLOCK_INTERVAL_MS", 500),
		RevealDelayMS:         envIntOr("REVEAL_DELAY_MS", 700),
		PersistWorkerCount:    envIntOr("PERSIST_WORKER_COUNT", 2),
		PersistQueueSize:      envIntOr("PERSIST_QUEUE_SIZE", 64),
		SessionIdleTTLMinutes: envIntOr("SESSION_IDLE_TTL_MINUTES", 60),
		BcryptCost:            envIntOr("BCRYPT_COST", 10),
		LoginAttemptsPerMin:   envIntOr("LOGIN_ATTEMPTS_PER_MINUTE", 10),
		AdminUsername:         strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if !logger.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if _, err := deck.ParseGrid(c.DefaultGrid); err != nil {
		problems = append(problems, fmt.Sprintf("DEFAULT_GRID is invalid: %q", c.DefaultGrid))
	}
	if c.ClockIntervalMS < 50 || c.ClockIntervalMS > 10000 {
		problems = append(problems, fmt.Sprintf("CLOCK_INTERVAL_MS must be between 50 and 10000 (got %d)", c.ClockIntervalMS))
	}
	if c.RevealDelayMS < 0 || c.RevealDelayMS > 10000 {
		problems = append(problems, fmt.Sprintf("REVEAL_DELAY_MS must be between 0 and 10000 (got %d)", c.RevealDelayMS))
	}
	if c.PersistWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("PERSIST_WORKER_COUNT must be at least 1 (got %d)", c.PersistWorkerCount))
	}
	if c.PersistQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("PERSIST_QUEUE_SIZE must be at least 1 (got %d)", c.PersistQueueSize))
	}
	if c.SessionIdleTTLMinutes < 0 {
		problems = append(problems, fmt.Sprintf("SESSION_IDLE_TTL_MINUTES cannot be negative (got %d)", c.SessionIdleTTLMinutes))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("BCRYPT_COST must be between 4 and 31 (got %d)", c.BcryptCost))
	}
	if c.LoginAttemptsPerMin < 0 {
		problems = append(problems, fmt.Sprintf("LOGIN_ATTEMPTS_PER_MINUTE cannot be negative (got %d)", c.LoginAttemptsPerMin))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) ClockInterval() time.Duration {
	return time.Duration(c.ClockIntervalMS) * time.Millisecond
}

func (c Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMS) * time.Millisecond
}

// SessionIdleTTL is zero when idle eviction is disabled.
func (c Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMinutes) * time.Minute
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
