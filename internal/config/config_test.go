package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/memorymatch/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                  ":8080",
		DBPath:                "test.db",
		LogLevel:              "INFO",
		DefaultGrid:           "4x4",
		ClockIntervalMS:       500,
		RevealDelayMS:         700,
		PersistWorkerCount:    2,
		PersistQueueSize:      64,
		SessionIdleTTLMinutes: 60,
		BcryptCost:            10,
		LoginAttemptsPerMin:   10,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_SingleField(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }, "ADDR cannot be empty"},
		{"empty db path", func(c *config.Config) { c.DBPath = " " }, "DB_PATH cannot be empty"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "TRACE" }, "LOG_LEVEL"},
		{"bad grid", func(c *config.Config) { c.DefaultGrid = "4by4" }, "DEFAULT_GRID"},
		{"odd single cell grid", func(c *config.Config) { c.DefaultGrid = "1x1" }, "DEFAULT_GRID"},
		{"clock too fast", func(c *config.Config) { c.ClockIntervalMS = 10 }, "CLOCK_INTERVAL_MS"},
		{"negative reveal delay", func(c *config.Config) { c.RevealDelayMS = -1 }, "REVEAL_DELAY_MS"},
		{"no workers", func(c *config.Config) { c.PersistWorkerCount = 0 }, "PERSIST_WORKER_COUNT"},
		{"no queue", func(c *config.Config) { c.PersistQueueSize = 0 }, "PERSIST_QUEUE_SIZE"},
		{"negative ttl", func(c *config.Config) { c.SessionIdleTTLMinutes = -5 }, "SESSION_IDLE_TTL_MINUTES"},
		{"bcrypt cost", func(c *config.Config) { c.BcryptCost = 2 }, "BCRYPT_COST"},
		{"negative login rate", func(c *config.Config) { c.LoginAttemptsPerMin = -1 }, "LOGIN_ATTEMPTS_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "info", "Warn", "WARNING", "ERROR"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := config.Config{LogLevel: "nope"}.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "DEFAULT_GRID")
	assert.Contains(t, errStr, "CLOCK_INTERVAL_MS")
	assert.Contains(t, errStr, "PERSIST_WORKER_COUNT")
	assert.Contains(t, errStr, "PERSIST_QUEUE_SIZE")
	assert.Contains(t, errStr, "BCRYPT_COST")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("REVEAL_DELAY_MS", "250")
	t.Setenv("PERSIST_QUEUE_SIZE", "not-a-number")
	t.Setenv("ADMIN_USERNAME", " root ")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.RevealDelay())
	assert.Equal(t, 64, cfg.PersistQueueSize)
	assert.Equal(t, 500*time.Millisecond, cfg.ClockInterval())
	assert.Equal(t, 10, cfg.LoginAttemptsPerMin)
	assert.Equal(t, "root", cfg.AdminUsername)
}
