package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process-level settings read from the environment.
type Config struct {
	Port         int
	LogLevel     string
	LogFormat    string
	DatabaseURL  string // empty disables run persistence
	TickRate     int    // simulation ticks per second
	HistoryLimit int    // statistics points kept per session, 0 for unbounded
	Scenario     string // optional YAML scenario used for new sessions
}

func Load() *Config {
	return &Config{
		Port:         getEnvInt("PORT", 8080),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		TickRate:     getEnvInt("TICK_RATE", 60),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 0),
		Scenario:     getEnv("SCENARIO", ""),
	}
}

// TickInterval converts TickRate into the session ticker period.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
