package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Registry configuration
	MaxUsers      int
	EnableLogging bool

	// Export configuration
	ExportFormat string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		MaxUsers: getEnvInt("MAX_USERS", 1000),
		// Only the exact string "true" turns the creation log on.
		EnableLogging: getEnv("ENABLE_LOGGING", "true") == "true",
		ExportFormat:  getEnv("EXPORT_FORMAT", "json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate validates the configuration.
func (c *Config) validate() error {
	if c.MaxUsers < 1 {
		return fmt.Errorf("MAX_USERS must be at least 1")
	}
	switch c.ExportFormat {
	case "json", "ndjson", "csv":
	default:
		return fmt.Errorf("EXPORT_FORMAT must be one of json, ndjson, csv")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
