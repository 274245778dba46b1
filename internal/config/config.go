// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// Key derivation parameters are not configurable: changing them would make
// every previously wrapped secret unrecoverable.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsOutput is a file path where the Prometheus text exposition is written on shutdown.
	// Empty disables the dump.
	MetricsOutput string

	// PasswordMinLength is the minimum password length accepted when creating new keys.
	PasswordMinLength int

	// OutputFormat is the default CLI output format ("text", "json" or "yaml").
	OutputFormat string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "envelope"),
		MetricsOutput:    env.GetString("METRICS_OUTPUT", ""),

		// Key creation policy
		PasswordMinLength: env.GetInt("PASSWORD_MIN_LENGTH", 12),

		// CLI
		OutputFormat: env.GetString("OUTPUT_FORMAT", "text"),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
