package config

import (
	"os"
	"strconv"

	"simlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
}

// DatabaseConfig holds the optional run-history database settings.
// An empty URL selects the in-memory history store.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// EngineConfig bounds the simulation engine. The draw caps are the only
// runtime safeguard against unbounded calls, so they must stay positive.
type EngineConfig struct {
	MaxSampleN     int // generate() upper bound on n
	MaxPiPoints    int // pi experiment upper bound on iterations
	BatchWorkers   int // concurrent runs in a batch sweep
	HistoryKeep    int // in-memory history ring size
	DefaultAlpha   float64
	LoadMaxColumns int // sample loader column scan cap
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			OpsPort: getEnvOrDefault("OPS_PORT", ""),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Engine: EngineConfig{
			MaxSampleN:     getEnvIntOrDefault("SIMLAB_MAX_SAMPLE_N", 1_000_000),
			MaxPiPoints:    getEnvIntOrDefault("SIMLAB_MAX_PI_POINTS", 2_000_000),
			BatchWorkers:   getEnvIntOrDefault("SIMLAB_BATCH_WORKERS", 4),
			HistoryKeep:    getEnvIntOrDefault("SIMLAB_HISTORY_KEEP", 500),
			DefaultAlpha:   getEnvFloatOrDefault("SIMLAB_DEFAULT_ALPHA", 0.05),
			LoadMaxColumns: getEnvIntOrDefault("SIMLAB_LOAD_MAX_COLUMNS", 64),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Engine.MaxSampleN < 1 {
		return errors.ConfigInvalid("SIMLAB_MAX_SAMPLE_N must be at least 1")
	}
	if config.Engine.MaxPiPoints < 1 {
		return errors.ConfigInvalid("SIMLAB_MAX_PI_POINTS must be at least 1")
	}
	if config.Engine.BatchWorkers < 1 {
		return errors.ConfigInvalid("SIMLAB_BATCH_WORKERS must be at least 1")
	}
	if config.Engine.DefaultAlpha <= 0 || config.Engine.DefaultAlpha >= 1 {
		return errors.ConfigInvalid("SIMLAB_DEFAULT_ALPHA must lie strictly between 0 and 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
