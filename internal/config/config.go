// Package config provides configuration management for the cache service.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration so the service starts safely.
//
// A missing remote store configuration is not an error: when ENDPOINT_URL or
// CREDENTIAL is empty the remote tier is disabled for the lifetime of the
// process and every operation is served by the in-process fallback tier.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Remote Store Configuration:
//   - ENDPOINT_URL: Remote key-value store address, either "redis://..." or
//     "host:port" (empty disables the remote tier)
//   - CREDENTIAL: Remote store password (empty disables the remote tier)
//   - POOL_SIZE: Remote connection pool size (default: 10)
//
// Resilience Settings:
//   - TIMEOUT_MS: Per-attempt timeout for remote operations (default: 5000)
//   - MAX_RETRIES: Retries after the first failed attempt (default: 3)
//   - RETRY_DELAY_MS: Base backoff delay, grows linearly per attempt (default: 1000)
//   - CLEANUP_INTERVAL_MS: Interval between eviction passes over the local
//     fallback tier (default: 60000)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the cache service.
// All fields correspond to environment variables that can be set to
// override the default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)

	// Remote store configuration
	Endpoint   string // Remote store address (redis:// URL or host:port)
	Credential string // Remote store password
	PoolSize   int    // Remote connection pool size

	// Resilience settings
	Timeout         time.Duration // Per-attempt timeout for remote operations
	MaxRetries      int           // Retries after the first failed attempt
	RetryDelay      time.Duration // Base backoff delay between attempts
	CleanupInterval time.Duration // Interval between local eviction passes
}

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding default
// value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all values are valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Endpoint:   getEnv("ENDPOINT_URL", ""),
		Credential: getEnv("CREDENTIAL", ""),
		PoolSize:   getIntEnv("POOL_SIZE", 10),

		Timeout:         getMillisEnv("TIMEOUT_MS", 5000),
		MaxRetries:      getIntEnv("MAX_RETRIES", 3),
		RetryDelay:      getMillisEnv("RETRY_DELAY_MS", 1000),
		CleanupInterval: getMillisEnv("CLEANUP_INTERVAL_MS", 60000),
	}
}

// IsConfigured reports whether the remote tier should be attempted at all.
// Both the endpoint and the credential must be present; otherwise every
// operation is served by the local fallback tier.
func (c *Config) IsConfigured() bool {
	return c.Endpoint != "" && c.Credential != ""
}

// Validate performs validation on the configuration to ensure all values are
// valid. A missing remote store configuration is deliberately not rejected -
// it disables the remote tier rather than failing startup.
//
// Returns:
//   - error: A descriptive error if validation fails, nil if configuration is valid
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT_MS must be a positive number of milliseconds")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be zero or a positive number")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("RETRY_DELAY_MS must be zero or a positive number of milliseconds")
	}

	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL_MS must be a positive number of milliseconds")
	}

	if c.PoolSize < 1 {
		return fmt.Errorf("POOL_SIZE must be a positive number")
	}

	return nil
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value or returns a
// default value if not set or not parseable.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getMillisEnv retrieves an environment variable expressed in milliseconds as
// a time.Duration, or returns the default (also in milliseconds) if not set
// or not parseable.
func getMillisEnv(key string, defaultMillis int) time.Duration {
	return time.Duration(getIntEnv(key, defaultMillis)) * time.Millisecond
}
