package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Banking API (rest backend)
	APIBaseURL string
	APIKey     string
	APITimeout time.Duration
	APIRetries int

	// Fixture backend
	FixtureDir string

	// AMQP (movement events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Cache
	CacheSize int
	CacheTTL  time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		APIBaseURL: getEnv("API_BASE_URL", ""),
		APIKey:     getEnv("API_KEY", ""),
		APITimeout: getEnvDuration("API_TIMEOUT", 15*time.Second),
		APIRetries: getEnvInt("API_RETRIES", 3),

		FixtureDir: getEnv("FIXTURE_DIR", "./fixtures"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "bankdg"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "movement_events"),

		CacheSize: getEnvInt("CACHE_SIZE", 256),
		CacheTTL:  getEnvDuration("CACHE_TTL", 60*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "fixture"),
	}
}

// Validate checks the loaded configuration and aggregates every
// problem into a single error.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "rest":
		if c.APIBaseURL == "" {
			errors = append(errors, "API base URL is required when using the rest backend")
		} else if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': must be http or https", c.APIBaseURL))
		}
		if c.APIKey == "" {
			errors = append(errors, "API key is required when using the rest backend")
		}
	case "fixture":
		if c.FixtureDir == "" {
			errors = append(errors, "fixture directory cannot be empty when using the fixture backend")
		} else if info, err := os.Stat(c.FixtureDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("fixture directory does not exist: %s", c.FixtureDir))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [rest fixture]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.APITimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at least 1 second", c.APITimeout))
	}
	if c.APIRetries < 0 || c.APIRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid API retries %d: must be between 0 and 10", c.APIRetries))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
