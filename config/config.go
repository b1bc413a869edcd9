package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP
	HTTPPort string

	// Database
	DatabaseURL string

	// Marketplace settings
	StartingBalance int64         // credits granted to every new account
	IdempotencyTTL  time.Duration // how long purchase idempotency tokens stay valid

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		HTTPPort:    os.Getenv("HTTP_PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Everyone starts with 100 credits
		StartingBalance: 100,
		IdempotencyTTL:  15 * time.Minute,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if ttl := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); ttl != "" {
		if parsed, err := strconv.Atoi(ttl); err == nil && parsed > 0 {
			config.IdempotencyTTL = time.Duration(parsed) * time.Second
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
