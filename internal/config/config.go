package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// FASHN virtual try-on API
	FashnAPIKey     string
	FashnAPIBaseURL string

	// RevenueCat entitlement API
	RevenueCatAPIKey  string
	RevenueCatBaseURL string

	// Auth
	JWTSecret string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	// Optional .env for local development; deployments use real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		FashnAPIKey:     getEnv("FASHN_API_KEY", ""),
		FashnAPIBaseURL: getEnv("FASHN_API_BASE_URL", "https://api.fashn.ai/v1"),

		RevenueCatAPIKey:  getEnv("REVENUECAT_API_KEY", ""),
		RevenueCatBaseURL: getEnv("REVENUECAT_BASE_URL", "https://api.revenuecat.com/v1"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FashnAPIKey == "" {
		return fmt.Errorf("FASHN_API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
