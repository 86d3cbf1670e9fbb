package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Gateway  GatewayConfig
	Database DatabaseConfig
	Logger   LoggerConfig
}

// GatewayConfig holds Nexi XPay gateway configuration
type GatewayConfig struct {
	BaseURL    string // Base URL for the XPay API (e.g., https://xpaysandbox.nexigroup.com/api/phoenix-0.0/psp/api/v1)
	APIKey     string // API key sent as X-Api-Key on every request
	Timeout    int    // Request timeout in seconds (default: 30)
	MaxRetries int    // Retries on transport errors and 5xx responses
}

// DatabaseConfig holds PostgreSQL configuration for the refund store
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			BaseURL:    getEnv("NEXIXPAY_BASE_URL", "https://xpaysandbox.nexigroup.com/api/phoenix-0.0/psp/api/v1"),
			APIKey:     getEnv("NEXIXPAY_API_KEY", ""),
			Timeout:    getEnvAsInt("NEXIXPAY_TIMEOUT", 30),
			MaxRetries: getEnvAsInt("NEXIXPAY_MAX_RETRIES", 3),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "payments"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Gateway.APIKey == "" {
		return nil, fmt.Errorf("NEXIXPAY_API_KEY is required")
	}

	return cfg, nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
