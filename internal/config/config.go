package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Broker   BrokerConfig
	Delivery DeliveryConfig
}

// ServerConfig holds ingestion API server configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// BrokerConfig holds MQTT broker connection configuration.
type BrokerConfig struct {
	Host           string
	Port           int
	Topic          string
	ReconnectDelay time.Duration
}

// DeliveryConfig holds configuration for forwarding scans to the
// ingestion endpoint.
type DeliveryConfig struct {
	IngestURL      string
	MaxAttempts    int
	RetryDelay     time.Duration
	AttemptTimeout time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "stockingest"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Broker: BrokerConfig{
			Host:           getEnv("MQTT_BROKER_HOST", "mqtt.eclipseprojects.io"),
			Port:           getEnvAsInt("MQTT_BROKER_PORT", 1883),
			Topic:          getEnv("MQTT_TOPIC", "warehouse/qr"),
			ReconnectDelay: getEnvAsDuration("MQTT_RECONNECT_DELAY", 5*time.Second),
		},
		Delivery: DeliveryConfig{
			IngestURL:      getEnv("INGEST_URL", "http://localhost:8080/api/store_qr"),
			MaxAttempts:    getEnvAsInt("DELIVERY_MAX_ATTEMPTS", 5),
			RetryDelay:     getEnvAsDuration("DELIVERY_RETRY_DELAY", 3*time.Second),
			AttemptTimeout: getEnvAsDuration("DELIVERY_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Broker.Host == "" {
		return fmt.Errorf("broker host is required")
	}

	if c.Broker.Port < 1 || c.Broker.Port > 65535 {
		return fmt.Errorf("invalid broker port: %d", c.Broker.Port)
	}

	if c.Broker.Topic == "" {
		return fmt.Errorf("broker topic is required")
	}

	if c.Broker.ReconnectDelay <= 0 {
		return fmt.Errorf("broker reconnect delay must be positive")
	}

	if c.Delivery.IngestURL == "" {
		return fmt.Errorf("ingest URL is required")
	}

	if c.Delivery.MaxAttempts < 1 {
		return fmt.Errorf("delivery max attempts must be at least 1")
	}

	if c.Delivery.RetryDelay < 0 {
		return fmt.Errorf("delivery retry delay cannot be negative")
	}

	if c.Delivery.AttemptTimeout <= 0 {
		return fmt.Errorf("delivery attempt timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the broker address in the form the MQTT client expects.
func (c *BrokerConfig) URL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration
// (e.g. "3s", "500ms") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
