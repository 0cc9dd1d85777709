package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Mileage  MileageConfig
	Sweep    SweepConfig
	Promo    PromoConfig
}

// ServerConfig holds server-related configuration.
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

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// MileageConfig holds the injectable mileage business rules.
type MileageConfig struct {
	// RewardRateBps is the completion reward as basis points of the order
	// total, e.g. 500 = 5%.
	RewardRateBps int64

	// RedemptionCap is the maximum points redeemable on a single order.
	// Zero means uncapped.
	RedemptionCap int64

	// PromoBonus is the points granted when a valid promo code is used
	// at checkout.
	PromoBonus int64
}

// SweepConfig holds the auto-ship sweep settings.
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
}

// PromoConfig holds promo code list configuration.
type PromoConfig struct {
	Enabled       bool
	FilePaths     []string
	MinMatchCount int
	S3Enabled     bool
	S3Bucket      string
	S3Region      string
	S3Prefix      string // Path prefix within bucket (e.g., "promos/")
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
			Database:        getEnv("DB_NAME", "shopmile"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Mileage: MileageConfig{
			RewardRateBps: getEnvAsInt64("MILEAGE_REWARD_RATE_BPS", 500),
			RedemptionCap: getEnvAsInt64("MILEAGE_REDEMPTION_CAP", 0),
			PromoBonus:    getEnvAsInt64("MILEAGE_PROMO_BONUS", 100),
		},
		Sweep: SweepConfig{
			Enabled:  getEnvAsBool("SWEEP_ENABLED", true),
			Interval: time.Duration(getEnvAsInt("SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		},
		Promo: PromoConfig{
			Enabled:       getEnvAsBool("PROMO_ENABLED", false),
			FilePaths:     getEnvAsSlice("PROMO_FILE_PATHS", []string{"data/promos/promobase1.gz", "data/promos/promobase2.gz", "data/promos/promobase3.gz"}),
			MinMatchCount: getEnvAsInt("PROMO_MIN_MATCH_COUNT", 2),
			S3Enabled:     getEnvAsBool("PROMO_S3_ENABLED", false),
			S3Bucket:      getEnv("PROMO_S3_BUCKET", ""),
			S3Region:      getEnv("PROMO_S3_REGION", "us-east-1"),
			S3Prefix:      getEnv("PROMO_S3_PREFIX", "promos/"),
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

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Mileage.RewardRateBps < 0 || c.Mileage.RewardRateBps > 10000 {
		return fmt.Errorf("mileage reward rate must be between 0 and 10000 basis points")
	}

	if c.Mileage.RedemptionCap < 0 {
		return fmt.Errorf("mileage redemption cap cannot be negative")
	}

	if c.Mileage.PromoBonus < 0 {
		return fmt.Errorf("mileage promo bonus cannot be negative")
	}

	if c.Sweep.Enabled && c.Sweep.Interval < time.Second {
		return fmt.Errorf("sweep interval must be at least one second")
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

	if c.Promo.Enabled {
		if len(c.Promo.FilePaths) == 0 {
			return fmt.Errorf("at least one promo file path is required when promo codes are enabled")
		}
		if c.Promo.MinMatchCount < 1 {
			return fmt.Errorf("promo min match count must be at least 1")
		}
		if c.Promo.S3Enabled {
			if c.Promo.S3Bucket == "" {
				return fmt.Errorf("S3 bucket is required when promo S3 loading is enabled")
			}
			if c.Promo.S3Region == "" {
				return fmt.Errorf("S3 region is required when promo S3 loading is enabled")
			}
		}
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

// getEnvAsInt64 retrieves an environment variable as an int64 or returns a default value.
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable or returns a default value.
func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
