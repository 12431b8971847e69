package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port    string
	Env     string // development, staging, production
	BaseURL string // public base URL, echoed in the service descriptor

	// Upstream providers
	Holidays  HolidayConfig
	OnThisDay OnThisDayConfig

	// Payments
	Payments PaymentsConfig

	// Database (optional; payments fall back to an in-memory tracker)
	Database DatabaseConfig

	// Redis (optional holiday cache)
	Redis RedisConfig

	// Warmup
	WarmupSchedule string
	WarmupEnabled  bool

	// Logging
	LogLevel  string
	LogFormat string

	// Static assets
	IconPath string
}

// HolidayConfig holds the public-holiday provider configuration.
type HolidayConfig struct {
	BaseURL string
	Timeout time.Duration
	RateRPS int
}

// OnThisDayConfig holds the on-this-day feed configuration.
type OnThisDayConfig struct {
	BaseURL string
	Timeout time.Duration
	RateRPS int
}

// PaymentsConfig holds per-operation prices in minor currency units.
// A price of 0 means the operation is free.
type PaymentsConfig struct {
	Currency      string
	PriceHolidays int64
	PriceEvents   int64
	PriceBirths   int64
	PriceContext  int64
	PriceCompare  int64
}

// DatabaseConfig holds PostgreSQL configuration for the payment ledger.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:    getEnv("PORT", "8080"),
		Env:     getEnv("ENV", "development"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		// Upstream providers
		Holidays: HolidayConfig{
			BaseURL: getEnv("HOLIDAY_BASE_URL", "https://date.nager.at"),
			Timeout: getEnvAsDuration("HOLIDAY_TIMEOUT", "10s"),
			RateRPS: getEnvAsInt("HOLIDAY_RATE_RPS", 10),
		},
		OnThisDay: OnThisDayConfig{
			BaseURL: getEnv("ONTHISDAY_BASE_URL", "https://api.wikimedia.org/feed/v1/wikipedia/en"),
			Timeout: getEnvAsDuration("ONTHISDAY_TIMEOUT", "15s"),
			RateRPS: getEnvAsInt("ONTHISDAY_RATE_RPS", 10),
		},

		// Payments
		Payments: PaymentsConfig{
			Currency:      getEnv("PAYMENT_CURRENCY", "USD"),
			PriceHolidays: getEnvAsInt64("PRICE_HOLIDAYS", 10),
			PriceEvents:   getEnvAsInt64("PRICE_EVENTS", 10),
			PriceBirths:   getEnvAsInt64("PRICE_BIRTHS", 10),
			PriceContext:  getEnvAsInt64("PRICE_CONTEXT", 25),
			PriceCompare:  getEnvAsInt64("PRICE_COMPARE", 25),
		},

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Warmup
		WarmupSchedule: getEnv("WARMUP_SCHEDULE", "0 0 5 * * *"),
		WarmupEnabled:  getEnvAsBool("WARMUP_ENABLED", false),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Static assets
		IconPath: getEnv("ICON_PATH", "assets/icon.png"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Holidays.BaseURL == "" {
		return fmt.Errorf("HOLIDAY_BASE_URL is required")
	}

	if c.OnThisDay.BaseURL == "" {
		return fmt.Errorf("ONTHISDAY_BASE_URL is required")
	}

	if c.Payments.Currency == "" {
		return fmt.Errorf("PAYMENT_CURRENCY is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
