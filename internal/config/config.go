package config

import (
	"os"
	"strconv"
	"time"

	"gauntlet/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Budget   BudgetConfig
	Report   ReportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	Host    string
	Port    int
	Name    string
	User    string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string

	// SubmissionTimeout bounds how long the engine waits for an external
	// critique/defense round before the round is surfaced as ambiguous.
	SubmissionTimeout time.Duration
}

// BudgetConfig holds the shared per-run resource budget
type BudgetConfig struct {
	// TotalUnits is the global cost budget shared by all tournaments.
	// Zero disables budget enforcement.
	TotalUnits int64
	// RoundCost is the cost charged per evaluated round.
	RoundCost int64
	// MaxConcurrent bounds how many tournaments run in parallel.
	MaxConcurrent int
}

// ReportConfig holds transcript/export settings
type ReportConfig struct {
	OutputDir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Budget = *loadBudgetConfig()
	config.Report = *loadReportConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		Host:    getEnvOrDefault("DB_HOST", ""),
		Port:    getEnvIntOrDefault("DB_PORT", 5432),
		Name:    getEnvOrDefault("DB_NAME", ""),
		User:    getEnvOrDefault("DB_USER", ""),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:              getEnvOrDefault("PORT", "8080"),
		OpsPort:           getEnvOrDefault("OPS_PORT", "8081"),
		GinMode:           getEnvOrDefault("GIN_MODE", "release"),
		SubmissionTimeout: getEnvDurationOrDefault("SUBMISSION_TIMEOUT", 10*time.Minute),
	}
}

func loadBudgetConfig() *BudgetConfig {
	return &BudgetConfig{
		TotalUnits:    int64(getEnvIntOrDefault("BUDGET_UNITS", 0)),
		RoundCost:     int64(getEnvIntOrDefault("BUDGET_ROUND_COST", 1)),
		MaxConcurrent: getEnvIntOrDefault("MAX_CONCURRENT_TOURNAMENTS", 8),
	}
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		OutputDir: getEnvOrDefault("REPORT_DIR", "./reports"),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Budget.RoundCost < 0 {
		return errors.ConfigInvalid("round cost cannot be negative")
	}
	if config.Budget.MaxConcurrent < 1 {
		return errors.ConfigInvalid("max concurrent tournaments must be at least 1")
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
