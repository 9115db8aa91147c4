package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Parser        ParserConfig
	Spool         SpoolConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ParserConfig configures statement parsing defaults. Per-request overrides
// take precedence.
type ParserConfig struct {
	DefaultCurrency string
	EuropeanAmounts bool
	FuzzyLabels     bool
}

// SpoolConfig configures scheduled batch ingestion of spooled statements.
type SpoolConfig struct {
	Enabled  bool
	Dir      string
	Schedule string // standard 5-field cron expression
}

type ObservabilityConfig struct {
	MetricsEnabled bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory is merged in first; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 50),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 100),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "invoice-parser"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Parser: ParserConfig{
			DefaultCurrency: getEnv("PARSER_DEFAULT_CURRENCY", "EUR"),
			EuropeanAmounts: getEnvAsBool("PARSER_EUROPEAN_AMOUNTS", false),
			FuzzyLabels:     getEnvAsBool("PARSER_FUZZY_LABELS", false),
		},
		Spool: SpoolConfig{
			Enabled:  getEnvAsBool("SPOOL_ENABLED", false),
			Dir:      getEnv("SPOOL_DIR", ""),
			Schedule: getEnv("SPOOL_SCHEDULE", "*/5 * * * *"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if len(cfg.Parser.DefaultCurrency) != 3 {
		return nil, errors.New("PARSER_DEFAULT_CURRENCY must be a 3-letter ISO code")
	}

	if cfg.Spool.Enabled && cfg.Spool.Dir == "" {
		return nil, errors.New("SPOOL_DIR is required when SPOOL_ENABLED is set")
	}

	return cfg, nil
}

// HasDatabase reports whether persistence is configured. The parser runs
// fine without it; verdicts are just not stored.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
