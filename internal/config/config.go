// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/quantdash/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DataDir      string // Base directory for the cache database (always absolute)
	LogLevel     string
	LogPretty    bool
	Port         int
	DevMode      bool
	CORSOrigins  []string
	AccessSecret string // Shared secret for POST /api/session; empty disables the gate
	SessionTTL   time.Duration

	YahooBaseURL string
	YahooRPS     float64
	CacheTTL     time.Duration // In-process series and dashboard cache freshness

	// Overlay holds values from the optional YAML file
	Overlay Overlay
}

// Overlay is the YAML file layout. Every field is optional.
type Overlay struct {
	Symbols   SymbolsOverlay   `yaml:"symbols"`
	Dashboard DashboardOverlay `yaml:"dashboard"`
}

// SymbolsOverlay selects the index and reference-rate tickers
type SymbolsOverlay struct {
	Price string `yaml:"price"`
	Rate  string `yaml:"rate"`
}

// DashboardOverlay overrides dashboard input defaults. Dates are YYYY-MM-DD.
type DashboardOverlay struct {
	Start       string  `yaml:"start"`
	End         string  `yaml:"end"`
	Strategy    string  `yaml:"strategy"`
	Lookback    int     `yaml:"lookback"`
	Confidence  float64 `yaml:"confidence"`
	Simulations int     `yaml:"simulations"`
	VaRWindow   int     `yaml:"var_window"`
	Seed        *uint64 `yaml:"seed"`
}

// Load reads configuration from environment variables and, when
// QUANTDASH_CONFIG names a file, the YAML overlay.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("QUANTDASH_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:      absDataDir,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", false),
		Port:         getEnvAsInt("PORT", 8080),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		CORSOrigins:  utils.ParseCSV(getEnv("CORS_ORIGINS", "*")),
		AccessSecret: getEnv("QUANTDASH_ACCESS_SECRET", ""),
		SessionTTL:   getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		YahooBaseURL: getEnv("YAHOO_BASE_URL", ""), // empty selects the client default
		YahooRPS:     getEnvAsFloat("YAHOO_RPS", 2),
		CacheTTL:     getEnvAsDuration("CACHE_TTL", time.Hour),
	}

	if path := getEnv("QUANTDASH_CONFIG", ""); path != "" {
		overlay, err := LoadOverlay(path)
		if err != nil {
			return nil, err
		}
		cfg.Overlay = *overlay
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOverlay parses the YAML overlay at path
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &overlay, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port out of range: %d", c.Port)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	return nil
}

// CacheDBPath returns the path of the client data cache database
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
