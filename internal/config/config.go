package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string
	GuildID string // empty registers commands globally

	// Storage
	DataDir  string
	Database string // "sqlite" or "memory"

	// Optional Elasticsearch result indexing
	ESAddresses   []string
	ESUsername    string
	ESPassword    string
	ESIndexPrefix string

	// Game tuning
	ScoreTarget int
	BidTimeout  time.Duration
	PlayTimeout time.Duration

	// Logging
	LogLevel    string
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		Token:         os.Getenv("DISCORD_TOKEN"),
		GuildID:       os.Getenv("GUILD_ID"),
		DataDir:       getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		Database:      getEnvWithDefault("DATABASE", "sqlite"),
		ESUsername:    os.Getenv("ES_USERNAME"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		ESIndexPrefix: os.Getenv("ES_INDEX_PREFIX"),
		ScoreTarget:   getEnvInt("SCORE_TARGET", 0),
		BidTimeout:    getEnvDuration("BID_TIMEOUT", 0),
		PlayTimeout:   getEnvDuration("PLAY_TIMEOUT", 0),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if addrs := os.Getenv("ES_ADDRESSES"); addrs != "" {
		for _, addr := range strings.Split(addrs, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.ESAddresses = append(cfg.ESAddresses, addr)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	switch c.Database {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("DATABASE must be sqlite or memory, got %q", c.Database)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DatabasePath returns the path to the SQLite database file
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "cardtable.db")
}

// WalletDatabasePath returns the path to the wallet SQLite database file
func (c *Config) WalletDatabasePath() string {
	return filepath.Join(c.DataDir, "wallets.db")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
