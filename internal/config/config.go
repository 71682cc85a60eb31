package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram settings
	TelegramToken  string
	TelegramChatID string

	// Source settings
	SourcesConfigPath string
	PerSourceLimit    int
	MaxItemsPerRun    int
	RequestTimeout    time.Duration

	// Filtering
	MinTitleLength   int
	MaxTitleLength   int
	MaxSummaryLength int

	// Publishing
	InterPostDelay time.Duration

	// Summarization (optional; disabled when the key is empty)
	GeminiAPIKey       string
	MaxSummaryRequests int

	// Delivered-set store
	StoreBackend  string // "file" | "postgres" | "redis"
	StoreFilePath string
	StoreTTLHours int
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// App settings
	Debug         bool
	RetryAttempts int
	RetryDelay    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		SourcesConfigPath: "configs/sources.yaml",
		PerSourceLimit:    5,
		MaxItemsPerRun:    3,
		RequestTimeout:    30 * time.Second,
		MinTitleLength:    10,
		MaxTitleLength:    100,
		MaxSummaryLength:  200,
		InterPostDelay:    5 * time.Second,
		StoreBackend:      "file",
		StoreFilePath:     "sent_news.json",
		StoreTTLHours:     48,
		RetryAttempts:     3,
		RetryDelay:        2 * time.Second,
	}

	// Load from environment
	cfg.TelegramToken = os.Getenv("BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("CHANNEL_ID")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.MaxItemsPerRun = getEnvIntOrDefault("MAX_NEWS_PER_POST", cfg.MaxItemsPerRun)
	cfg.PerSourceLimit = getEnvIntOrDefault("PER_SOURCE_LIMIT", cfg.PerSourceLimit)
	cfg.MinTitleLength = getEnvIntOrDefault("MIN_TITLE_LENGTH", cfg.MinTitleLength)
	cfg.MaxTitleLength = getEnvIntOrDefault("MAX_TITLE_LENGTH", cfg.MaxTitleLength)
	cfg.MaxSummaryLength = getEnvIntOrDefault("MAX_SUMMARY_LENGTH", cfg.MaxSummaryLength)
	cfg.MaxSummaryRequests = getEnvIntOrDefault("MAX_SUMMARY_REQUESTS", 0)

	if v := os.Getenv("INTER_POST_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.InterPostDelay = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}

	// Delivered-set store
	cfg.StoreBackend = getEnvOrDefault("STORE_BACKEND", cfg.StoreBackend)
	cfg.StoreFilePath = getEnvOrDefault("STORE_FILE_PATH", cfg.StoreFilePath)
	cfg.StoreTTLHours = getEnvIntOrDefault("STORE_TTL_HOURS", cfg.StoreTTLHours)
	cfg.PostgresDSN = os.Getenv("DATABASE_URL")
	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvIntOrDefault("REDIS_DB", 0)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

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

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.TelegramChatID == "" {
		return fmt.Errorf("CHANNEL_ID is required")
	}
	switch c.StoreBackend {
	case "file", "postgres", "redis":
	default:
		return fmt.Errorf("STORE_BACKEND must be 'file', 'postgres' or 'redis'")
	}
	if c.StoreBackend == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres store")
	}
	if c.MaxItemsPerRun <= 0 {
		return fmt.Errorf("MAX_NEWS_PER_POST must be positive")
	}
	return nil
}
