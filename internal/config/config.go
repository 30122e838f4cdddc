package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	OpenAI     OpenAIConfig     `json:"openai"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`
	Generation GenerationConfig `json:"generation"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

// OpenAIConfig holds the provider settings. Model and sampling parameters are
// fixed configuration, never computed per request.
type OpenAIConfig struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url,omitempty"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

// RateLimitConfig bounds generation requests per user over a rolling window.
// The policy is 10 requests per trailing 24 hours, counted from session rows.
type RateLimitConfig struct {
	MaxRequests int           `json:"max_requests"`
	Window      time.Duration `json:"window"`
}

type GenerationConfig struct {
	MinInputChars int           `json:"min_input_chars"`
	MaxInputChars int           `json:"max_input_chars"`
	MaxFlashcards int           `json:"max_flashcards"`
	CacheTTL      time.Duration `json:"cache_ttl"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".flashforge"))
	}

	// Set defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "flashforge")
	viper.SetDefault("database.database", "flashforge")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")
	viper.SetDefault("openai.max_tokens", 2000)
	viper.SetDefault("openai.temperature", 0.7)
	viper.SetDefault("rate_limit.max_requests", 10)
	viper.SetDefault("rate_limit.window", 24*time.Hour)
	viper.SetDefault("generation.min_input_chars", 1000)
	viper.SetDefault("generation.max_input_chars", 10000)
	viper.SetDefault("generation.max_flashcards", 20)
	viper.SetDefault("generation.cache_ttl", 24*time.Hour)

	// Read config; a missing file is fine, defaults plus env cover everything
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Load environment variables
	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("FLASHFORGE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("FLASHFORGE_HOST"); host != "" {
		cfg.Server.Host = host
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	// Provider overrides
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_API_URL"); baseURL != "" {
		cfg.OpenAI.BaseURL = baseURL
	}
}
