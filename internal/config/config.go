// Package config handles configuration loading for learnletter.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Search     SearchConfig     `mapstructure:"search"     yaml:"search"`
	LLM        LLMConfig        `mapstructure:"llm"        yaml:"llm"`
	Newsletter NewsletterConfig `mapstructure:"newsletter" yaml:"newsletter"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// SearchConfig holds search backend credentials and tuning.
type SearchConfig struct {
	NaverClientID     string        `mapstructure:"naver_client_id"     yaml:"naver_client_id"`
	NaverClientSecret string        `mapstructure:"naver_client_secret" yaml:"naver_client_secret"`
	YouTubeKey        string        `mapstructure:"youtube_key"         yaml:"youtube_key"`
	NewsAPIKey        string        `mapstructure:"newsapi_key"         yaml:"newsapi_key"`
	NewsFeedURL       string        `mapstructure:"news_feed_url"       yaml:"news_feed_url"`
	Query             string        `mapstructure:"query"               yaml:"query"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"           yaml:"cache_ttl"`
	MaxMaterials      int           `mapstructure:"max_materials"       yaml:"max_materials"`
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Primary     string  `mapstructure:"primary"     yaml:"primary"` // "openai" or "ollama"
	OpenAIKey   string  `mapstructure:"openai_key"  yaml:"openai_key"`
	OllamaURL   string  `mapstructure:"ollama_url"  yaml:"ollama_url"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
}

// NewsletterConfig holds newsletter assembly settings.
type NewsletterConfig struct {
	Title  string `mapstructure:"title"  yaml:"title"`    // masthead, e.g. "스트림릿 주간 뉴스레터"
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"` // where generate writes HTML files
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.learnletter/config.yaml (home directory)
//  3. /etc/learnletter/config.yaml (system)
//
// Environment variables override config file values.
// Format: LEARNLETTER_<SECTION>_<KEY>, e.g., LEARNLETTER_LLM_OPENAI_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".learnletter"))
	v.AddConfigPath("/etc/learnletter")

	v.SetEnvPrefix("LEARNLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("LEARNLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Search defaults
	v.SetDefault("search.news_feed_url", "https://blog.streamlit.io/rss/")
	v.SetDefault("search.query", "스트림릿")
	v.SetDefault("search.cache_ttl", "24h")
	v.SetDefault("search.max_materials", 4)

	// LLM defaults
	v.SetDefault("llm.primary", "openai")
	v.SetDefault("llm.ollama_url", "http://localhost:11434")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1500)

	// Newsletter defaults
	v.SetDefault("newsletter.title", "스트림릿 주간 뉴스레터")
	v.SetDefault("newsletter.out_dir", ".")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("LEARNLETTER_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("LEARNLETTER_SEARCH_NAVER_CLIENT_ID"); key != "" {
		cfg.Search.NaverClientID = key
	}
	if key := os.Getenv("LEARNLETTER_SEARCH_NAVER_CLIENT_SECRET"); key != "" {
		cfg.Search.NaverClientSecret = key
	}
	if key := os.Getenv("LEARNLETTER_SEARCH_YOUTUBE_KEY"); key != "" {
		cfg.Search.YouTubeKey = key
	}
	if key := os.Getenv("LEARNLETTER_SEARCH_NEWSAPI_KEY"); key != "" {
		cfg.Search.NewsAPIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
