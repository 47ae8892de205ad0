package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "sk-...abc"
}

// CheckAPIKeys returns the status of all configurable API keys. A missing key
// disables its backend rather than failing the program, so this is
// informational.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey("Naver Client ID", cfg.Search.NaverClientID, "LEARNLETTER_SEARCH_NAVER_CLIENT_ID"),
		checkKey("Naver Client Secret", cfg.Search.NaverClientSecret, "LEARNLETTER_SEARCH_NAVER_CLIENT_SECRET"),
		checkKey("YouTube API Key", cfg.Search.YouTubeKey, "LEARNLETTER_SEARCH_YOUTUBE_KEY"),
		checkKey("NewsAPI Key", cfg.Search.NewsAPIKey, "LEARNLETTER_SEARCH_NEWSAPI_KEY"),
		checkKey("OpenAI API Key", cfg.LLM.OpenAIKey, "LEARNLETTER_LLM_OPENAI_KEY"),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value, envVar string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value != "" {
		if os.Getenv(envVar) != "" {
			status.Source = KeySourceEnv
		} else {
			status.Source = KeySourceConfig
		}
		status.Masked = maskKey(value)
	} else {
		status.Source = KeySourceNone
	}

	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
