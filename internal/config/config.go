// Package config resolves pipeline settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/itstoasti/Snaprecipes/recipe"
)

// Config holds everything the pipeline needs: provider selection, credentials,
// and the upstream endpoints. Base URLs are overridable so tests and
// self-hosted deployments can repoint them.
type Config struct {
	Provider string // "gemini" or "openai"

	GeminiAPIKey string
	GeminiModel  string
	GeminiBase   string

	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIBase   string

	ReaderBase string // rendering/text-extraction proxy
	VideoBase  string // social-video metadata endpoint
	SearchBase string // search-engine HTML endpoint

	PreviewTimeout time.Duration // link-preview fetch bound
	HTTPTimeout    time.Duration // all other acquisition calls
	ModelTimeout   time.Duration // generative-model calls

	ServerAddr string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Provider:       getEnv("AI_PROVIDER", recipe.ProviderGemini),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBase:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBase:     getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		ReaderBase:     getEnv("READER_BASE_URL", "https://r.jina.ai"),
		VideoBase:      getEnv("VIDEO_META_BASE_URL", "https://www.tikwm.com"),
		SearchBase:     getEnv("SEARCH_BASE_URL", "https://html.duckduckgo.com"),
		PreviewTimeout: getDuration("PREVIEW_TIMEOUT_SECONDS", 5*time.Second),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT_SECONDS", 15*time.Second),
		ModelTimeout:   getDuration("MODEL_TIMEOUT_SECONDS", 2*time.Minute),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
	}
}

// APIKey returns the credential for the given provider, empty when unset.
func (c *Config) APIKey(provider string) string {
	if provider == recipe.ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Model returns the configured model name for the given provider.
func (c *Config) Model(provider string) string {
	if provider == recipe.ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
