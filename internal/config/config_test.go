package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itstoasti/Snaprecipes/recipe"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, recipe.ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "https://r.jina.ai", cfg.ReaderBase)
	assert.Equal(t, 5*time.Second, cfg.PreviewTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", recipe.ProviderOpenAI)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("READER_BASE_URL", "http://localhost:9999")
	t.Setenv("PREVIEW_TIMEOUT_SECONDS", "2")

	cfg := Load()

	assert.Equal(t, recipe.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "http://localhost:9999", cfg.ReaderBase)
	assert.Equal(t, 2*time.Second, cfg.PreviewTimeout)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestConfig_ProviderAccessors(t *testing.T) {
	cfg := &Config{
		GeminiAPIKey: "g-key", GeminiModel: "g-model",
		OpenAIAPIKey: "o-key", OpenAIModel: "o-model",
	}

	assert.Equal(t, "g-key", cfg.APIKey(recipe.ProviderGemini))
	assert.Equal(t, "o-key", cfg.APIKey(recipe.ProviderOpenAI))
	assert.Equal(t, "g-model", cfg.Model(recipe.ProviderGemini))
	assert.Equal(t, "o-model", cfg.Model(recipe.ProviderOpenAI))
}
