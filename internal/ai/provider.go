// Package ai holds the generative-model providers and the extraction
// instruction. Providers are a closed set behind one interface; everything
// above this package is provider-agnostic.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/itstoasti/Snaprecipes/internal/config"
	"github.com/itstoasti/Snaprecipes/internal/content"
	"github.com/itstoasti/Snaprecipes/recipe"
)

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider shapes and parses requests for one model backend. Both backends
// share the same contract: given an instruction plus content or image bytes,
// return raw text that is claimed to be JSON.
type Provider interface {
	Name() string
	BuildRequest(req recipe.ExtractionRequest) (*http.Request, error)
	ParseRawResponse(body []byte) (string, error)
}

// NewProvider selects the provider strategy for the configured backend.
// A missing credential is fatal and surfaced immediately.
func NewProvider(cfg *config.Config, name string) (Provider, error) {
	if name == "" {
		name = cfg.Provider
	}
	switch name {
	case recipe.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, &recipe.ProviderConfigError{Provider: name}
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBase), nil
	case recipe.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, &recipe.ProviderConfigError{Provider: name}
		}
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBase), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// Client executes extraction requests against a single provider.
type Client struct {
	provider   Provider
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a model client. A nil httpClient gets a default with the
// configured model timeout.
func NewClient(provider Provider, httpClient HTTPClient, timeout time.Duration, log zerolog.Logger) *Client {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 2 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{provider: provider, httpClient: httpClient, log: log}
}

// ProviderName reports which backend this client talks to.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Generate sends the extraction request and returns the model's raw text
// output. Exactly one of ContentWindow and ImageBase64 must be set;
// violating that is a programming error and fails fast.
func (c *Client) Generate(ctx context.Context, req recipe.ExtractionRequest) (string, error) {
	if (req.ContentWindow == "") == (req.ImageBase64 == "") {
		return "", errors.New("extraction request must carry exactly one of content or image")
	}

	httpReq, err := c.provider.BuildRequest(req)
	if err != nil {
		return "", fmt.Errorf("failed to build %s request: %w", c.provider.Name(), err)
	}
	httpReq = httpReq.WithContext(ctx)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &recipe.ProviderRequestError{Provider: c.provider.Name(), Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &recipe.ProviderRequestError{Provider: c.provider.Name(), StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &recipe.ProviderRequestError{
			Provider:   c.provider.Name(),
			StatusCode: resp.StatusCode,
			Body:       content.Truncate(string(body), content.ExcerptLength),
		}
	}

	text, err := c.provider.ParseRawResponse(body)
	if err != nil {
		return "", &recipe.ProviderRequestError{Provider: c.provider.Name(), StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if text == "" {
		return "", &recipe.ProviderRequestError{Provider: c.provider.Name(), StatusCode: resp.StatusCode, Body: "empty model output"}
	}

	c.log.Debug().Str("provider", c.provider.Name()).Int("chars", len(text)).Msg("model response received")
	return text, nil
}
