package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/itstoasti/Snaprecipes/recipe"
)

// model request parameters shared by both providers
const (
	modelTemperature    = 0.1
	geminiMaxOutputTok  = 4096
	geminiResponseMime  = "application/json"
	geminiInlineDataMim = "image/jpeg"
)

// GeminiProvider shapes requests for the Gemini generateContent API.
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
}

// NewGeminiProvider creates a Gemini provider strategy.
func NewGeminiProvider(apiKey, model, baseURL string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model, baseURL: baseURL}
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return recipe.ProviderGemini }

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiRequest struct {
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	Contents         []geminiContent        `json:"contents"`
}

// BuildRequest produces the generateContent call for a text or image
// extraction.
func (p *GeminiProvider) BuildRequest(req recipe.ExtractionRequest) (*http.Request, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	payload := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:      modelTemperature,
			MaxOutputTokens:  geminiMaxOutputTok,
			ResponseMimeType: geminiResponseMime,
		},
	}

	var parts []geminiPart
	if req.ImageBase64 != "" {
		parts = []geminiPart{
			{Text: req.Prompt},
			{InlineData: &geminiInlineData{MimeType: geminiInlineDataMim, Data: req.ImageBase64}},
		}
	} else {
		parts = []geminiPart{
			{Text: req.Prompt + "\n\n---\n\n" + req.ContentWindow},
		}
	}
	payload.Contents = []geminiContent{{Parts: parts}}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

// ParseRawResponse pulls the model text out of the generateContent body.
func (p *GeminiProvider) ParseRawResponse(body []byte) (string, error) {
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
