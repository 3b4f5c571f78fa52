package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/itstoasti/Snaprecipes/recipe"
)

// OpenAIProvider shapes requests for the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
}

// NewOpenAIProvider creates an OpenAI provider strategy.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{apiKey: apiKey, model: model, baseURL: baseURL}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return recipe.ProviderOpenAI }

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string               `json:"model"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
	Temperature    float64              `json:"temperature"`
	Messages       []openAIMessage      `json:"messages"`
}

// BuildRequest produces the chat completions call for a text or image
// extraction.
func (p *OpenAIProvider) BuildRequest(req recipe.ExtractionRequest) (*http.Request, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	payload := openAIRequest{
		Model:          model,
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
		Temperature:    modelTemperature,
		Messages: []openAIMessage{
			{Role: "system", Content: req.Prompt},
		},
	}

	if req.ImageBase64 != "" {
		payload.Messages = append(payload.Messages, openAIMessage{
			Role: "user",
			Content: []openAIPart{
				{Type: "text", Text: "Extract the recipe from this image:"},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: "data:image/jpeg;base64," + req.ImageBase64}},
			},
		})
	} else {
		payload.Messages = append(payload.Messages, openAIMessage{
			Role:    "user",
			Content: "Please extract the recipe from the following text and metadata:\n\n" + req.ContentWindow,
		})
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	return httpReq, nil
}

// ParseRawResponse pulls the model text out of the chat completions body.
func (p *OpenAIProvider) ParseRawResponse(body []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}
