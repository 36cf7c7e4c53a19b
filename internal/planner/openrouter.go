package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterGenerator calls the OpenRouter chat completions API.
type OpenRouterGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat map[string]string   `json:"response_format"`
	Plugins        []map[string]string `json:"plugins,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenRouterGenerator creates a generator for the given key and model.
func NewOpenRouterGenerator(apiKey, model string) *OpenRouterGenerator {
	return &OpenRouterGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: openRouterURL,
		client:  &http.Client{},
	}
}

// Generate asks for a strict JSON object reply, with response healing on.
func (g *OpenRouterGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model:          g.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: map[string]string{"type": "json_object"},
		Plugins:        []map[string]string{{"id": "response-healing"}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("OpenRouter request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Provider: "OpenRouter", Status: resp.StatusCode, Body: string(respBody)}
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		slog.Error("Failed to decode OpenRouter completion", "response", string(respBody), "error", err)
		return "", fmt.Errorf("%w: decode completion: %v", ErrUnparseableResponse, err)
	}
	if len(chat.Choices) == 0 {
		slog.Error("OpenRouter completion has no choices", "response", string(respBody))
		return "", fmt.Errorf("%w: no choices in completion", ErrUnparseableResponse)
	}
	return chat.Choices[0].Message.Content, nil
}
