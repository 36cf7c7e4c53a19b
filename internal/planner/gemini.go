package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// contentGenerator is the part of *genai.GenerativeModel we use.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator calls Gemini through the genai SDK.
type GeminiGenerator struct {
	model contentGenerator
}

// NewGeminiGenerator wraps a configured Gemini model. A nil model yields a
// generator that reports ErrMissingAPIKey.
func NewGeminiGenerator(model *genai.GenerativeModel) *GeminiGenerator {
	if model == nil {
		return &GeminiGenerator{}
	}
	return &GeminiGenerator{model: model}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.model == nil {
		return "", ErrMissingAPIKey
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini generation error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: Gemini returned no result", ErrUnparseableResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: Gemini returned no text", ErrUnparseableResponse)
	}
	return text.String(), nil
}
