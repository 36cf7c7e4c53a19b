// FILE: config/google.go
package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var (
	GeminiClient *genai.GenerativeModel
	OAuthConfig  *oauth2.Config

	geminiConn *genai.Client
)

// InitGoogleServices prepares the OAuth client config and, when Gemini is the
// selected provider, the Gemini model client.
func InitGoogleServices(ctx context.Context, cfg *Config) error {
	OAuthConfig = &oauth2.Config{
		ClientID:     cfg.Auth.GoogleClientID,
		ClientSecret: cfg.Auth.GoogleClientSecret,
		RedirectURL:  cfg.Auth.RedirectURL,
		Scopes:       []string{calendar.CalendarScope, "openid", "email"},
		Endpoint:     google.Endpoint,
	}
	if cfg.Auth.GoogleClientID == "" {
		slog.Warn("GOOGLE_CLIENT_ID not set, sign-in will fail until it is configured.")
	}

	if cfg.LLM.Provider != ProviderGemini {
		return nil
	}

	apiKey := cfg.LLM.GeminiAPIKey
	if apiKey == "" {
		// Generation reports the missing key per request.
		slog.Warn("GEMINI_API_KEY environment variable not set, schedule generation is disabled.")
		return nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("unable to create Gemini client: %w", err)
	}
	geminiConn = client
	GeminiClient = client.GenerativeModel(cfg.LLM.Model())
	GeminiClient.ResponseMIMEType = "application/json"
	slog.Info("Gemini API client initialized successfully.", "model", cfg.LLM.Model())

	return nil
}

// CloseGoogleServices releases the Gemini connection, if any.
func CloseGoogleServices() {
	if geminiConn == nil {
		return
	}
	if err := geminiConn.Close(); err != nil {
		slog.Warn("Failed to close Gemini client", "error", err)
	}
	geminiConn = nil
	GeminiClient = nil
}
