package groq

import (
	"log/slog"
	"net/http"
)

const (
	// ProviderName is the registry identifier of this adapter.
	ProviderName = "groq"

	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

// Config holds the settings used to build the Groq client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	HTTPClient *http.Client
	Logger     *slog.Logger
}
