package openai

import (
	"log/slog"
	"net/http"
)

// ProviderName is the registry identifier of this adapter.
const ProviderName = "openai"

// Config holds the settings used to build the OpenAI client.
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	Project      string

	// HTTPClient overrides the SDK's default client when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}
