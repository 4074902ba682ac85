package gemini

import (
	"log/slog"
	"net/http"
)

// ProviderName is the registry identifier of this adapter.
const ProviderName = "gemini"

// Config holds the settings used to build the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	HTTPClient *http.Client
	Logger     *slog.Logger
}
