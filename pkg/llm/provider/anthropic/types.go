package anthropic

import (
	"log/slog"
	"net/http"
)

const (
	// ProviderName is the registry identifier of this adapter.
	ProviderName = "anthropic"

	// defaultMaxTokens applies when max_tokens is not configured; the
	// Messages API requires it.
	defaultMaxTokens = 1024
)

// Config holds the settings used to build the Anthropic client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	HTTPClient *http.Client
	Logger     *slog.Logger
}
