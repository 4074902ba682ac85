package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/deencompass/compass/pkg/llm"
	"github.com/deencompass/compass/pkg/llm/provider/anthropic"
	"github.com/deencompass/compass/pkg/llm/provider/gemini"
	"github.com/deencompass/compass/pkg/llm/provider/groq"
	"github.com/deencompass/compass/pkg/llm/provider/openai"
)

// Supported provider identifiers
const (
	OpenAI    = openai.ProviderName
	Groq      = groq.ProviderName
	Gemini    = gemini.ProviderName
	Anthropic = anthropic.ProviderName
)

// SupportedProviders returns the list of all supported provider identifiers.
func SupportedProviders() []string {
	return []string{OpenAI, Groq, Gemini, Anthropic}
}

// Settings carries per-vendor credentials and models. Only the entry for
// the selected provider is read.
type Settings struct {
	OpenAI    openai.Config
	Groq      groq.Config
	Gemini    gemini.Config
	Anthropic anthropic.Config

	// HTTPClient and Logger apply to whichever adapter is built.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New builds the adapter registered under name. It is called once at
// startup; an unknown name or incomplete settings return a
// *llm.ConfigurationError.
func New(ctx context.Context, name string, s Settings) (Adapter, error) {
	var (
		a   Adapter
		err error
	)

	switch name {
	case OpenAI:
		cfg := s.OpenAI
		cfg.HTTPClient, cfg.Logger = s.HTTPClient, s.Logger
		a, err = openai.New(cfg)
	case Groq:
		cfg := s.Groq
		cfg.HTTPClient, cfg.Logger = s.HTTPClient, s.Logger
		a, err = groq.New(cfg)
	case Gemini:
		cfg := s.Gemini
		cfg.HTTPClient, cfg.Logger = s.HTTPClient, s.Logger
		a, err = gemini.New(ctx, cfg)
	case Anthropic:
		cfg := s.Anthropic
		cfg.HTTPClient, cfg.Logger = s.HTTPClient, s.Logger
		a, err = anthropic.New(cfg)
	default:
		return nil, &llm.ConfigurationError{
			Key:       "provider.name",
			Reason:    fmt.Sprintf("unknown provider %q", name),
			Supported: SupportedProviders(),
		}
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}
