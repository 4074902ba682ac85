// Package gemini adapts Google Gemini models through the Gemini API.
package gemini

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genai"

	"github.com/deencompass/compass/pkg/llm"
)

type adapter struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func New(ctx context.Context, cfg Config) (*adapter, error) {
	if cfg.APIKey == "" {
		return nil, &llm.ConfigurationError{Key: "gemini.api_key", Reason: "not set"}
	}
	if cfg.Model == "" {
		return nil, &llm.ConfigurationError{Key: "gemini.model", Reason: "not set"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, &llm.ConfigurationError{Key: "gemini", Reason: err.Error()}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &adapter{
		client: client,
		model:  cfg.Model,
		logger: logger.With("provider", ProviderName),
	}, nil
}

func (a *adapter) Name() string {
	return ProviderName
}

func (a *adapter) Style() llm.Style {
	return llm.StyleSampling
}

func (a *adapter) Model() string {
	return a.model
}

func (a *adapter) Knobs() []llm.Knob {
	return []llm.Knob{
		llm.KnobTemperature,
		llm.KnobTopP,
		llm.KnobTopK,
		llm.KnobMaxTokens,
	}
}

// Generate sends system messages, the policy first, as the system
// instruction and the remaining turns as contents.
func (a *adapter) Generate(ctx context.Context, msgs []llm.Message, policy string, gen llm.GenerationConfig) (*llm.Reply, error) {
	input, err := llm.WithPolicy(policy, msgs)
	if err != nil {
		return nil, err
	}

	gen, dropped := gen.Only(a.Knobs()...)
	if len(dropped) > 0 {
		a.logger.Debug("ignoring unsupported generation parameters", "dropped", dropped)
	}

	system, contents := splitContents(input)
	if len(contents) == 0 {
		return nil, llm.InvalidInputf("no user or assistant turns to send")
	}

	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if gen.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*gen.Temperature))
	}
	if gen.TopP != nil {
		config.TopP = genai.Ptr(float32(*gen.TopP))
	}
	if gen.TopK != nil {
		config.TopK = genai.Ptr(float32(*gen.TopK))
	}
	if gen.MaxTokens != nil {
		config.MaxOutputTokens = int32(*gen.MaxTokens)
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, llm.NewProviderError(ProviderName, apiErr.Code, err)
		}
		return nil, llm.NewProviderError(ProviderName, 0, err)
	}

	reply := &llm.Reply{
		Text:  resp.Text(),
		Model: resp.ModelVersion,
	}

	a.logger.Info("gemini response", "model", reply.Model, "candidates", len(resp.Candidates))
	return reply, nil
}

func splitContents(msgs []llm.Message) (*genai.Content, []*genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(msgs))

	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.NewPartFromText(m.Content))
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	return system, contents
}
