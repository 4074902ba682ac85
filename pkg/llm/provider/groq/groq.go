// Package groq adapts Groq-hosted Llama models through Groq's
// OpenAI-compatible Chat Completions endpoint.
package groq

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/deencompass/compass/pkg/llm"
)

type adapter struct {
	client openaisdk.Client
	model  string
	logger *slog.Logger
}

func New(cfg Config) (*adapter, error) {
	if cfg.APIKey == "" {
		return nil, &llm.ConfigurationError{Key: "groq.api_key", Reason: "not set"}
	}
	if cfg.Model == "" {
		return nil, &llm.ConfigurationError{Key: "groq.model", Reason: "not set"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &adapter{
		client: openaisdk.NewClient(opts...),
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

// Knobs omits top_k: the OpenAI-compatible endpoint has no such field.
func (a *adapter) Knobs() []llm.Knob {
	return []llm.Knob{
		llm.KnobTemperature,
		llm.KnobTopP,
		llm.KnobMaxTokens,
	}
}

func (a *adapter) Generate(ctx context.Context, msgs []llm.Message, policy string, gen llm.GenerationConfig) (*llm.Reply, error) {
	input, err := llm.WithPolicy(policy, msgs)
	if err != nil {
		return nil, err
	}

	gen, dropped := gen.Only(a.Knobs()...)
	if len(dropped) > 0 {
		a.logger.Debug("ignoring unsupported generation parameters", "dropped", dropped)
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(a.model),
		Messages: chatMessages(input),
	}
	if gen.Temperature != nil {
		params.Temperature = openaisdk.Float(*gen.Temperature)
	}
	if gen.TopP != nil {
		params.TopP = openaisdk.Float(*gen.TopP)
	}
	if gen.MaxTokens != nil {
		params.MaxTokens = openaisdk.Int(int64(*gen.MaxTokens))
	}

	var httpResp *http.Response
	completion, err := a.client.Chat.Completions.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return nil, llm.NewProviderError(ProviderName, apiErr.StatusCode, err)
		}
		return nil, llm.NewProviderError(ProviderName, 0, err)
	}

	reply := &llm.Reply{
		Model:     completion.Model,
		RequestID: completion.ID,
	}
	if len(completion.Choices) > 0 {
		reply.Text = completion.Choices[0].Message.Content
	}
	if httpResp != nil {
		if id := httpResp.Header.Get("x-request-id"); id != "" {
			reply.RequestID = id
		}
	}

	a.logger.Info("groq response", "request_id", reply.RequestID, "model", reply.Model)
	return reply, nil
}

func chatMessages(msgs []llm.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		case llm.RoleAssistant:
			out = append(out, openaisdk.AssistantMessage(m.Content))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}
