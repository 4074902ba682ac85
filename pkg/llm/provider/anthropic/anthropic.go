// Package anthropic adapts Claude models through the Anthropic Messages API.
// The reasoning budget maps onto extended thinking.
package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/deencompass/compass/pkg/llm"
)

type adapter struct {
	client anthropicsdk.Client
	model  string
	logger *slog.Logger
}

func New(cfg Config) (*adapter, error) {
	if cfg.APIKey == "" {
		return nil, &llm.ConfigurationError{Key: "anthropic.api_key", Reason: "not set"}
	}
	if cfg.Model == "" {
		return nil, &llm.ConfigurationError{Key: "anthropic.model", Reason: "not set"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &adapter{
		client: anthropicsdk.NewClient(opts...),
		model:  cfg.Model,
		logger: logger.With("provider", ProviderName),
	}, nil
}

func (a *adapter) Name() string {
	return ProviderName
}

func (a *adapter) Style() llm.Style {
	return llm.StyleReasoning
}

func (a *adapter) Model() string {
	return a.model
}

// Knobs excludes temperature and top_p, which cannot be combined with
// extended thinking.
func (a *adapter) Knobs() []llm.Knob {
	return []llm.Knob{
		llm.KnobMaxTokens,
		llm.KnobReasoningBudget,
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

	maxTokens := int64(defaultMaxTokens)
	if gen.MaxTokens != nil {
		maxTokens = int64(*gen.MaxTokens)
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.model),
		MaxTokens: maxTokens,
	}
	for _, m := range input {
		switch m.Role {
		case llm.RoleSystem:
			params.System = append(params.System, anthropicsdk.TextBlockParam{Text: m.Content})
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, anthropicsdk.NewAssistantMessage(anthropicsdk.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(m.Content)))
		}
	}
	if len(params.Messages) == 0 {
		return nil, llm.InvalidInputf("no user or assistant turns to send")
	}
	if gen.ReasoningBudget != nil {
		params.Thinking = anthropicsdk.ThinkingConfigParamUnion{
			OfEnabled: &anthropicsdk.ThinkingConfigEnabledParam{BudgetTokens: int64(*gen.ReasoningBudget)},
		}
	}

	var httpResp *http.Response
	msg, err := a.client.Messages.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		var apiErr *anthropicsdk.Error
		if errors.As(err, &apiErr) {
			return nil, llm.NewProviderError(ProviderName, apiErr.StatusCode, err)
		}
		return nil, llm.NewProviderError(ProviderName, 0, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	reply := &llm.Reply{
		Text:      text.String(),
		Model:     string(msg.Model),
		RequestID: msg.ID,
	}
	if httpResp != nil {
		if id := httpResp.Header.Get("request-id"); id != "" {
			reply.RequestID = id
		}
	}

	a.logger.Info("anthropic response", "request_id", reply.RequestID, "stop_reason", msg.StopReason, "max_tokens", maxTokens)
	return reply, nil
}
