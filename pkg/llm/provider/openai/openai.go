// Package openai
package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/deencompass/compass/pkg/llm"
)

// adapter talks to OpenAI's Responses API for reasoning-style models.
type adapter struct {
	client openaisdk.Client
	model  string
	logger *slog.Logger
}

func New(cfg Config) (*adapter, error) {
	if cfg.APIKey == "" {
		return nil, &llm.ConfigurationError{Key: "openai.api_key", Reason: "not set"}
	}
	if cfg.Model == "" {
		return nil, &llm.ConfigurationError{Key: "openai.model", Reason: "not set"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		opts = append(opts, option.WithOrganization(cfg.Organization))
	}
	if cfg.Project != "" {
		opts = append(opts, option.WithProject(cfg.Project))
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
	return llm.StyleReasoning
}

func (a *adapter) Model() string {
	return a.model
}

// Knobs lists the generation parameters the Responses API accepts for
// reasoning models. Sampling parameters are rejected by those models.
func (a *adapter) Knobs() []llm.Knob {
	return []llm.Knob{
		llm.KnobMaxTokens,
		llm.KnobReasoningEffort,
		llm.KnobReasoningBudget,
		llm.KnobServiceTier,
		llm.KnobTruncation,
		llm.KnobStore,
		llm.KnobParallelToolCalls,
		llm.KnobBackground,
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

	params, opts := a.newParams(input, gen)

	var httpResp *http.Response
	opts = append(opts, option.WithResponseInto(&httpResp))

	resp, err := a.client.Responses.New(ctx, params, opts...)
	if err != nil {
		return nil, llm.NewProviderError(ProviderName, statusCode(err), err)
	}

	reply := &llm.Reply{
		Text:        resp.OutputText(),
		Model:       string(resp.Model),
		RequestID:   resp.ID,
		ServiceTier: string(resp.ServiceTier),
	}
	if httpResp != nil {
		if id := httpResp.Header.Get("x-request-id"); id != "" {
			reply.RequestID = id
		}
	}

	attrs := []any{"request_id", reply.RequestID, "service_tier", reply.ServiceTier}
	if gen.MaxTokens != nil {
		attrs = append(attrs, "max_output_tokens", *gen.MaxTokens)
	}
	a.logger.Info("openai response", attrs...)

	return reply, nil
}

func (a *adapter) newParams(input []llm.Message, gen llm.GenerationConfig) (responses.ResponseNewParams, []option.RequestOption) {
	items := make(responses.ResponseInputParam, 0, len(input))
	for _, m := range input {
		items = append(items, responses.ResponseInputItemUnionParam{
			OfMessage: &responses.EasyInputMessageParam{
				Role: responses.EasyInputMessageRole(m.Role),
				Content: responses.EasyInputMessageContentUnionParam{
					OfString: openaisdk.String(m.Content),
				},
			},
		})
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: items},
	}

	if gen.MaxTokens != nil {
		params.MaxOutputTokens = openaisdk.Int(int64(*gen.MaxTokens))
	}
	if gen.ReasoningEffort != nil {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(*gen.ReasoningEffort)}
	}
	if gen.ServiceTier != nil {
		params.ServiceTier = responses.ResponseNewParamsServiceTier(*gen.ServiceTier)
	}
	if gen.Truncation != nil {
		params.Truncation = responses.ResponseNewParamsTruncation(*gen.Truncation)
	}
	if gen.Store != nil {
		params.Store = openaisdk.Bool(*gen.Store)
	}
	if gen.ParallelToolCalls != nil {
		params.ParallelToolCalls = openaisdk.Bool(*gen.ParallelToolCalls)
	}

	// Not modelled by the SDK params, sent as raw JSON fields.
	var opts []option.RequestOption
	if gen.ReasoningBudget != nil {
		opts = append(opts, option.WithJSONSet("reasoning.budget_tokens", *gen.ReasoningBudget))
	}
	if gen.Background != nil {
		opts = append(opts, option.WithJSONSet("background", *gen.Background))
	}

	return params, opts
}

func statusCode(err error) int {
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
