package llm

// Knob names a single generation parameter in GenerationConfig.
type Knob string

const (
	KnobTemperature       Knob = "temperature"
	KnobTopP              Knob = "top_p"
	KnobTopK              Knob = "top_k"
	KnobMaxTokens         Knob = "max_tokens"
	KnobReasoningEffort   Knob = "reasoning_effort"
	KnobReasoningBudget   Knob = "reasoning_budget"
	KnobServiceTier       Knob = "service_tier"
	KnobTruncation        Knob = "truncation"
	KnobStore             Knob = "store"
	KnobParallelToolCalls Knob = "parallel_tool_calls"
	KnobBackground        Knob = "background"
)

// Style classifies how a vendor model family is steered.
type Style string

const (
	// StyleSampling models take temperature, top_p and top_k.
	StyleSampling Style = "sampling"

	// StyleReasoning models take reasoning effort or budget and reject
	// sampling parameters.
	StyleReasoning Style = "reasoning"
)

// GenerationConfig holds optional generation parameters. A nil field is
// absent and is never sent to a vendor.
type GenerationConfig struct {
	Temperature       *float64 `json:"temperature,omitempty"         toml:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"               toml:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"               toml:"top_k,omitempty"`
	MaxTokens         *int     `json:"max_tokens,omitempty"          toml:"max_tokens,omitempty"`
	ReasoningEffort   *string  `json:"reasoning_effort,omitempty"    toml:"reasoning_effort,omitempty"`
	ReasoningBudget   *int     `json:"reasoning_budget,omitempty"    toml:"reasoning_budget,omitempty"`
	ServiceTier       *string  `json:"service_tier,omitempty"        toml:"service_tier,omitempty"`
	Truncation        *string  `json:"truncation,omitempty"          toml:"truncation,omitempty"`
	Store             *bool    `json:"store,omitempty"               toml:"store,omitempty"`
	ParallelToolCalls *bool    `json:"parallel_tool_calls,omitempty" toml:"parallel_tool_calls,omitempty"`
	Background        *bool    `json:"background,omitempty"          toml:"background,omitempty"`
}

// Knobs returns the names of the parameters that are set, in declaration order.
func (g GenerationConfig) Knobs() []Knob {
	var set []Knob
	for _, k := range allKnobs {
		if g.has(k) {
			set = append(set, k)
		}
	}
	return set
}

// Only returns a copy of g holding just the allowed parameters, along with
// the names of the set parameters that were removed.
func (g GenerationConfig) Only(allowed ...Knob) (GenerationConfig, []Knob) {
	keep := make(map[Knob]bool, len(allowed))
	for _, k := range allowed {
		keep[k] = true
	}

	out := g
	var dropped []Knob
	for _, k := range allKnobs {
		if keep[k] || !g.has(k) {
			continue
		}
		out.clear(k)
		dropped = append(dropped, k)
	}
	return out, dropped
}

var allKnobs = []Knob{
	KnobTemperature,
	KnobTopP,
	KnobTopK,
	KnobMaxTokens,
	KnobReasoningEffort,
	KnobReasoningBudget,
	KnobServiceTier,
	KnobTruncation,
	KnobStore,
	KnobParallelToolCalls,
	KnobBackground,
}

func (g *GenerationConfig) has(k Knob) bool {
	switch k {
	case KnobTemperature:
		return g.Temperature != nil
	case KnobTopP:
		return g.TopP != nil
	case KnobTopK:
		return g.TopK != nil
	case KnobMaxTokens:
		return g.MaxTokens != nil
	case KnobReasoningEffort:
		return g.ReasoningEffort != nil
	case KnobReasoningBudget:
		return g.ReasoningBudget != nil
	case KnobServiceTier:
		return g.ServiceTier != nil
	case KnobTruncation:
		return g.Truncation != nil
	case KnobStore:
		return g.Store != nil
	case KnobParallelToolCalls:
		return g.ParallelToolCalls != nil
	case KnobBackground:
		return g.Background != nil
	}
	return false
}

func (g *GenerationConfig) clear(k Knob) {
	switch k {
	case KnobTemperature:
		g.Temperature = nil
	case KnobTopP:
		g.TopP = nil
	case KnobTopK:
		g.TopK = nil
	case KnobMaxTokens:
		g.MaxTokens = nil
	case KnobReasoningEffort:
		g.ReasoningEffort = nil
	case KnobReasoningBudget:
		g.ReasoningBudget = nil
	case KnobServiceTier:
		g.ServiceTier = nil
	case KnobTruncation:
		g.Truncation = nil
	case KnobStore:
		g.Store = nil
	case KnobParallelToolCalls:
		g.ParallelToolCalls = nil
	case KnobBackground:
		g.Background = nil
	}
}

// Reply is the outcome of one successful generation. Only Text reaches the
// HTTP client; the rest is diagnostic.
type Reply struct {
	Text        string `json:"text"`
	Model       string `json:"model,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	ServiceTier string `json:"service_tier,omitempty"`
}

// Ptr returns a pointer to v. Used to populate GenerationConfig fields.
func Ptr[T any](v T) *T {
	return &v
}
