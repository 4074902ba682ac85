package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/deencompass/compass/pkg/llm"
)

// Adapter translates a conversation into one vendor API call. Exactly one
// Adapter is resolved per process and shared by all requests.
type Adapter interface {
	// Name returns the registry identifier (e.g., "openai", "groq").
	Name() string

	// Style reports whether the vendor model family is sampling or reasoning style.
	Style() llm.Style

	// Model returns the vendor model identifier requests are sent to.
	Model() string

	// Knobs lists the generation parameters forwarded to the vendor. Any other
	// parameter set in a GenerationConfig is dropped before the call.
	Knobs() []llm.Knob

	// Generate prepends policy as the governing instruction, makes a single
	// vendor call and returns the reply text ("" when the vendor returned none).
	// Unknown roles yield llm.ErrInvalidInput before any network call; vendor
	// failures yield *llm.ProviderError.
	Generate(ctx context.Context, msgs []llm.Message, policy string, gen llm.GenerationConfig) (*llm.Reply, error)
}

// CheckKnobs returns a ConfigurationError when gen sets parameters that a
// will not forward. It backs strict mode; by default unsupported parameters
// are dropped silently.
func CheckKnobs(a Adapter, gen llm.GenerationConfig) error {
	_, dropped := gen.Only(a.Knobs()...)
	if len(dropped) == 0 {
		return nil
	}

	names := make([]string, len(dropped))
	for i, k := range dropped {
		names[i] = string(k)
	}
	supported := make([]string, 0, len(a.Knobs()))
	for _, k := range a.Knobs() {
		supported = append(supported, string(k))
	}

	return &llm.ConfigurationError{
		Key:       "generation",
		Reason:    fmt.Sprintf("%s not accepted by provider %q", strings.Join(names, ", "), a.Name()),
		Supported: supported,
	}
}

// Effective returns gen restricted to the parameters a forwards.
func Effective(a Adapter, gen llm.GenerationConfig) llm.GenerationConfig {
	out, _ := gen.Only(a.Knobs()...)
	return out
}
