package config

import (
	"github.com/deencompass/compass/pkg/llm"
	"github.com/deencompass/compass/pkg/llm/provider/groq"
)

// DefaultPolicy is the governing instruction prepended to every conversation
// unless policy.instruction overrides it.
const DefaultPolicy = "You are DeenCompass MVP. Only answer with Qur’an, hadith (with grading), sīrah, tafseer or fiqh citations that are verifiable. " +
	"If not confident, briefly say you can’t answer with sources, suggest asking a qualified scholar, and optionally point to trusted references. " +
	"No hallucinations."

const (
	defaultListen      = ":8000"
	defaultCORSOrigins = "*"
	defaultProvider    = "openai"

	defaultMaxTokens = 5000

	defaultOpenAIModel    = "gpt-5"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultAnthropicModel = "claude-sonnet-4-20250514"

	defaultEventsDriver    = "nop"
	defaultEventsTopic     = "compass.exchanges"
	defaultEventsWorkers   = 2
	defaultEventsQueueSize = 256

	defaultClientTarget = "http://localhost:8000"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:      defaultListen,
			CORSOrigins: defaultCORSOrigins,
			Web:         true,
		},
		Provider: ProviderConfig{
			Name: defaultProvider,
		},
		Policy: PolicyConfig{
			Instruction: DefaultPolicy,
		},
		Generation: llm.GenerationConfig{
			MaxTokens: llm.Ptr(defaultMaxTokens),
		},
		OpenAI: OpenAIConfig{
			Model: defaultOpenAIModel,
		},
		Groq: VendorConfig{
			Model:   defaultGroqModel,
			BaseURL: groq.DefaultBaseURL,
		},
		Gemini: VendorConfig{
			Model: defaultGeminiModel,
		},
		Anthropic: VendorConfig{
			Model: defaultAnthropicModel,
		},
		Events: EventsConfig{
			Driver:    defaultEventsDriver,
			Topic:     defaultEventsTopic,
			Workers:   defaultEventsWorkers,
			QueueSize: defaultEventsQueueSize,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
		},
	}
}
