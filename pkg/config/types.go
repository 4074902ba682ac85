package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deencompass/compass/pkg/llm"
)

// Config represents the persistent compass configuration stored as config.toml
// in the .compass/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int                  `toml:"version"`
	Server     ServerConfig         `toml:"server"`
	Provider   ProviderConfig       `toml:"provider"`
	Policy     PolicyConfig         `toml:"policy"`
	Generation llm.GenerationConfig `toml:"generation"`
	OpenAI     OpenAIConfig         `toml:"openai"`
	Groq       VendorConfig         `toml:"groq"`
	Gemini     VendorConfig         `toml:"gemini"`
	Anthropic  VendorConfig         `toml:"anthropic"`
	Events     EventsConfig         `toml:"events"`
	Log        LogConfig            `toml:"log"`
	Client     ClientConfig         `toml:"client"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen      string `toml:"listen,omitempty"`
	CORSOrigins string `toml:"cors_origins,omitempty"`
	Web         bool   `toml:"web"`
}

// ProviderConfig selects the single active provider adapter.
type ProviderConfig struct {
	Name string `toml:"name,omitempty"`

	// Strict fails startup when generation parameters are configured that
	// the active provider does not accept.
	Strict bool `toml:"strict,omitempty"`
}

// PolicyConfig holds the instruction prepended to every conversation.
type PolicyConfig struct {
	Instruction string `toml:"instruction,omitempty"`
}

// VendorConfig holds credentials and model selection for one vendor.
type VendorConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	Model   string `toml:"model,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// OpenAIConfig extends VendorConfig with OpenAI account scoping.
type OpenAIConfig struct {
	APIKey       string `toml:"api_key,omitempty"`
	Model        string `toml:"model,omitempty"`
	BaseURL      string `toml:"base_url,omitempty"`
	Organization string `toml:"organization,omitempty"`
	Project      string `toml:"project,omitempty"`
}

// EventsConfig configures where completed exchanges are published.
type EventsConfig struct {
	Driver    string `toml:"driver,omitempty"`
	Brokers   string `toml:"brokers,omitempty"`
	Topic     string `toml:"topic,omitempty"`
	Workers   uint   `toml:"workers,omitempty"`
	QueueSize uint   `toml:"queue_size,omitempty"`
}

// BrokerList splits the comma separated Brokers value.
func (e EventsConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(e.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// LogConfig holds service logging settings.
type LogConfig struct {
	JSON bool   `toml:"json,omitempty"`
	File string `toml:"file,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// compass server (e.g. compass chat). Target is a full URL.
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen":       stringKey(func(c *Config) *string { return &c.Server.Listen }),
	"server.cors_origins": stringKey(func(c *Config) *string { return &c.Server.CORSOrigins }),
	"server.web":          boolKey(func(c *Config) *bool { return &c.Server.Web }),

	"provider.name":   stringKey(func(c *Config) *string { return &c.Provider.Name }),
	"provider.strict": boolKey(func(c *Config) *bool { return &c.Provider.Strict }),

	"policy.instruction": stringKey(func(c *Config) *string { return &c.Policy.Instruction }),

	"generation.temperature":         floatPtrKey("generation.temperature", func(c *Config) **float64 { return &c.Generation.Temperature }),
	"generation.top_p":               floatPtrKey("generation.top_p", func(c *Config) **float64 { return &c.Generation.TopP }),
	"generation.top_k":               intPtrKey("generation.top_k", func(c *Config) **int { return &c.Generation.TopK }),
	"generation.max_tokens":          intPtrKey("generation.max_tokens", func(c *Config) **int { return &c.Generation.MaxTokens }),
	"generation.reasoning_effort":    stringPtrKey(func(c *Config) **string { return &c.Generation.ReasoningEffort }),
	"generation.reasoning_budget":    intPtrKey("generation.reasoning_budget", func(c *Config) **int { return &c.Generation.ReasoningBudget }),
	"generation.service_tier":        stringPtrKey(func(c *Config) **string { return &c.Generation.ServiceTier }),
	"generation.truncation":          stringPtrKey(func(c *Config) **string { return &c.Generation.Truncation }),
	"generation.store":               boolPtrKey(func(c *Config) **bool { return &c.Generation.Store }),
	"generation.parallel_tool_calls": boolPtrKey(func(c *Config) **bool { return &c.Generation.ParallelToolCalls }),
	"generation.background":          boolPtrKey(func(c *Config) **bool { return &c.Generation.Background }),

	"openai.api_key":      stringKey(func(c *Config) *string { return &c.OpenAI.APIKey }),
	"openai.model":        stringKey(func(c *Config) *string { return &c.OpenAI.Model }),
	"openai.base_url":     stringKey(func(c *Config) *string { return &c.OpenAI.BaseURL }),
	"openai.organization": stringKey(func(c *Config) *string { return &c.OpenAI.Organization }),
	"openai.project":      stringKey(func(c *Config) *string { return &c.OpenAI.Project }),

	"groq.api_key":  stringKey(func(c *Config) *string { return &c.Groq.APIKey }),
	"groq.model":    stringKey(func(c *Config) *string { return &c.Groq.Model }),
	"groq.base_url": stringKey(func(c *Config) *string { return &c.Groq.BaseURL }),

	"gemini.api_key":  stringKey(func(c *Config) *string { return &c.Gemini.APIKey }),
	"gemini.model":    stringKey(func(c *Config) *string { return &c.Gemini.Model }),
	"gemini.base_url": stringKey(func(c *Config) *string { return &c.Gemini.BaseURL }),

	"anthropic.api_key":  stringKey(func(c *Config) *string { return &c.Anthropic.APIKey }),
	"anthropic.model":    stringKey(func(c *Config) *string { return &c.Anthropic.Model }),
	"anthropic.base_url": stringKey(func(c *Config) *string { return &c.Anthropic.BaseURL }),

	"events.driver":     stringKey(func(c *Config) *string { return &c.Events.Driver }),
	"events.brokers":    stringKey(func(c *Config) *string { return &c.Events.Brokers }),
	"events.topic":      stringKey(func(c *Config) *string { return &c.Events.Topic }),
	"events.workers":    uintKey("events.workers", func(c *Config) *uint { return &c.Events.Workers }),
	"events.queue_size": uintKey("events.queue_size", func(c *Config) *uint { return &c.Events.QueueSize }),

	"log.json": boolKey(func(c *Config) *bool { return &c.Log.JSON }),
	"log.file": stringKey(func(c *Config) *string { return &c.Log.File }),

	"client.target": stringKey(func(c *Config) *string { return &c.Client.Target }),
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func boolKey(field func(c *Config) *bool) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			*field(c) = parseBool(v)
			return nil
		},
	}
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

// The pointer variants treat an empty value as unset.

func stringPtrKey(field func(c *Config) **string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if p := *field(c); p != nil {
				return *p
			}
			return ""
		},
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = nil
				return nil
			}
			*field(c) = llm.Ptr(v)
			return nil
		},
	}
}

func intPtrKey(name string, field func(c *Config) **int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if p := *field(c); p != nil {
				return strconv.Itoa(*p)
			}
			return ""
		},
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = nil
				return nil
			}
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = llm.Ptr(n)
			return nil
		},
	}
}

func floatPtrKey(name string, field func(c *Config) **float64) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if p := *field(c); p != nil {
				return strconv.FormatFloat(*p, 'g', -1, 64)
			}
			return ""
		},
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = nil
				return nil
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = llm.Ptr(f)
			return nil
		},
	}
}

func boolPtrKey(field func(c *Config) **bool) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if p := *field(c); p != nil {
				return strconv.FormatBool(*p)
			}
			return ""
		},
		set: func(c *Config, v string) error {
			if v == "" {
				*field(c) = nil
				return nil
			}
			*field(c) = llm.Ptr(parseBool(v))
			return nil
		},
	}
}

// parseBool is true for 1/true/yes/on, case-insensitively, and false for
// anything else.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
