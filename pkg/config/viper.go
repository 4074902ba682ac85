package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/deencompass/compass/pkg/dotdir"
)

// legacyEnv maps config keys to the environment variable names used by
// existing deployments. COMPASS_ prefixed names take precedence over these.
var legacyEnv = map[string][]string{
	"provider.name":                  {"LLM_PROVIDER"},
	"generation.temperature":         {"GEN_TEMPERATURE"},
	"generation.top_p":               {"GEN_TOP_P"},
	"generation.top_k":               {"GEN_TOP_K"},
	"generation.max_tokens":          {"GEN_MAX_TOKENS"},
	"generation.reasoning_effort":    {"REASONING_EFFORT"},
	"generation.reasoning_budget":    {"REASONING_BUDGET_TOKENS"},
	"generation.service_tier":        {"OPENAI_SERVICE_TIER"},
	"generation.truncation":          {"OPENAI_TRUNCATION"},
	"generation.store":               {"OPENAI_STORE"},
	"generation.parallel_tool_calls": {"OPENAI_PARALLEL_TOOL_CALLS"},
	"generation.background":          {"OPENAI_BACKGROUND"},
	"openai.api_key":                 {"OPENAI_API_KEY"},
	"openai.model":                   {"OPENAI_MODEL_ID"},
	"openai.base_url":                {"OPENAI_BASE_URL"},
	"openai.organization":            {"OPENAI_ORGANIZATION_ID"},
	"openai.project":                 {"OPENAI_PROJECT_ID"},
	"groq.api_key":                   {"GROQ_API_KEY"},
	"groq.model":                     {"LLAMA_MODEL_ID"},
	"gemini.api_key":                 {"GEMINI_API_KEY"},
	"gemini.model":                   {"GEMINI_MODEL_ID"},
	"anthropic.api_key":              {"ANTHROPIC_API_KEY"},
	"anthropic.model":                {"ANTHROPIC_MODEL_ID"},
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the COMPASS_ prefix plus the legacy names in legacyEnv.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. COMPASS_ environment variables (COMPASS_SERVER_LISTEN, COMPASS_PROVIDER_NAME, etc.)
//  3. Legacy environment variables (OPENAI_API_KEY, GEN_MAX_TOKENS, etc.)
//  4. config.toml file values
//  5. Defaults from NewDefaultConfig()
//
// Load a .env file with LoadDotEnv before calling InitViper so its values
// participate as environment variables.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	dir, err := dotdir.NewManager().Resolve(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(dir.Path)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for key, info := range configKeys {
		if val := info.get(d); val != "" {
			v.SetDefault(key, val)
		}
	}
}

// FromViper resolves every config key from v into a Config. Values that fail
// to parse are logged and ignored, leaving the key unset.
func FromViper(v *viper.Viper, logger *slog.Logger) *Config {
	cfg := &Config{Version: CurrentV}

	for _, key := range ValidConfigKeys() {
		if !v.IsSet(key) {
			continue
		}
		if err := configKeys[key].set(cfg, v.GetString(key)); err != nil {
			logger.Warn("ignoring invalid config value", "key", key, "error", err)
		}
	}

	return cfg
}
