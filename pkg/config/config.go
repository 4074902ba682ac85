package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/deencompass/compass/pkg/dotdir"
	"github.com/deencompass/compass/pkg/llm"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	dir        dotdir.Dir
	targetPath string
}

// NewConfiger resolves the compass directory for override. The directory is
// only created when the config is saved.
func NewConfiger(override string) (*Configer, error) {
	dir, err := dotdir.NewManager().Resolve(override)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir.Path, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return &Configer{dir: dir, targetPath: path}, nil
}

// ValidConfigKeys returns the sorted list of all supported configuration key names.
func ValidConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}

	// Return in a stable, logical order matching the TOML section layout.
	ordered := []string{
		"server.listen",
		"server.cors_origins",
		"server.web",
		"provider.name",
		"provider.strict",
		"policy.instruction",
		"generation.temperature",
		"generation.top_p",
		"generation.top_k",
		"generation.max_tokens",
		"generation.reasoning_effort",
		"generation.reasoning_budget",
		"generation.service_tier",
		"generation.truncation",
		"generation.store",
		"generation.parallel_tool_calls",
		"generation.background",
		"openai.api_key",
		"openai.model",
		"openai.base_url",
		"openai.organization",
		"openai.project",
		"groq.api_key",
		"groq.model",
		"groq.base_url",
		"gemini.api_key",
		"gemini.model",
		"gemini.base_url",
		"anthropic.api_key",
		"anthropic.model",
		"anthropic.base_url",
		"events.driver",
		"events.brokers",
		"events.topic",
		"events.workers",
		"events.queue_size",
		"log.json",
		"log.file",
		"client.target",
	}

	// Sanity: only return keys that actually exist in the map.
	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}

	// Append any keys in the map that we missed in the ordered list.
	seen := make(map[string]bool, len(result))
	for _, k := range result {
		seen[k] = true
	}
	for _, k := range keys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// Exists reports whether config.toml is present at the target path.
func (c *Configer) Exists() bool {
	_, err := os.Stat(c.targetPath)
	return err == nil
}

// Source reports which rule picked the config directory.
func (c *Configer) Source() dotdir.Source {
	return c.dir.Source
}

// LoadConfig loads the configuration from config.toml in the target .compass/ directory.
// If the file does not exist, returns NewDefaultConfig() so callers always receive
// a fully-populated Config with sane defaults. Fields explicitly set in the file
// override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := decodeConfigTOML(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig persists the configuration to config.toml in the target .compass/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.targetPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// PresetConfig returns a Config with sane defaults for the named provider preset.
// Supported presets: "openai", "groq", "gemini", "anthropic".
// Returns an error if the preset name is not recognized.
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "openai":
		cfg.Provider.Name = "openai"
		cfg.Generation.ReasoningEffort = llm.Ptr("medium")

	case "groq":
		cfg.Provider.Name = "groq"
		cfg.Generation.Temperature = llm.Ptr(0.2)
		cfg.Generation.TopP = llm.Ptr(0.9)
		cfg.Generation.MaxTokens = llm.Ptr(1024)

	case "gemini":
		cfg.Provider.Name = "gemini"
		cfg.Generation.Temperature = llm.Ptr(0.2)
		cfg.Generation.TopP = llm.Ptr(0.9)
		cfg.Generation.TopK = llm.Ptr(40)

	case "anthropic":
		cfg.Provider.Name = "anthropic"
		cfg.Generation.MaxTokens = llm.Ptr(8192)
		cfg.Generation.ReasoningBudget = llm.Ptr(2048)

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	return cfg, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"openai", "groq", "gemini", "anthropic"}
}

// IsSecretKey reports whether key holds a credential that should not be
// echoed back in listings.
func IsSecretKey(key string) bool {
	return strings.HasSuffix(key, ".api_key")
}

// MaskSecret hides all but the last four characters of v.
func MaskSecret(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentConfigVersion.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := decodeConfigTOML(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeConfigTOML decodes data over cfg, keeping fields the file omits.
func decodeConfigTOML(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return nil
}
