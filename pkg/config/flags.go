package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands.
type Flag struct {
	// Name is the long flag name (e.g. "provider").
	Name string

	// Shorthand is the one-letter short flag (e.g. "p"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "provider.name").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddBoolFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagListen       = "listen"
	FlagProvider     = "provider"
	FlagStrict       = "strict"
	FlagEventsDriver = "events-driver"
	FlagKafkaBrokers = "kafka-brokers"
	FlagKafkaTopic   = "kafka-topic"
	FlagLogJSON      = "log-json"
	FlagLogFile      = "log-file"
	FlagWeb          = "web"
	FlagClientTarget = "target"
)

// ServeFlags is the registry of flags accepted by "compass serve".
var ServeFlags = FlagSet{
	FlagListen:       {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the HTTP server to listen on"},
	FlagProvider:     {Name: "provider", Shorthand: "p", ViperKey: "provider.name", Description: "LLM provider (openai, groq, gemini, anthropic)"},
	FlagStrict:       {Name: "strict", ViperKey: "provider.strict", Description: "Fail at startup when generation parameters do not apply to the provider"},
	FlagEventsDriver: {Name: "events-driver", ViperKey: "events.driver", Description: "Exchange event publisher (nop, kafka)"},
	FlagKafkaBrokers: {Name: "kafka-brokers", ViperKey: "events.brokers", Description: "Comma separated Kafka brokers for the kafka publisher"},
	FlagKafkaTopic:   {Name: "kafka-topic", ViperKey: "events.topic", Description: "Kafka topic for exchange events"},
	FlagLogJSON:      {Name: "log-json", ViperKey: "log.json", Description: "Write logs as JSON"},
	FlagLogFile:      {Name: "log-file", ViperKey: "log.file", Description: "Also write JSON logs to this file"},
	FlagWeb:          {Name: "web", ViperKey: "server.web", Description: "Serve the bundled web client at /"},
}

// ClientFlags is the registry of flags accepted by client commands such as "compass chat".
var ClientFlags = FlagSet{
	FlagClientTarget: {Name: "target", Shorthand: "t", ViperKey: "client.target", Description: "URL of the compass server"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *bool) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
