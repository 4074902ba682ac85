// Package configcmder provides the config command for managing persistent
// compass configuration stored in the .compass/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deencompass/compass/pkg/cliui"
	"github.com/deencompass/compass/pkg/config"
)

const configLongDesc string = `Manage persistent compass configuration.

Configuration is stored as config.toml in the .compass/ directory and provides
default values for "compass serve" and "compass chat". Flags and environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure, for example:
  provider.name, provider.strict, server.listen, policy.instruction,
  generation.max_tokens, generation.reasoning_effort,
  openai.api_key, groq.model, events.driver, client.target

Use subcommands to get, set, or list configuration values:
  compass config set <key> <value>    Set a configuration value
  compass config get <key>            Get a configuration value
  compass config list                 List all configuration values

Examples:
  compass config set provider.name gemini
  compass config set generation.temperature 0.2
  compass config set generation.temperature ""    Unset an optional value
  compass config get provider.name
  compass config list`

const configShortDesc string = "Manage persistent compass configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func validKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(w io.Writer, cfger *config.Configer) {
	if cfger.Exists() {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(fmt.Sprintf("%s (%s)", cfger.GetTarget(), cfger.Source())),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file at "+cfger.GetTarget()+". Using defaults."))
}

// display masks credentials so they never end up in terminal scrollback.
func display(key, value string) string {
	if config.IsSecretKey(key) {
		return config.MaskSecret(value)
	}
	return value
}
