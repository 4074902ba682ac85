// Package compasscmder
package compasscmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/deencompass/compass/cmd/compass/chat"
	configcmder "github.com/deencompass/compass/cmd/compass/config"
	initcmder "github.com/deencompass/compass/cmd/compass/init"
	servecmder "github.com/deencompass/compass/cmd/compass/serve"
	versioncmder "github.com/deencompass/compass/cmd/version"
)

const compassLongDesc string = `Compass relays chat conversations to a single configured LLM provider,
prepending the DeenCompass policy to every request.

Run the server and talk to it using:
  compass serve        Run the HTTP server
  compass chat         Chat with a running server from the terminal
  compass config       Manage persistent configuration`

const compassShortDesc string = "Compass - policy governed LLM chat relay"

func NewCompassCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "compass",
		Short:         compassShortDesc,
		Long:          compassLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .compass/ config directory")
	cmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file when present")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
