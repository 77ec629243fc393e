// Package apibotcmder
package apibotcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/apibot/cmd/apibot/chat"
	configcmder "github.com/papercomputeco/apibot/cmd/apibot/config"
	servecmder "github.com/papercomputeco/apibot/cmd/apibot/serve"
	updatescmder "github.com/papercomputeco/apibot/cmd/apibot/updates"
	versioncmder "github.com/papercomputeco/apibot/cmd/version"
)

const apibotLongDesc string = `apibot helps you find public data APIs by asking in plain language.

Each message is forwarded to the API recommendation service and its reply is
shown as a conversation.

Run it using:
  apibot chat      Chat in the terminal
  apibot serve     Run the web chat server
  apibot updates   Browse the service update notes`

const apibotShortDesc string = "apibot - Public data API recommendation bot"

func NewApibotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "apibot",
		Short:        apibotShortDesc,
		Long:         apibotLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .apibot/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(updatescmder.NewUpdatesCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
