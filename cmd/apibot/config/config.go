// Package configcmder provides the config command for managing persistent
// apibot configuration stored in the .apibot/ directory.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/config"
)

const configLongDesc string = `Manage persistent apibot configuration.

Configuration is stored as config.toml in the .apibot/ directory and provides
default values for command flags. CLI flags and APIBOT_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  recommender.endpoint,
  chat.greeting, chat.display_limit,
  assets.updates_path, assets.avatar_path, assets.user_icon_path,
  updates.announcement, updates.featured,
  web.listen, web.session_idle

Examples:
  apibot config set recommender.endpoint http://10.0.0.5:8000/ai/api_recommender
  apibot config set web.session_idle 2h
  apibot config get recommender.endpoint
  apibot config list`

const configShortDesc string = "Manage persistent apibot configuration"

// configCommander carries what every config subcommand needs: the directory
// override from the root command and the file it resolves to.
type configCommander struct {
	configDir string
	cfger     *config.Configer
}

func NewConfigCmd() *cobra.Command {
	cmder := &configCommander{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.cfger = cfger
			return nil
		},
	}

	cmd.AddCommand(newSetCmd(cmder))
	cmd.AddCommand(newGetCmd(cmder))
	cmd.AddCommand(newListCmd(cmder))

	return cmd
}

// requireKey rejects keys config.toml does not know, listing the valid ones.
func requireKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

// completeKey offers config keys for the first positional argument.
func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
