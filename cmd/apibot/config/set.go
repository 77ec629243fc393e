package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/cliui"
)

const setLongDesc string = `Set a configuration value.

Writes the key to config.toml in the .apibot/ directory. chat.display_limit
must be a positive integer and web.session_idle a Go duration such as 30m.

Examples:
  apibot config set recommender.endpoint http://127.0.0.1:8000/ai/api_recommender
  apibot config set chat.display_limit 30
  apibot config set web.listen :8080`

const setShortDesc string = "Set a configuration value"

func newSetCmd(cmder *configCommander) *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             setShortDesc,
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := requireKey(key); err != nil {
				return err
			}

			if err := cmder.cfger.SetConfigValue(key, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n",
				cliui.SuccessMark,
				cliui.KeyStyle.Render(key),
				cliui.ValueStyle.Render(value),
				cliui.DimStyle.Render("("+cmder.cfger.GetTarget()+")"),
			)
			return nil
		},
	}
}
