package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"
)

const getLongDesc string = `Get a configuration value.

Prints the value stored for the key in config.toml, or its built-in default
when the file does not set it. Only the value is printed, so the output can
be used in scripts.

Examples:
  apibot config get recommender.endpoint
  curl "$(apibot config get web.listen)/ping"`

const getShortDesc string = "Get a configuration value"

func newGetCmd(cmder *configCommander) *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             getShortDesc,
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireKey(args[0]); err != nil {
				return err
			}

			value, err := cmder.cfger.GetConfigValue(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}
