package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/cliui"
	"github.com/papercomputeco/apibot/pkg/config"
)

const listLongDesc string = `List all configuration values.

Prints every key grouped by its config.toml section. Values still at their
built-in default are marked "(default)".

Examples:
  apibot config list`

const listShortDesc string = "List all configuration values"

func newListCmd(cmder *configCommander) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.list(cmd.OutOrStdout())
		},
	}
}

func (c *configCommander) list(out io.Writer) error {
	fmt.Fprintf(out, "%s\n", cliui.DimStyle.Render("# "+c.cfger.GetTarget()))

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		_, name, _ := strings.Cut(k, ".")
		width = max(width, len(name))
	}

	section := ""
	for _, key := range keys {
		value, err := c.cfger.GetConfigValue(key)
		if err != nil {
			return err
		}
		def, err := config.DefaultValue(key)
		if err != nil {
			return err
		}

		sect, name, _ := strings.Cut(key, ".")
		if sect != section {
			section = sect
			fmt.Fprintf(out, "\n[%s]\n", section)
		}

		line := fmt.Sprintf("%-*s = %q", width, name, value)
		if value == def {
			line += " " + cliui.DimStyle.Render("(default)")
		}
		fmt.Fprintln(out, line)
	}

	return nil
}
