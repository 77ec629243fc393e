package updatescmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/cliui"
	"github.com/papercomputeco/apibot/pkg/updates"
)

const listLongDesc string = `List every update-notes section as a digest.

The featured Highlights entry (updates.featured) is listed first. Output is
rendered as terminal markdown unless --raw is given.

Examples:
  apibot updates list
  apibot updates list --raw > updates.md`

const listShortDesc string = "List the update notes"

func newListCmd(cmder *updatesCommander) *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n\n",
				cliui.KeyStyle.Render("API AI Bot Announcement:"),
				cmder.cfg.Updates.Announcement,
			)

			summary := updates.Summary(cmder.load(), cmder.cfg.Updates.Featured)
			if raw {
				fmt.Fprintln(out, summary)
				return nil
			}

			rendered, err := cliui.RenderMarkdown(summary, width)
			if err != nil {
				return fmt.Errorf("rendering summary: %w", err)
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal rendering")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap rendered output at this many columns")

	return cmd
}
