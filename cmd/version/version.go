// Package versioncmder prints the build stamp set through -ldflags on
// pkg/utils.
package versioncmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/utils"
)

type versionCommander struct {
	short bool
}

func NewVersionCmd() *cobra.Command {
	cmder := &versionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the apibot version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&cmder.short, "short", false, "Print only the version number")

	return cmd
}

func (c *versionCommander) print(out io.Writer) {
	if c.short {
		fmt.Fprintln(out, utils.Version)
		return
	}
	fmt.Fprintf(out, "apibot %s\ncommit: %s\nbuilt:  %s\n", utils.Version, utils.Sha, utils.Buildtime)
}
