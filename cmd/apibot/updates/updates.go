// Package updatescmder provides the updates command for browsing the
// service update notes from the terminal.
package updatescmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/config"
	"github.com/papercomputeco/apibot/pkg/logger"
	"github.com/papercomputeco/apibot/pkg/updates"
)

const updatesLongDesc string = `Browse the service update notes.

The notes are read from assets.updates_path (override with --updates-path).
A missing or unreadable file is treated as empty.

Use subcommands to search or list the notes:
  apibot updates search <keyword>   First note matching keyword
  apibot updates list               Digest of every section`

const updatesShortDesc string = "Browse the service update notes"

type updatesCommander struct {
	updatesPath string
	debug       bool

	cfg *config.Config
}

func NewUpdatesCmd() *cobra.Command {
	cmder := &updatesCommander{}

	cmd := &cobra.Command{
		Use:   "updates",
		Short: updatesShortDesc,
		Long:  updatesLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagUpdatesPath})
			cmder.cfg = config.FromViper(v)
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
	}

	def := config.Flags[config.FlagUpdatesPath]
	cmd.PersistentFlags().StringVar(&cmder.updatesPath, def.Name, config.NewDefaultConfig().Assets.UpdatesPath, def.Description)

	cmd.AddCommand(newSearchCmd(cmder))
	cmd.AddCommand(newListCmd(cmder))

	return cmd
}

// load reads the notes document, logging a warning when it degrades to empty.
func (c *updatesCommander) load() *updates.Document {
	doc, err := updates.Load(c.cfg.Assets.UpdatesPath)
	if err != nil {
		log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))
		log.Warn("update notes unavailable", "path", c.cfg.Assets.UpdatesPath, "error", err)
		return updates.Empty()
	}
	return doc
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
