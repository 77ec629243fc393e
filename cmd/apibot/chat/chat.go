// Package chatcmder provides the chat command: an interactive terminal
// conversation with the API recommender.
package chatcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/apibot/pkg/assets"
	"github.com/papercomputeco/apibot/pkg/config"
	"github.com/papercomputeco/apibot/pkg/dotdir"
	"github.com/papercomputeco/apibot/pkg/logger"
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/session"
)

type chatCommander struct {
	endpoint     string
	updatesPath  string
	avatarPath   string
	userIconPath string
	greeting     string
	updatesMode  bool
	plain        bool
	debug        bool
	configDir    string

	cfg    *config.Config
	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat with the API recommendation bot.

Every message is sent to the configured recommender endpoint and the reply is
shown as the assistant's turn. Only the last 20 turns are displayed.

In a terminal a full-screen view opens with a sidebar:
  tab        switch between the chat and the update notes
  ctrl+a     show or hide the service description
  ctrl+r     show or hide license and references
  pgup/pgdn  scroll
  esc        quit

When stdin is not a terminal (or with --plain) a line-oriented loop is used
instead. Type /updates <keyword> to search the update notes and /exit to quit.

Logs are written to apibot.log in the .apibot/ directory.

Examples:
  apibot chat
  apibot chat --endpoint http://10.0.0.5:8000/ai/api_recommender
  echo "버스 도착 정보" | apibot chat`

const chatShortDesc string = "Chat with the API recommendation bot"

var chatFlags = []string{
	config.FlagEndpoint,
	config.FlagUpdatesPath,
	config.FlagAvatarPath,
	config.FlagUserIcon,
	config.FlagGreeting,
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, chatFlags)
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpdatesPath, &cmder.updatesPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagAvatarPath, &cmder.avatarPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagUserIcon, &cmder.userIconPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagGreeting, &cmder.greeting)
	cmd.Flags().BoolVarP(&cmder.updatesMode, "updates", "u", false, "Open in update notes mode")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Use the line-oriented loop even in a terminal")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, in io.Reader, out io.Writer) error {
	logFile, err := dotdir.NewManager().OpenLog(c.configDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithWriter(logFile),
		logger.WithComponent("chat"),
	)

	client := recommender.NewClient(recommender.Config{
		Endpoint: c.cfg.Recommender.Endpoint,
		Logger:   c.logger,
	})

	conv := session.New(c.cfg.Chat.Greeting)
	conv.Initialize()

	opts := chatOptions{
		dispatcher:   client,
		conversation: conv,
		assets:       assets.NewCache(c.logger),
		config:       c.cfg,
		updatesMode:  c.updatesMode,
	}

	c.logger.Info("starting chat",
		"endpoint", client.Endpoint(),
		"plain", c.plain,
	)

	if c.plain || !isTerminal(in) {
		return runPlain(ctx, opts, in, out)
	}
	return runTUI(ctx, opts)
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// chatOptions carries what both the TUI and the plain loop need.
type chatOptions struct {
	dispatcher   recommender.Dispatcher
	conversation *session.Session
	assets       *assets.Cache
	config       *config.Config
	updatesMode  bool
}

func (o chatOptions) notesPath() string {
	return o.config.Assets.UpdatesPath
}

func (o chatOptions) displayLimit() int {
	if o.config.Chat.DisplayLimit <= 0 {
		return session.DisplayLimit
	}
	return o.config.Chat.DisplayLimit
}
