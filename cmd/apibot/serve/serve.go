// Package servecmder provides the serve command running the web chat server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/apibot/pkg/assets"
	"github.com/papercomputeco/apibot/pkg/config"
	"github.com/papercomputeco/apibot/pkg/dotdir"
	"github.com/papercomputeco/apibot/pkg/logger"
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/web"
)

type serveCommander struct {
	listen       string
	endpoint     string
	updatesPath  string
	avatarPath   string
	userIconPath string
	greeting     string
	watch        bool
	debug        bool
	configDir    string

	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the web chat server.

Each browser gets its own conversation, tracked by a session cookie and kept
in memory until it has been idle for web.session_idle. Besides the chat page
the server exposes:
  GET  /api/transcript        last turns of the caller's conversation
  POST /api/chat              {"content": "..."} runs one exchange
  GET  /api/updates?q=        update-notes keyword lookup
  GET  /api/updates/summary   update-notes digest
  /mcp                        MCP tools recommend_api and search_updates

With --watch the update notes and images are reloaded when they change on disk.

Examples:
  apibot serve
  apibot serve --listen :8080 --watch
  APIBOT_RECOMMENDER_ENDPOINT=http://10.0.0.5:8000/ai/api_recommender apibot serve`

const serveShortDesc string = "Run the web chat server"

var serveFlags = []string{
	config.FlagListen,
	config.FlagEndpoint,
	config.FlagUpdatesPath,
	config.FlagAvatarPath,
	config.FlagUserIcon,
	config.FlagGreeting,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.cfg = config.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpdatesPath, &cmder.updatesPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagAvatarPath, &cmder.avatarPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagUserIcon, &cmder.userIconPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagGreeting, &cmder.greeting)
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Reload update notes and images when they change")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	logFile, err := dotdir.NewManager().OpenLog(c.configDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	c.logger = logger.Multi(
		logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stdout)),
		logger.New(
			logger.WithDebug(c.debug),
			logger.WithJSON(true),
			logger.WithSource(c.debug),
			logger.WithWriter(logFile),
		),
	)

	idle, err := c.cfg.Web.SessionIdleDuration()
	if err != nil {
		return err
	}

	cache := assets.NewCache(c.logger)
	client := recommender.NewClient(recommender.Config{
		Endpoint: c.cfg.Recommender.Endpoint,
		Logger:   c.logger,
	})

	server, err := web.NewServer(web.Config{
		ListenAddr:   c.cfg.Web.Listen,
		DisplayLimit: c.cfg.Chat.DisplayLimit,
		SessionIdle:  idle,
		Greeting:     c.cfg.Chat.Greeting,
		Announcement: c.cfg.Updates.Announcement,
		Featured:     c.cfg.Updates.Featured,
		UpdatesPath:  c.cfg.Assets.UpdatesPath,
		AvatarPath:   c.cfg.Assets.AvatarPath,
		UserIconPath: c.cfg.Assets.UserIconPath,
	}, client, cache, c.logger)
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.watch {
		go c.watchAssets(ctx, cache)
	}
	go server.SweepIdle(ctx, sweepInterval(idle))

	c.logger.Info("starting apibot",
		"listen", c.cfg.Web.Listen,
		"endpoint", client.Endpoint(),
		"watch", c.watch,
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("received signal, shutting down")
		return server.Shutdown()
	}
}

func (c *serveCommander) watchAssets(ctx context.Context, cache *assets.Cache) {
	err := cache.Watch(ctx,
		c.cfg.Assets.UpdatesPath,
		c.cfg.Assets.AvatarPath,
		c.cfg.Assets.UserIconPath,
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("asset watch stopped", "error", err)
	}
}

// sweepInterval checks for idle sessions four times per idle period, at
// most once a second.
func sweepInterval(idle time.Duration) time.Duration {
	if idle <= 0 {
		return 0
	}
	return max(idle/4, time.Second)
}
