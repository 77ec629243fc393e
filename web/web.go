package web

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/papercomputeco/apibot/pkg/assets"
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/session"
	"github.com/papercomputeco/apibot/pkg/updates"
	"github.com/papercomputeco/apibot/web/mcp"
)

const (
	sessionCookie = "apibot_session"

	// defaultCookieExpiration applies when idle sweeping is disabled.
	defaultCookieExpiration = 24 * time.Hour
)

// Server is the web chat server.
type Server struct {
	config     Config
	dispatcher recommender.Dispatcher
	assets     *assets.Cache
	logger     *slog.Logger

	sessions *session.Store
	cookies  *fibersession.Store
	page     *template.Template
	app      *fiber.App
}

// NewServer creates a new web server.
// The dispatcher and asset cache are injected so the serve command can share
// the cache with its file watcher.
func NewServer(config Config, dispatcher recommender.Dispatcher, cache *assets.Cache, logger *slog.Logger) (*Server, error) {
	if config.DisplayLimit <= 0 {
		config.DisplayLimit = session.DisplayLimit
	}

	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	expiration := config.SessionIdle
	if expiration <= 0 {
		expiration = defaultCookieExpiration
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:     config,
		dispatcher: dispatcher,
		assets:     cache,
		logger:     logger,
		sessions:   session.NewStore(config.Greeting),
		cookies: fibersession.New(fibersession.Config{
			Expiration:     expiration,
			KeyLookup:      "cookie:" + sessionCookie,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			KeyGenerator:   uuid.NewString,
		}),
		page: page,
		app:  app,
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Dispatcher: dispatcher,
		Notes:      s.notes,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create MCP server: %w", err)
	}

	app.Use(requestLogger(logger))

	app.Get("/ping", s.handlePing)
	app.Get("/", s.handlePage)
	app.Post("/chat", s.handleChatForm)
	app.Post("/reset", s.handleResetForm)
	app.Get("/avatar/:role", s.handleAvatar)

	app.Get("/api/transcript", s.handleTranscript)
	app.Delete("/api/transcript", s.handleReset)
	app.Post("/api/chat", s.handleChat)
	app.Get("/api/updates", s.handleSearchUpdates)
	app.Get("/api/updates/summary", s.handleUpdatesSummary)

	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the web server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting web server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SweepIdle evicts idle conversations every interval until ctx is done.
// It returns immediately when idle sweeping is disabled.
func (s *Server) SweepIdle(ctx context.Context, interval time.Duration) {
	if s.config.SessionIdle <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(s.config.SessionIdle); n > 0 {
				s.logger.Debug("swept idle sessions", "count", n, "remaining", s.sessions.Len())
			}
		}
	}
}

// conversation returns the Session bound to the request's cookie, issuing a
// new cookie when the browser has none.
func (s *Server) conversation(c *fiber.Ctx) (*session.Session, error) {
	sess, err := s.cookies.Get(c)
	if err != nil {
		return nil, fmt.Errorf("loading session cookie: %w", err)
	}

	id := sess.ID()
	if err := sess.Save(); err != nil {
		return nil, fmt.Errorf("saving session cookie: %w", err)
	}

	return s.sessions.Get(id), nil
}

// endConversation forgets the Session bound to the request's cookie and
// expires the cookie. The next request starts over from the greeting.
func (s *Server) endConversation(c *fiber.Ctx) error {
	sess, err := s.cookies.Get(c)
	if err != nil {
		return fmt.Errorf("loading session cookie: %w", err)
	}

	s.sessions.Delete(sess.ID())
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("destroying session cookie: %w", err)
	}
	return nil
}

func (s *Server) notes() *updates.Document {
	return s.assets.Notes(s.config.UpdatesPath)
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	}
}
