// Package mcp provides an MCP (Model Context Protocol) server exposing the
// API recommender and the update-notes lookup as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/updates"
	"github.com/papercomputeco/apibot/pkg/utils"
)

type Config struct {
	// Dispatcher forwards recommend_api queries to the recommendation endpoint
	Dispatcher recommender.Dispatcher

	// Notes returns the current update-notes document. It is called on every
	// search_updates request so file-watch reloads are picked up.
	Notes func() *updates.Document

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the recommend_api and
// search_updates tools.
func NewServer(c Config) (*Server, error) {
	if c.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if c.Notes == nil {
		return nil, errors.New("notes source is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "apibot",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        recommendToolName,
		Description: recommendDescription,
	}, s.handleRecommend)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchUpdatesToolName,
		Description: searchUpdatesDescription,
	}, s.handleSearchUpdates)

	s.mcpServer = mcpServer

	// Every tool call is independent, so the handler runs stateless.
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
