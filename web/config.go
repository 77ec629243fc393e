// Package web provides the browser chat surface: a fiber server rendering
// the conversation page per browser session, a JSON API and the MCP endpoint.
package web

import "time"

// Config is the web server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8501")
	ListenAddr string

	// DisplayLimit is how many trailing turns the page and the API return
	DisplayLimit int

	// SessionIdle evicts browser sessions unseen for this long. Zero keeps
	// sessions until the process exits.
	SessionIdle time.Duration

	// Greeting seeds every new conversation
	Greeting string

	// Announcement and Featured drive the update-notes mode
	Announcement string
	Featured     string

	// Asset paths
	UpdatesPath  string
	AvatarPath   string
	UserIconPath string
}
