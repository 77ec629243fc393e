package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent apibot configuration stored as config.toml
// in the .apibot/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Recommender RecommenderConfig `toml:"recommender"`
	Chat        ChatConfig        `toml:"chat"`
	Assets      AssetsConfig      `toml:"assets"`
	Updates     UpdatesConfig     `toml:"updates"`
	Web         WebConfig         `toml:"web"`
}

// RecommenderConfig points at the API recommendation endpoint.
type RecommenderConfig struct {
	Endpoint string `toml:"endpoint,omitempty"`
}

// ChatConfig holds conversation settings shared by every surface.
type ChatConfig struct {
	Greeting     string `toml:"greeting,omitempty"`
	DisplayLimit int    `toml:"display_limit,omitempty"`
}

// AssetsConfig holds paths of the static files the surfaces render.
type AssetsConfig struct {
	UpdatesPath  string `toml:"updates_path,omitempty"`
	AvatarPath   string `toml:"avatar_path,omitempty"`
	UserIconPath string `toml:"user_icon_path,omitempty"`
}

// UpdatesConfig controls the update-notes view.
type UpdatesConfig struct {
	Announcement string `toml:"announcement,omitempty"`
	Featured     string `toml:"featured,omitempty"`
}

// WebConfig holds settings for "apibot serve".
type WebConfig struct {
	Listen      string `toml:"listen,omitempty"`
	SessionIdle string `toml:"session_idle,omitempty"`
}

// SessionIdleDuration parses SessionIdle. An empty value disables sweeping.
func (w WebConfig) SessionIdleDuration() (time.Duration, error) {
	if w.SessionIdle == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.SessionIdle)
	if err != nil {
		return 0, fmt.Errorf("invalid web.session_idle: %w", err)
	}
	return d, nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"recommender.endpoint": {
		get: func(c *Config) string { return c.Recommender.Endpoint },
		set: func(c *Config, v string) error { c.Recommender.Endpoint = v; return nil },
	},
	"chat.greeting": {
		get: func(c *Config) string { return c.Chat.Greeting },
		set: func(c *Config, v string) error { c.Chat.Greeting = v; return nil },
	},
	"chat.display_limit": {
		get: func(c *Config) string {
			if c.Chat.DisplayLimit == 0 {
				return ""
			}
			return strconv.Itoa(c.Chat.DisplayLimit)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value for chat.display_limit: %q", v)
			}
			c.Chat.DisplayLimit = n
			return nil
		},
	},
	"assets.updates_path": {
		get: func(c *Config) string { return c.Assets.UpdatesPath },
		set: func(c *Config, v string) error { c.Assets.UpdatesPath = v; return nil },
	},
	"assets.avatar_path": {
		get: func(c *Config) string { return c.Assets.AvatarPath },
		set: func(c *Config, v string) error { c.Assets.AvatarPath = v; return nil },
	},
	"assets.user_icon_path": {
		get: func(c *Config) string { return c.Assets.UserIconPath },
		set: func(c *Config, v string) error { c.Assets.UserIconPath = v; return nil },
	},
	"updates.announcement": {
		get: func(c *Config) string { return c.Updates.Announcement },
		set: func(c *Config, v string) error { c.Updates.Announcement = v; return nil },
	},
	"updates.featured": {
		get: func(c *Config) string { return c.Updates.Featured },
		set: func(c *Config, v string) error { c.Updates.Featured = v; return nil },
	},
	"web.listen": {
		get: func(c *Config) string { return c.Web.Listen },
		set: func(c *Config, v string) error { c.Web.Listen = v; return nil },
	},
	"web.session_idle": {
		get: func(c *Config) string { return c.Web.SessionIdle },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for web.session_idle: %w", err)
			}
			c.Web.SessionIdle = v
			return nil
		},
	},
}
