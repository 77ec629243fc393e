package config

import (
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/session"
)

const (
	defaultEndpoint     = recommender.DefaultEndpoint
	defaultGreeting     = session.DefaultGreeting
	defaultDisplayLimit = session.DisplayLimit

	defaultUpdatesPath  = "data/streamlit_updates.json"
	defaultAvatarPath   = "imgs/avatar_streamly.png"
	defaultUserIconPath = "imgs/stuser.png"

	defaultAnnouncement = "2024.09 베타 서비스 시작"
	defaultFeatured     = "Version 1.36"

	defaultWebListen   = ":8501"
	defaultSessionIdle = "24h"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Recommender: RecommenderConfig{
			Endpoint: defaultEndpoint,
		},
		Chat: ChatConfig{
			Greeting:     defaultGreeting,
			DisplayLimit: defaultDisplayLimit,
		},
		Assets: AssetsConfig{
			UpdatesPath:  defaultUpdatesPath,
			AvatarPath:   defaultAvatarPath,
			UserIconPath: defaultUserIconPath,
		},
		Updates: UpdatesConfig{
			Announcement: defaultAnnouncement,
			Featured:     defaultFeatured,
		},
		Web: WebConfig{
			Listen:      defaultWebListen,
			SessionIdle: defaultSessionIdle,
		},
	}
}
