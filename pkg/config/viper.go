package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/apibot/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml (if found via
// dotdir resolution), and binds environment variables with the APIBOT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (APIBOT_RECOMMENDER_ENDPOINT, APIBOT_WEB_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("APIBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper materialises the effective configuration.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Version: v.GetInt("version"),
		Recommender: RecommenderConfig{
			Endpoint: v.GetString("recommender.endpoint"),
		},
		Chat: ChatConfig{
			Greeting:     v.GetString("chat.greeting"),
			DisplayLimit: v.GetInt("chat.display_limit"),
		},
		Assets: AssetsConfig{
			UpdatesPath:  v.GetString("assets.updates_path"),
			AvatarPath:   v.GetString("assets.avatar_path"),
			UserIconPath: v.GetString("assets.user_icon_path"),
		},
		Updates: UpdatesConfig{
			Announcement: v.GetString("updates.announcement"),
			Featured:     v.GetString("updates.featured"),
		},
		Web: WebConfig{
			Listen:      v.GetString("web.listen"),
			SessionIdle: v.GetString("web.session_idle"),
		},
	}
	applyDefaults(cfg)
	return cfg
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("recommender.endpoint", d.Recommender.Endpoint)

	v.SetDefault("chat.greeting", d.Chat.Greeting)
	v.SetDefault("chat.display_limit", d.Chat.DisplayLimit)

	v.SetDefault("assets.updates_path", d.Assets.UpdatesPath)
	v.SetDefault("assets.avatar_path", d.Assets.AvatarPath)
	v.SetDefault("assets.user_icon_path", d.Assets.UserIconPath)

	v.SetDefault("updates.announcement", d.Updates.Announcement)
	v.SetDefault("updates.featured", d.Updates.Featured)

	v.SetDefault("web.listen", d.Web.Listen)
	v.SetDefault("web.session_idle", d.Web.SessionIdle)
}
