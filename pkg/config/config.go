// Package config loads, saves and layers apibot configuration: config.toml in
// the .apibot/ directory, APIBOT_ environment variables and CLI flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/apibot/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// keyOrder matches the TOML section layout.
var keyOrder = []string{
	"recommender.endpoint",
	"chat.greeting",
	"chat.display_limit",
	"assets.updates_path",
	"assets.avatar_path",
	"assets.user_icon_path",
	"updates.announcement",
	"updates.featured",
	"web.listen",
	"web.session_idle",
}

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{ddm: dotdir.NewManager()}

	path, err := cfger.ddm.File(override, configFile)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// The file may not exist yet; SaveConfig creates it.
	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns every supported key in section order.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range keyOrder {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}

	var rest []string
	for k := range configKeys {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(result, rest...)
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads config.toml from the target directory. A missing file
// yields NewDefaultConfig(); fields absent from the file are filled from the
// defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	d := NewDefaultConfig()

	if cfg.Recommender.Endpoint == "" {
		cfg.Recommender.Endpoint = d.Recommender.Endpoint
	}

	if cfg.Chat.Greeting == "" {
		cfg.Chat.Greeting = d.Chat.Greeting
	}
	if cfg.Chat.DisplayLimit <= 0 {
		cfg.Chat.DisplayLimit = d.Chat.DisplayLimit
	}

	if cfg.Assets.UpdatesPath == "" {
		cfg.Assets.UpdatesPath = d.Assets.UpdatesPath
	}
	if cfg.Assets.AvatarPath == "" {
		cfg.Assets.AvatarPath = d.Assets.AvatarPath
	}
	if cfg.Assets.UserIconPath == "" {
		cfg.Assets.UserIconPath = d.Assets.UserIconPath
	}

	if cfg.Updates.Announcement == "" {
		cfg.Updates.Announcement = d.Updates.Announcement
	}
	if cfg.Updates.Featured == "" {
		cfg.Updates.Featured = d.Updates.Featured
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = d.Web.Listen
	}
	if cfg.Web.SessionIdle == "" {
		cfg.Web.SessionIdle = d.Web.SessionIdle
	}
}

// SaveConfig persists the configuration to config.toml in the target directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// DefaultValue returns the built-in value of key as config get would print it.
func DefaultValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}
	return info.get(NewDefaultConfig()), nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
