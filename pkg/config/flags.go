package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so --endpoint means the same
// thing on "apibot chat" and "apibot serve".
type Flag struct {
	// Name is the long flag name (e.g. "endpoint").
	Name string

	// Shorthand is the one-letter short flag (e.g. "e"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "recommender.endpoint").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagEndpoint    = "endpoint"
	FlagUpdatesPath = "updates-path"
	FlagAvatarPath  = "avatar-path"
	FlagUserIcon    = "user-icon-path"
	FlagListen      = "listen"
	FlagGreeting    = "greeting"
)

// Flags is the registry shared by every command.
var Flags = FlagSet{
	FlagEndpoint: {
		Name:        "endpoint",
		Shorthand:   "e",
		ViperKey:    "recommender.endpoint",
		Description: "API recommender endpoint URL",
	},
	FlagUpdatesPath: {
		Name:        "updates-path",
		ViperKey:    "assets.updates_path",
		Description: "Path to the update notes JSON document",
	},
	FlagAvatarPath: {
		Name:        "avatar-path",
		ViperKey:    "assets.avatar_path",
		Description: "Path to the assistant avatar image",
	},
	FlagUserIcon: {
		Name:        "user-icon-path",
		ViperKey:    "assets.user_icon_path",
		Description: "Path to the user icon image",
	},
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "web.listen",
		Description: "Address for the web server to listen on",
	},
	FlagGreeting: {
		Name:        "greeting",
		ViperKey:    "chat.greeting",
		Description: "Assistant greeting that opens every conversation",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
