package config

import (
	"io"
	"strings"

	"emperror.dev/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"backend":     "player.backend",
	"autoplay":    "player.auto_play",
	"volume":      "player.volume",
	"muted":       "player.muted",
	"loop":        "player.loop",
	"layout":      "ui.layout",
	"time-format": "ui.time_format",
	"header":      "ui.header",
	"cover":       "ui.header_image",
	"log-level":   "log.level",
	"log-file":    "log.file",
}

// NewFlagSet declares the command line flags understood by Load
func NewFlagSet(name string) *pflag.FlagSet {
	def := DefaultConfig()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a config file (default $HOME/.config/naviplayer.toml)")
	fs.Bool("write-default-config", false, "print the default configuration and exit")
	fs.StringP("backend", "b", def.Player.Backend, "audio backend: mpv or beep")
	fs.Bool("autoplay", def.Player.AutoPlay, "start playing right away")
	fs.Float64("volume", def.Player.Volume, "initial volume between 0 and 1")
	fs.Bool("muted", def.Player.Muted, "start muted")
	fs.Bool("loop", def.Player.Loop, "loop the current track")
	fs.StringP("layout", "l", def.UI.Layout, "stacked, stacked-reverse, horizontal or horizontal-reverse")
	fs.String("time-format", def.UI.TimeFormat, "auto, mm:ss or hh:mm:ss")
	fs.String("header", def.UI.Header, "text shown above the player")
	fs.String("cover", def.UI.HeaderImage, "image file or URL rendered as ASCII art above the player")
	fs.String("log-level", def.Log.Level, "log level")
	fs.String("log-file", def.Log.File, "log file (default: logging disabled)")
	return fs
}

// Load reads the configuration file, then applies NAVIPLAYER_* environment
// variables and the flags that were set. path may be empty to search the
// default locations, a missing file is not an error in that case.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("naviplayer")
		v.AddConfigPath("$HOME/.config/")
		v.AddConfigPath(".")
	}

	if err := setDefaults(v, DefaultConfig()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("NAVIPLAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "failed to bind flag %s", name)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration as TOML
func WriteDefault(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return errors.Wrap(enc.Encode(DefaultConfig()), "failed to encode default config")
}

// setDefaults registers every field of cfg as a viper default
func setDefaults(v *viper.Viper, cfg *Config) error {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode defaults")
	}
	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return errors.Wrap(err, "failed to decode defaults")
	}
	walkDefaults(v, "", tree)
	return nil
}

func walkDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			walkDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
