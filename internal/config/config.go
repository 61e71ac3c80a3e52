// Package config loads mdriver CLI settings from a YAML file, MDRIVER_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pkt.systems/mdriver"
)

// EnvPrefix prefixes every environment override, e.g. MDRIVER_WIDTH.
const EnvPrefix = "MDRIVER"

// Config holds the effective CLI settings.
type Config struct {
	// Theme is the syntax highlighting theme for code blocks.
	Theme string `mapstructure:"theme" yaml:"theme"`
	// Style is the markdown element palette.
	Style string `mapstructure:"style" yaml:"style"`
	// Width is the wrap width. Zero means the terminal width, capped at 80.
	Width int `mapstructure:"width" yaml:"width"`
	// Images is the image protocol: none or kitty.
	Images string `mapstructure:"images" yaml:"images"`
	// OSC8 is auto, on or off.
	OSC8     string `mapstructure:"osc8" yaml:"osc8"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"theme":     "theme",
	"style":     "style",
	"width":     "width",
	"images":    "images",
	"osc8":      "osc8",
	"log_level": "log-level",
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Theme:    mdriver.DefaultSyntaxTheme,
		Style:    "default",
		Width:    0,
		Images:   "none",
		OSC8:     "auto",
		LogLevel: "warn",
	}
}

// DefaultPath returns ~/.config/mdriver/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mdriver", "config.yaml")
}

// Load merges defaults, the config file at path, the environment and the
// changed flags in flags. An empty path reads DefaultPath when it exists; an
// explicit path must exist.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("theme", def.Theme)
	v.SetDefault("style", def.Style)
	v.SetDefault("width", def.Width)
	v.SetDefault("images", def.Images)
	v.SetDefault("osc8", def.OSC8)
	v.SetDefault("log_level", def.LogLevel)

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = expandPath(path)
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the renderer cannot honor.
func (c *Config) Validate() error {
	if !slices.Contains(mdriver.SyntaxThemes(), c.Theme) {
		return fmt.Errorf("config: %w %q", mdriver.ErrUnknownTheme, c.Theme)
	}
	if _, ok := mdriver.ThemeByName(c.Style); !ok {
		return fmt.Errorf("config: %w %q", mdriver.ErrUnknownStyle, c.Style)
	}
	if _, err := mdriver.ParseImageProtocol(c.Images); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Width < 0 {
		return fmt.Errorf("config: width must be >= 0, got %d", c.Width)
	}
	switch strings.ToLower(c.OSC8) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("config: invalid osc8 %q, must be one of: auto, on, off", c.OSC8)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return nil
}

// Write stores c as YAML at path, creating parent directories.
func (c *Config) Write(path string) error {
	path = expandPath(path)
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
