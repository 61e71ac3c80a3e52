package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/mdriver"
)

// isolate points the user config dir and home at a temp dir and clears
// MDRIVER_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"THEME", "STYLE", "WIDTH", "IMAGES", "OSC8", "LOG_LEVEL"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, mdriver.DefaultSyntaxTheme, cfg.Theme)
}

func TestLoadReadsDefaultPath(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "mdriver", "config.yaml"), "style: nord\n")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "nord", cfg.Style)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "theme: dracula\nstyle: nord\nwidth: 72\nimages: kitty\nosc8: off\nlog_level: info\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Theme:    "dracula",
		Style:    "nord",
		Width:    72,
		Images:   "kitty",
		OSC8:     "off",
		LogLevel: "info",
	}, cfg)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "width: 72\n")
	t.Setenv("MDRIVER_WIDTH", "64")
	t.Setenv("MDRIVER_LOG_LEVEL", "debug")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestChangedFlagsOverrideEverything(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "width: 72\nstyle: nord\n")
	t.Setenv("MDRIVER_WIDTH", "64")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("width", 0, "")
	fs.String("style", "default", "")
	fs.String("osc8", "auto", "")
	fs.String("log-level", "warn", "")
	require.NoError(t, fs.Parse([]string{"--width=100", "--log-level=error"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "nord", cfg.Style, "an unchanged flag must not override the file")
	assert.Equal(t, "auto", cfg.OSC8)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "width: [\n")
	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"unknown theme", func(c *Config) { c.Theme = "no-such-theme" }, mdriver.ErrUnknownTheme},
		{"unknown style", func(c *Config) { c.Style = "plaid" }, mdriver.ErrUnknownStyle},
		{"unknown images", func(c *Config) { c.Images = "sixel" }, mdriver.ErrUnsupportedImageProtocol},
		{"negative width", func(c *Config) { c.Width = -1 }, nil},
		{"bad osc8", func(c *Config) { c.OSC8 = "sometimes" }, nil},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, nil},
		{"empty log level", func(c *Config) { c.LogLevel = "" }, nil},
	}
	for _, tc := range tests {
		cfg := Default()
		tc.mutate(cfg)
		err := cfg.Validate()
		require.Error(t, err, tc.name)
		if tc.target != nil {
			assert.ErrorIs(t, err, tc.target, tc.name)
		}
	}
	require.NoError(t, Default().Validate())
}

func TestWriteRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "dir", "config.yaml")
	cfg := Default()
	cfg.Width = 72
	cfg.Style = "gruvbox"
	require.NoError(t, cfg.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "width: 72")
	assert.Contains(t, string(data), "log_level: warn")

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPath(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, filepath.Join(dir, "x.yaml"), expandPath("~/x.yaml"))
	assert.Equal(t, "/abs/x.yaml", expandPath("/abs/x.yaml"))
	assert.Equal(t, "rel.yaml", expandPath("rel.yaml"))
}
