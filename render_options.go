package mdriver

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultSyntaxTheme names the chroma style used for code blocks when none is
// configured.
const DefaultSyntaxTheme = "monokai"

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8         bool
	width        int
	theme        Theme
	syntaxTheme  string
	images       ImageProtocol
	resolver     ImageResolver
	highlighter  Highlighter
	imageTimeout time.Duration
	keepFront    bool
	logger       zerolog.Logger
}

func defaultRenderConfig() renderConfig {
	return renderConfig{
		osc8:         true,
		syntaxTheme:  DefaultSyntaxTheme,
		imageTimeout: 10 * time.Second,
		logger:       zerolog.Nop(),
	}
}

// WithOSC8 enables or disables OSC 8 hyperlinks.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithWidth sets the wrap width in terminal columns. Zero disables wrapping.
func WithWidth(width int) RenderOption {
	return func(cfg *renderConfig) {
		if width < 0 {
			width = 0
		}
		cfg.width = width
	}
}

// WithTheme selects the markdown element styles.
func WithTheme(theme Theme) RenderOption {
	return func(cfg *renderConfig) {
		cfg.theme = theme
	}
}

// WithSyntaxTheme selects the code highlighting theme by name.
func WithSyntaxTheme(name string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.syntaxTheme = name
	}
}

// WithImages selects the graphics protocol used for images.
func WithImages(protocol ImageProtocol) RenderOption {
	return func(cfg *renderConfig) {
		cfg.images = protocol
	}
}

// WithImageResolver replaces the default file/HTTP image resolver.
func WithImageResolver(resolver ImageResolver) RenderOption {
	return func(cfg *renderConfig) {
		cfg.resolver = resolver
	}
}

// WithImageTimeout bounds a single image resolve.
func WithImageTimeout(d time.Duration) RenderOption {
	return func(cfg *renderConfig) {
		if d > 0 {
			cfg.imageTimeout = d
		}
	}
}

// WithHighlighter replaces the default chroma highlighter.
func WithHighlighter(h Highlighter) RenderOption {
	return func(cfg *renderConfig) {
		cfg.highlighter = h
	}
}

// WithFrontMatter keeps (true) or strips (false) leading front matter.
func WithFrontMatter(keep bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.keepFront = keep
	}
}

// WithLogger routes collaborator diagnostics to logger.
func WithLogger(logger zerolog.Logger) RenderOption {
	return func(cfg *renderConfig) {
		cfg.logger = logger
	}
}
