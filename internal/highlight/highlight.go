// Package highlight tokenizes fenced code into colored spans using chroma.
// It also serves as the store of syntax themes.
package highlight

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog"
)

// ErrUnknownTheme reports a syntax theme name that chroma does not ship.
var ErrUnknownTheme = errors.New("unknown syntax theme")

// Theme is a loaded, read-only syntax theme.
type Theme struct {
	name  string
	style *chroma.Style
}

// Name returns the registry name of the theme.
func (t *Theme) Name() string { return t.name }

// Names lists the known syntax theme names in sorted order.
func Names() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

// Load returns the theme registered under name.
func Load(name string) (*Theme, error) {
	key := strings.TrimSpace(name)
	style, ok := styles.Registry[key]
	if !ok {
		style, ok = styles.Registry[strings.ToLower(key)]
	}
	if !ok || style == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownTheme, name)
	}
	return &Theme{name: style.Name, style: style}, nil
}

// Span is a run of code text sharing one style.
type Span struct {
	Text      string
	R, G, B   uint8
	HasColor  bool
	Bold      bool
	Italic    bool
	Underline bool
}

// Highlighter turns code into spans for a fixed theme.
type Highlighter struct {
	theme  *Theme
	logger zerolog.Logger

	mu      sync.Mutex
	lexers  map[string]chroma.Lexer
	entries map[chroma.TokenType]Span
}

// New returns a Highlighter bound to theme.
func New(theme *Theme, logger zerolog.Logger) *Highlighter {
	return &Highlighter{
		theme:   theme,
		logger:  logger.With().Str("component", "highlight").Logger(),
		lexers:  make(map[string]chroma.Lexer),
		entries: make(map[chroma.TokenType]Span),
	}
}

// Highlight tokenizes code for language. An unknown or empty language yields
// the code as a single unstyled span.
func (h *Highlighter) Highlight(code, language string) ([]Span, error) {
	if code == "" {
		return nil, nil
	}
	lexer := h.lexer(language)
	if lexer == nil {
		h.logger.Debug().Str("language", language).Msg("no lexer, rendering plain")
		return []Span{{Text: code}}, nil
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("highlight: tokenise %s: %w", language, err)
	}
	var spans []Span
	total := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		span := h.spanStyle(tok.Type)
		span.Text = tok.Value
		total += len(tok.Value)
		spans = append(spans, span)
	}
	// Lexers with EnsureNL append a newline the source did not have.
	for total > len(code) && len(spans) > 0 {
		last := &spans[len(spans)-1]
		if !strings.HasSuffix(last.Text, "\n") {
			break
		}
		last.Text = last.Text[:len(last.Text)-1]
		total--
		if last.Text == "" {
			spans = spans[:len(spans)-1]
		}
	}
	return spans, nil
}

func (h *Highlighter) lexer(language string) chroma.Lexer {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if lexer, ok := h.lexers[lang]; ok {
		return lexer
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Match("file." + lang)
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	h.lexers[lang] = lexer
	return lexer
}

func (h *Highlighter) spanStyle(tt chroma.TokenType) Span {
	h.mu.Lock()
	defer h.mu.Unlock()
	if span, ok := h.entries[tt]; ok {
		return span
	}
	entry := h.theme.style.Get(tt)
	var span Span
	if entry.Colour.IsSet() {
		span.HasColor = true
		span.R = entry.Colour.Red()
		span.G = entry.Colour.Green()
		span.B = entry.Colour.Blue()
	}
	span.Bold = entry.Bold == chroma.Yes
	span.Italic = entry.Italic == chroma.Yes
	span.Underline = entry.Underline == chroma.Yes
	h.entries[tt] = span
	return span
}
