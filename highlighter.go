package mdriver

import (
	"github.com/rs/zerolog"

	"pkt.systems/mdriver/internal/highlight"
)

// ErrUnknownTheme reports a syntax theme name that is not in the theme store.
var ErrUnknownTheme = highlight.ErrUnknownTheme

// RGB is a true-color value.
type RGB struct {
	R, G, B uint8
}

// Span is a run of highlighted code sharing one style.
type Span struct {
	Text      string
	Color     RGB
	HasColor  bool
	Bold      bool
	Italic    bool
	Underline bool
}

// Highlighter colors the contents of a code block. It must return the code
// as a single unstyled span for an unknown or empty language.
type Highlighter interface {
	Highlight(code, language string) ([]Span, error)
}

// SyntaxThemes lists the syntax theme names accepted by WithSyntaxTheme.
func SyntaxThemes() []string {
	return highlight.Names()
}

type chromaHighlighter struct {
	h *highlight.Highlighter
}

func newChromaHighlighter(themeName string, logger zerolog.Logger) (Highlighter, error) {
	theme, err := highlight.Load(themeName)
	if err != nil {
		return nil, err
	}
	return chromaHighlighter{h: highlight.New(theme, logger)}, nil
}

func (c chromaHighlighter) Highlight(code, language string) ([]Span, error) {
	spans, err := c.h.Highlight(code, language)
	if err != nil {
		return nil, err
	}
	out := make([]Span, len(spans))
	for i, s := range spans {
		out[i] = Span{
			Text:      s.Text,
			Color:     RGB{R: s.R, G: s.G, B: s.B},
			HasColor:  s.HasColor,
			Bold:      s.Bold,
			Italic:    s.Italic,
			Underline: s.Underline,
		}
	}
	return out, nil
}

type plainHighlighter struct{}

func (plainHighlighter) Highlight(code, _ string) ([]Span, error) {
	if code == "" {
		return nil, nil
	}
	return []Span{{Text: code}}, nil
}

// PlainHighlighter returns a Highlighter that never colors code.
func PlainHighlighter() Highlighter {
	return plainHighlighter{}
}
