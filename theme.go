package mdriver

import (
	"errors"
	"sort"
	"strings"

	"pkt.systems/mdriver/internal/palette"
)

// ErrUnknownStyle reports a markdown style name that is not built in.
var ErrUnknownStyle = errors.New("unknown style")

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// CalloutKind tags a blockquote that opens with a [!KIND] marker.
type CalloutKind uint8

const (
	CalloutNote CalloutKind = iota
	CalloutTip
	CalloutImportant
	CalloutWarning
	CalloutCaution
)

var calloutLabels = [...]string{"Note", "Tip", "Important", "Warning", "Caution"}

func (k CalloutKind) String() string {
	if int(k) < len(calloutLabels) {
		return calloutLabels[k]
	}
	return "Note"
}

// Styles groups the semantic styles used by the renderer.
type Styles struct {
	Text           Style
	Heading        [6]Style
	Emphasis       Style
	Strong         Style
	EmphasisStrong Style
	Strikethrough  Style
	Underline      Style
	CodeInline     Style
	CodeBlock      Style
	Quote          Style
	ListMarker     Style
	LinkText       Style
	LinkURL        Style
	ThematicBreak  Style
	TableBorder    Style
	TableHeader    Style
	Callout        [5]Style
}

// Theme provides named styles for Markdown rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		Text:           style(p.Text),
		Heading:        [6]Style{style(p.H1), style(p.H2), style(p.H3), style(p.H4), style(p.H5), style(p.H6)},
		Emphasis:       style(palette.Italic, p.Emphasis),
		Strong:         style(palette.Bold, p.Strong),
		EmphasisStrong: style(palette.Bold, palette.Italic, p.EmphasisStrong),
		Strikethrough:  style(palette.Strikethrough),
		Underline:      style(palette.Underline),
		CodeInline:     style(p.CodeInline),
		CodeBlock:      style(p.CodeBlock),
		Quote:          style(p.Quote),
		ListMarker:     style(p.ListMarker),
		LinkText:       style(p.LinkText),
		LinkURL:        style(p.LinkURL),
		ThematicBreak:  style(p.ThematicBreak),
		TableBorder:    style(p.TableBorder),
		TableHeader:    style(palette.Bold),
		Callout: [5]Style{
			style(palette.Bold, p.Note),
			style(palette.Bold, p.Tip),
			style(palette.Bold, p.Important),
			style(palette.Bold, p.Warning),
			style(palette.Bold, p.Caution),
		},
	}
}

var builtinThemes = map[string]Theme{
	"default":          theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"dracula":          theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDracula)},
	"nord":             theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"gruvbox":          theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"tokyo-night":      theme{name: "tokyo-night", styles: stylesFromPalette(palette.PaletteTokyoNight)},
	"catppuccin-mocha": theme{name: "catppuccin-mocha", styles: stylesFromPalette(palette.PaletteCatppuccinMocha)},
	"solarized-dark":   theme{name: "solarized-dark", styles: stylesFromPalette(palette.PaletteSolarizedDark)},
	"github-light":     theme{name: "github-light", styles: stylesFromPalette(palette.PaletteGithubLight)},
	"one-dark":         theme{name: "one-dark", styles: stylesFromPalette(palette.PaletteOneDark)},
	"boring":           theme{name: "boring"},
}

// AvailableThemes returns the names of built-in markdown styles.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// BoringTheme returns a theme without any ANSI styling.
func BoringTheme() Theme {
	return builtinThemes["boring"]
}
