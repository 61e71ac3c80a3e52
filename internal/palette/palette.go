// Package palette holds the ANSI color palettes behind the built-in markdown
// styles.
package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// SGR attribute prefixes shared by every palette.
const (
	Reset         = "\x1b[0m"
	Bold          = "\x1b[1m"
	Italic        = "\x1b[3m"
	Underline     = "\x1b[4m"
	Strikethrough = "\x1b[9m"
)

// Palette maps markdown elements to ANSI prefixes. Empty fields render
// without styling.
type Palette struct {
	Text           string
	H1             string
	H2             string
	H3             string
	H4             string
	H5             string
	H6             string
	Emphasis       string
	Strong         string
	EmphasisStrong string
	CodeInline     string
	CodeBlock      string
	Quote          string
	ListMarker     string
	LinkText       string
	LinkURL        string
	ThematicBreak  string
	TableBorder    string
	Note           string
	Tip            string
	Important      string
	Warning        string
	Caution        string
}

// FG returns a true-color foreground prefix for a #rrggbb hex color.
func FG(hex string) string {
	r, g, b := rgb(hex)
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// BG returns a true-color background prefix for a #rrggbb hex color.
func BG(hex string) string {
	r, g, b := rgb(hex)
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

func rgb(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// PaletteDefault uses the 256-color codes of the classic mdriver look.
var PaletteDefault = Palette{
	H1:            "\x1b[1;34m",
	H2:            "\x1b[1;34m",
	H3:            "\x1b[1;34m",
	H4:            "\x1b[1;34m",
	H5:            "\x1b[1;34m",
	H6:            "\x1b[1;34m",
	CodeInline:    "\x1b[38;5;167;48;5;235m",
	CodeBlock:     "\x1b[48;5;235m",
	Quote:         "\x1b[38;5;245m",
	LinkText:      "\x1b[34;4m",
	LinkURL:       "\x1b[38;5;245m",
	ThematicBreak: "\x1b[38;5;240m",
	TableBorder:   "\x1b[38;5;240m",
	Note:          "\x1b[34m",
	Tip:           "\x1b[32m",
	Important:     "\x1b[35m",
	Warning:       "\x1b[33m",
	Caution:       "\x1b[31m",
}

var PaletteDracula = Palette{
	H1:            Bold + FG("#ff79c6"),
	H2:            Bold + FG("#bd93f9"),
	H3:            Bold + FG("#8be9fd"),
	H4:            FG("#50fa7b"),
	H5:            FG("#f1fa8c"),
	H6:            FG("#6272a4"),
	Strong:        FG("#ffb86c"),
	Emphasis:      FG("#f1fa8c"),
	CodeInline:    FG("#50fa7b") + BG("#282a36"),
	CodeBlock:     BG("#21222c"),
	Quote:         FG("#6272a4"),
	ListMarker:    FG("#bd93f9"),
	LinkText:      FG("#8be9fd") + Underline,
	LinkURL:       FG("#6272a4"),
	ThematicBreak: FG("#44475a"),
	TableBorder:   FG("#6272a4"),
	Note:          FG("#8be9fd"),
	Tip:           FG("#50fa7b"),
	Important:     FG("#bd93f9"),
	Warning:       FG("#f1fa8c"),
	Caution:       FG("#ff5555"),
}

var PaletteNord = Palette{
	H1:            Bold + FG("#88c0d0"),
	H2:            Bold + FG("#81a1c1"),
	H3:            Bold + FG("#5e81ac"),
	H4:            FG("#8fbcbb"),
	H5:            FG("#a3be8c"),
	H6:            FG("#4c566a"),
	CodeInline:    FG("#ebcb8b") + BG("#3b4252"),
	CodeBlock:     BG("#2e3440"),
	Quote:         FG("#4c566a"),
	ListMarker:    FG("#81a1c1"),
	LinkText:      FG("#88c0d0") + Underline,
	LinkURL:       FG("#4c566a"),
	ThematicBreak: FG("#4c566a"),
	TableBorder:   FG("#4c566a"),
	Note:          FG("#81a1c1"),
	Tip:           FG("#a3be8c"),
	Important:     FG("#b48ead"),
	Warning:       FG("#ebcb8b"),
	Caution:       FG("#bf616a"),
}

var PaletteGruvbox = Palette{
	H1:            Bold + FG("#fb4934"),
	H2:            Bold + FG("#fabd2f"),
	H3:            Bold + FG("#b8bb26"),
	H4:            FG("#8ec07c"),
	H5:            FG("#83a598"),
	H6:            FG("#928374"),
	Strong:        FG("#fe8019"),
	CodeInline:    FG("#fe8019") + BG("#3c3836"),
	CodeBlock:     BG("#282828"),
	Quote:         FG("#928374"),
	ListMarker:    FG("#d3869b"),
	LinkText:      FG("#83a598") + Underline,
	LinkURL:       FG("#928374"),
	ThematicBreak: FG("#504945"),
	TableBorder:   FG("#665c54"),
	Note:          FG("#83a598"),
	Tip:           FG("#b8bb26"),
	Important:     FG("#d3869b"),
	Warning:       FG("#fabd2f"),
	Caution:       FG("#fb4934"),
}

var PaletteTokyoNight = Palette{
	H1:            Bold + FG("#7aa2f7"),
	H2:            Bold + FG("#bb9af7"),
	H3:            Bold + FG("#7dcfff"),
	H4:            FG("#9ece6a"),
	H5:            FG("#e0af68"),
	H6:            FG("#565f89"),
	CodeInline:    FG("#ff9e64") + BG("#1f2335"),
	CodeBlock:     BG("#16161e"),
	Quote:         FG("#565f89"),
	ListMarker:    FG("#bb9af7"),
	LinkText:      FG("#7dcfff") + Underline,
	LinkURL:       FG("#565f89"),
	ThematicBreak: FG("#3b4261"),
	TableBorder:   FG("#3b4261"),
	Note:          FG("#7aa2f7"),
	Tip:           FG("#9ece6a"),
	Important:     FG("#bb9af7"),
	Warning:       FG("#e0af68"),
	Caution:       FG("#f7768e"),
}

var PaletteCatppuccinMocha = Palette{
	H1:            Bold + FG("#f38ba8"),
	H2:            Bold + FG("#fab387"),
	H3:            Bold + FG("#f9e2af"),
	H4:            FG("#a6e3a1"),
	H5:            FG("#89b4fa"),
	H6:            FG("#6c7086"),
	CodeInline:    FG("#f5c2e7") + BG("#313244"),
	CodeBlock:     BG("#181825"),
	Quote:         FG("#6c7086"),
	ListMarker:    FG("#cba6f7"),
	LinkText:      FG("#89dceb") + Underline,
	LinkURL:       FG("#6c7086"),
	ThematicBreak: FG("#45475a"),
	TableBorder:   FG("#585b70"),
	Note:          FG("#89b4fa"),
	Tip:           FG("#a6e3a1"),
	Important:     FG("#cba6f7"),
	Warning:       FG("#f9e2af"),
	Caution:       FG("#f38ba8"),
}

var PaletteSolarizedDark = Palette{
	H1:            Bold + FG("#268bd2"),
	H2:            Bold + FG("#2aa198"),
	H3:            Bold + FG("#859900"),
	H4:            FG("#b58900"),
	H5:            FG("#cb4b16"),
	H6:            FG("#586e75"),
	CodeInline:    FG("#cb4b16") + BG("#073642"),
	CodeBlock:     BG("#002b36"),
	Quote:         FG("#586e75"),
	ListMarker:    FG("#6c71c4"),
	LinkText:      FG("#268bd2") + Underline,
	LinkURL:       FG("#586e75"),
	ThematicBreak: FG("#586e75"),
	TableBorder:   FG("#586e75"),
	Note:          FG("#268bd2"),
	Tip:           FG("#859900"),
	Important:     FG("#6c71c4"),
	Warning:       FG("#b58900"),
	Caution:       FG("#dc322f"),
}

var PaletteGithubLight = Palette{
	H1:            Bold + FG("#0550ae"),
	H2:            Bold + FG("#0550ae"),
	H3:            Bold + FG("#116329"),
	H4:            FG("#116329"),
	H5:            FG("#953800"),
	H6:            FG("#6e7781"),
	Text:          FG("#24292f"),
	CodeInline:    FG("#cf222e") + BG("#eaeef2"),
	CodeBlock:     BG("#f6f8fa"),
	Quote:         FG("#6e7781"),
	ListMarker:    FG("#8250df"),
	LinkText:      FG("#0969da") + Underline,
	LinkURL:       FG("#6e7781"),
	ThematicBreak: FG("#d0d7de"),
	TableBorder:   FG("#d0d7de"),
	Note:          FG("#0969da"),
	Tip:           FG("#1a7f37"),
	Important:     FG("#8250df"),
	Warning:       FG("#9a6700"),
	Caution:       FG("#cf222e"),
}

var PaletteOneDark = Palette{
	H1:            Bold + FG("#e06c75"),
	H2:            Bold + FG("#61afef"),
	H3:            Bold + FG("#c678dd"),
	H4:            FG("#98c379"),
	H5:            FG("#e5c07b"),
	H6:            FG("#5c6370"),
	CodeInline:    FG("#d19a66") + BG("#2c313c"),
	CodeBlock:     BG("#21252b"),
	Quote:         FG("#5c6370"),
	ListMarker:    FG("#c678dd"),
	LinkText:      FG("#56b6c2") + Underline,
	LinkURL:       FG("#5c6370"),
	ThematicBreak: FG("#3e4451"),
	TableBorder:   FG("#4b5263"),
	Note:          FG("#61afef"),
	Tip:           FG("#98c379"),
	Important:     FG("#c678dd"),
	Warning:       FG("#e5c07b"),
	Caution:       FG("#e06c75"),
}
