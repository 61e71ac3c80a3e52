package mdriver

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// SGR codes that end one attribute without clearing the code background.
const (
	fgDefault    = "\x1b[39m"
	boldOff      = "\x1b[22m"
	italicOff    = "\x1b[23m"
	underlineOff = "\x1b[24m"
)

// expandTabs replaces tabs with spaces up to the next 4-column stop.
func expandTabs(s string, currentWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var result strings.Builder
	width := currentWidth
	for _, r := range s {
		if r == '\t' {
			spaces := 4 - (width % 4)
			result.WriteString(strings.Repeat(" ", spaces))
			width += spaces
		} else {
			result.WriteRune(r)
			width += runewidth.RuneWidth(r)
		}
	}
	return result.String()
}

// codeBlockWidth is the padded width of a code block whose widest line,
// including its leading space, is widest columns.
func codeBlockWidth(widest int) int {
	switch {
	case widest <= 5:
		return widest + 2
	case widest < 10:
		return 10
	}
	return widest
}

func (r *renderer) codeBlock(cb CodeBlock) string {
	lines := cb.Lines
	if len(lines) == 0 {
		lines = []string{""}
	}
	expanded := make([]string, len(lines))
	widest := 0
	for i, line := range lines {
		expanded[i] = expandTabs(line, 1)
		if w := runewidth.StringWidth(" " + expanded[i]); w > widest {
			widest = w
		}
	}
	width := codeBlockWidth(widest)

	bg := r.styles.CodeBlock.Prefix
	var spanLines [][]Span
	if bg == "" {
		spanLines = splitSpanLines(plainSpans(expanded))
	} else {
		spanLines = splitSpanLines(r.highlight(strings.Join(expanded, "\n"), cb.Language))
	}

	var b strings.Builder
	for i, line := range expanded {
		b.WriteString(bg)
		b.WriteByte(' ')
		if i < len(spanLines) {
			for _, s := range spanLines[i] {
				writeSpan(&b, s)
			}
		} else {
			b.WriteString(line)
		}
		if pad := width - runewidth.StringWidth(" "+line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		if bg != "" {
			b.WriteString(ansiReset)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *renderer) highlight(code, language string) []Span {
	if code == "" {
		return nil
	}
	spans, err := r.highlighter.Highlight(code, language)
	if err != nil {
		r.logger.Debug().Err(err).Str("language", language).Msg("highlight failed, rendering plain")
		return []Span{{Text: code}}
	}
	return spans
}

func plainSpans(lines []string) []Span {
	return []Span{{Text: strings.Join(lines, "\n")}}
}

// splitSpanLines cuts spans at newlines so every line can be framed with
// its own background and reset.
func splitSpanLines(spans []Span) [][]Span {
	out := [][]Span{nil}
	for _, s := range spans {
		parts := strings.Split(s.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, nil)
			}
			if part == "" {
				continue
			}
			piece := s
			piece.Text = part
			out[len(out)-1] = append(out[len(out)-1], piece)
		}
	}
	return out
}

func writeSpan(b *strings.Builder, s Span) {
	if s.HasColor {
		fmt.Fprintf(b, "\x1b[38;2;%d;%d;%dm", s.Color.R, s.Color.G, s.Color.B)
	}
	if s.Bold {
		b.WriteString("\x1b[1m")
	}
	if s.Italic {
		b.WriteString("\x1b[3m")
	}
	if s.Underline {
		b.WriteString("\x1b[4m")
	}
	b.WriteString(s.Text)
	if s.Underline {
		b.WriteString(underlineOff)
	}
	if s.Italic {
		b.WriteString(italicOff)
	}
	if s.Bold {
		b.WriteString(boldOff)
	}
	if s.HasColor {
		b.WriteString(fgDefault)
	}
}
