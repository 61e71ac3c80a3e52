package mdriver

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// escapeLen returns the length of the escape sequence at s[i] == ESC:
// CSI, OSC (BEL or ST terminated), APC and DCS (ST terminated), or a
// two-byte escape.
func escapeLen(s string, i int) int {
	if i+1 >= len(s) {
		return 1
	}
	switch s[i+1] {
	case '[':
		for j := i + 2; j < len(s); j++ {
			if s[j] >= 0x40 && s[j] <= 0x7E {
				return j - i + 1
			}
		}
		return len(s) - i
	case ']', '_', 'P':
		for j := i + 2; j < len(s); j++ {
			if s[j] == 0x07 && s[i+1] == ']' {
				return j - i + 1
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return j - i + 2
			}
		}
		return len(s) - i
	}
	return 2
}

// sgrBackground reports whether a background color is active after seq,
// given the state before it. Sequences other than SGR leave it unchanged.
func sgrBackground(seq string, active bool) bool {
	if len(seq) < 3 || seq[1] != '[' || seq[len(seq)-1] != 'm' {
		return active
	}
	params := strings.Split(seq[2:len(seq)-1], ";")
	for k := 0; k < len(params); k++ {
		switch p := params[k]; p {
		case "", "0", "49":
			active = false
		case "38", "48", "58":
			if p == "48" {
				active = true
			}
			if k+1 < len(params) && params[k+1] == "5" {
				k += 2
			} else if k+1 < len(params) && params[k+1] == "2" {
				k += 4
			}
		default:
			if n, err := strconv.Atoi(p); err == nil && (n >= 40 && n <= 47 || n >= 100 && n <= 107) {
				active = true
			}
		}
	}
	return active
}

type wrapper struct {
	out       strings.Builder
	width     int
	rest      string
	restWidth int
	col       int
	lineStart int
	lineWord  bool
	sgr       string
	link      string
	gap       strings.Builder
	gapEsc    strings.Builder
	gapWidth  int
}

// wrapText greedily packs the words of s into lines of at most width
// columns. The first line starts with firstIndent and the rest with
// restIndent. Styles and hyperlinks open at a break are closed before it
// and reopened after the indent. A width of zero or less only indents.
func wrapText(s, firstIndent, restIndent string, width int) string {
	w := wrapper{width: width, rest: restIndent, restWidth: ansi.StringWidth(restIndent)}
	w.out.Grow(len(s) + len(firstIndent) + 16)
	w.out.WriteString(firstIndent)
	w.col = ansi.StringWidth(firstIndent)
	w.lineStart = w.col

	// Spaces under an active background, like the padding of a code span,
	// belong to the word around them and never break.
	bg := false
	i := 0
	for i < len(s) {
		switch {
		case s[i] == '\n':
			w.dropGap()
			w.newline()
			i++
		case s[i] == ' ' && !bg:
			w.gap.WriteByte(' ')
			w.gapWidth++
			i++
		default:
			j := i
			for j < len(s) && s[j] != '\n' && (s[j] != ' ' || bg) {
				if s[j] == 0x1b {
					n := escapeLen(s, j)
					bg = sgrBackground(s[j:j+n], bg)
					j += n
					continue
				}
				j++
			}
			w.word(s[i:j])
			i = j
		}
	}
	w.dropGap()
	return w.out.String()
}

func (w *wrapper) word(word string) {
	ww := ansi.StringWidth(word)
	if ww == 0 {
		w.gap.WriteString(word)
		w.gapEsc.WriteString(word)
		return
	}
	if w.width > 0 && w.lineWord && w.col+w.gapWidth+ww > w.width {
		w.dropGap()
		w.newline()
	} else {
		w.flushGap()
	}
	if w.width > 0 && w.col+ww > w.width {
		w.split(word)
	} else {
		w.write(word)
		w.col += ww
	}
	w.lineWord = true
}

// split writes a word that cannot fit on one line, breaking between runes.
func (w *wrapper) split(word string) {
	for i := 0; i < len(word); {
		if word[i] == 0x1b {
			n := escapeLen(word, i)
			w.write(word[i : i+n])
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(word[i:])
		rw := runewidth.RuneWidth(r)
		if w.col+rw > w.width && w.col > w.lineStart {
			w.newline()
		}
		w.out.WriteString(word[i : i+size])
		w.col += rw
		i += size
	}
}

// write copies s to the output and tracks the SGR and hyperlink state of
// every escape in it.
func (w *wrapper) write(s string) {
	w.out.WriteString(s)
	for i := strings.IndexByte(s, 0x1b); i >= 0 && i < len(s); {
		n := escapeLen(s, i)
		w.track(s[i : i+n])
		next := strings.IndexByte(s[i+n:], 0x1b)
		if next < 0 {
			break
		}
		i += n + next
	}
}

func (w *wrapper) track(seq string) {
	switch {
	case strings.HasPrefix(seq, "\x1b[") && strings.HasSuffix(seq, "m"):
		if seq == ansiReset || seq == "\x1b[m" {
			w.sgr = ""
			return
		}
		w.sgr += seq
	case strings.HasPrefix(seq, osc8Start[:4]):
		body := strings.TrimSuffix(strings.TrimSuffix(seq, "\x1b\\"), "\a")
		if strings.HasSuffix(body, ";") {
			w.link = ""
			return
		}
		w.link = seq
	}
}

func (w *wrapper) flushGap() {
	if w.gap.Len() > 0 {
		w.write(w.gap.String())
		w.col += w.gapWidth
	}
	w.resetGap()
}

// dropGap discards pending spaces but keeps their escapes.
func (w *wrapper) dropGap() {
	if w.gapEsc.Len() > 0 {
		w.write(w.gapEsc.String())
	}
	w.resetGap()
}

func (w *wrapper) resetGap() {
	w.gap.Reset()
	w.gapEsc.Reset()
	w.gapWidth = 0
}

func (w *wrapper) newline() {
	if w.sgr != "" {
		w.out.WriteString(ansiReset)
	}
	if w.link != "" {
		w.out.WriteString(osc8End)
	}
	w.out.WriteByte('\n')
	w.out.WriteString(w.rest)
	if w.link != "" {
		w.out.WriteString(w.link)
	}
	if w.sgr != "" {
		w.out.WriteString(w.sgr)
	}
	w.col = w.restWidth
	w.lineStart = w.col
	w.lineWord = false
}
