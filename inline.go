package mdriver

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RunKind tags an inline run.
type RunKind uint8

const (
	RunText RunKind = iota
	RunBold
	RunItalic
	RunBoldItalic
	RunCode
	RunStrikethrough
	RunUnderline
	RunLink
	RunImage
	RunLineBreak
)

// Run is one styled span of inline content. Text is set for RunText and
// RunCode, Target for links and images. Container runs own Children.
type Run struct {
	Kind     RunKind
	Text     string
	Target   string
	Title    string
	Alt      string
	Children []Run
}

// PlainText returns the text of runs with all styling dropped.
func PlainText(runs []Run) string {
	var b strings.Builder
	appendPlain(&b, runs)
	return b.String()
}

func appendPlain(b *strings.Builder, runs []Run) {
	for _, r := range runs {
		switch r.Kind {
		case RunText, RunCode:
			b.WriteString(r.Text)
		case RunLineBreak:
			b.WriteByte('\n')
		case RunImage:
			b.WriteString(r.Alt)
		default:
			appendPlain(b, r.Children)
		}
	}
}

// inlineItem is either a finished run or a pending delimiter: an emphasis
// run (*, _, ~) or a link opener ([, ![).
type inlineItem struct {
	run      Run
	ch       byte
	text     string
	n        int
	canOpen  bool
	canClose bool
}

func textItem(s string) inlineItem {
	return inlineItem{run: Run{Kind: RunText, Text: s}}
}

type inlineParser struct {
	s       string
	emitted int
	items   []inlineItem
	opens   []int

	// src is the outermost string; s starts at src.root[base:]. depth counts
	// enclosing inline tags.
	src   *htmlSource
	base  int
	depth int
}

func (p *inlineParser) emit(i int) {
	if p.emitted < i {
		p.items = append(p.items, textItem(p.s[p.emitted:i]))
	}
	p.emitted = i
}

func (p *inlineParser) push(it inlineItem, end int) {
	p.items = append(p.items, it)
	p.emitted = end
}

// ParseInline resolves the inline markdown in s into runs. Malformed
// syntax degrades to literal text.
func ParseInline(s string) []Run {
	return parseInline(strings.Trim(s, " \t\n"))
}

func parseInline(s string) []Run {
	return parseInlineFrom(s, &htmlSource{root: s}, 0, 0)
}

func parseInlineFrom(s string, src *htmlSource, base, depth int) []Run {
	if s == "" {
		return nil
	}
	p := inlineParser{s: s, src: src, base: base, depth: depth}
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			if i+1 < len(s) && s[i+1] == '\n' {
				p.emit(i)
				p.push(inlineItem{run: Run{Kind: RunLineBreak}}, i+2)
				i = skipLeadingSpace(s, i+2)
				p.emitted = i
				continue
			}
			if i+1 < len(s) && isPunct(s[i+1]) {
				p.emit(i)
				p.push(textItem(s[i+1:i+2]), i+2)
				i += 2
				continue
			}
		case '`':
			if run, end, ok := parseCodeSpan(s, i); ok {
				p.emit(i)
				p.push(inlineItem{run: run}, end)
				i = end
				continue
			}
			j := i
			for j < len(s) && s[j] == '`' {
				j++
			}
			i = j
			continue
		case '<':
			if runs, end, ok := p.angle(i); ok {
				p.emit(i)
				for _, r := range runs {
					p.items = append(p.items, inlineItem{run: r})
				}
				p.emitted = end
				i = end
				continue
			}
		case '&':
			if text, end, ok := decodeEntityAt(s, i); ok {
				p.emit(i)
				p.push(textItem(text), end)
				i = end
				continue
			}
		case '[':
			p.emit(i)
			p.opens = append(p.opens, len(p.items))
			p.push(inlineItem{ch: '[', text: "["}, i+1)
			i++
			continue
		case '!':
			if i+1 < len(s) && s[i+1] == '[' {
				p.emit(i)
				p.opens = append(p.opens, len(p.items))
				p.push(inlineItem{ch: '!', text: "!["}, i+2)
				i += 2
				continue
			}
		case ']':
			if end, ok := p.closeBracket(i); ok {
				i = end
				continue
			}
		case '*', '_', '~':
			it, end := parseDelimiterRun(s, i)
			p.emit(i)
			p.push(it, end)
			i = end
			continue
		case '\n':
			start := i
			for start > p.emitted && s[start-1] == ' ' {
				start--
			}
			p.emit(start)
			if i-start >= 2 {
				p.push(inlineItem{run: Run{Kind: RunLineBreak}}, i+1)
			} else {
				p.push(textItem(" "), i+1)
			}
			i = skipLeadingSpace(s, i+1)
			p.emitted = i
			continue
		}
		i++
	}
	p.emit(len(s))
	return emphasize(p.items)
}

// nested parses the content of an inline tag found at s[off:].
func (p *inlineParser) nested(inner string, off int) []Run {
	return parseInlineFrom(inner, p.src, p.base+off, p.depth+1)
}

func skipLeadingSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// closeBracket tries to turn the innermost open bracket and the text after
// it into a link or image.
func (p *inlineParser) closeBracket(i int) (int, bool) {
	if len(p.opens) == 0 {
		return 0, false
	}
	oi := p.opens[len(p.opens)-1]
	p.opens = p.opens[:len(p.opens)-1]
	open := p.items[oi]
	dest, title, end, ok := parseLinkTail(p.s, i+1)
	if !ok {
		return 0, false
	}
	p.emit(i)
	children := emphasize(p.items[oi+1:])
	var run Run
	if open.ch == '!' {
		run = Run{Kind: RunImage, Target: dest, Title: title, Alt: PlainText(children)}
	} else {
		run = Run{Kind: RunLink, Target: dest, Title: title, Children: children}
		// Links do not nest.
		for k, idx := range p.opens {
			if p.items[idx].ch == '[' {
				p.items[idx].ch = 0
				p.items[idx].run = textItem("[").run
				p.opens[k] = -1
			}
		}
		kept := p.opens[:0]
		for _, idx := range p.opens {
			if idx >= 0 {
				kept = append(kept, idx)
			}
		}
		p.opens = kept
	}
	p.items = append(p.items[:oi], inlineItem{run: run})
	p.emitted = end
	return end, true
}

// parseLinkTail parses `(dest "title")` starting at i.
func parseLinkTail(s string, i int) (string, string, int, bool) {
	if i >= len(s) || s[i] != '(' {
		return "", "", 0, false
	}
	i = skipSpaceNL(s, i+1)
	var dest string
	if i < len(s) && s[i] == '<' {
		j := strings.IndexAny(s[i+1:], ">\n")
		if j < 0 || s[i+1+j] != '>' {
			return "", "", 0, false
		}
		dest = s[i+1 : i+1+j]
		i += j + 2
	} else {
		start := i
		depth := 0
	scan:
		for i < len(s) {
			switch c := s[i]; {
			case c == '\\' && i+1 < len(s) && isPunct(s[i+1]):
				i += 2
				continue
			case c == '(':
				depth++
			case c == ')':
				if depth == 0 {
					break scan
				}
				depth--
			case c == ' ' || c == '\t' || c == '\n' || c < 0x20:
				break scan
			}
			i++
		}
		dest = s[start:i]
	}
	i = skipSpaceNL(s, i)
	var title string
	if i < len(s) && (s[i] == '"' || s[i] == '\'' || s[i] == '(') {
		closer := s[i]
		if closer == '(' {
			closer = ')'
		}
		j := i + 1
		for j < len(s) && s[j] != closer {
			if s[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(s) {
			return "", "", 0, false
		}
		title = decodeEntities(unescapePunct(s[i+1 : j]))
		i = skipSpaceNL(s, j+1)
	}
	if i >= len(s) || s[i] != ')' {
		return "", "", 0, false
	}
	return decodeEntities(unescapePunct(dest)), title, i + 1, true
}

func skipSpaceNL(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

func unescapePunct(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// parseCodeSpan matches a backtick run at i with the next run of the same
// length. Content is taken verbatim.
func parseCodeSpan(s string, i int) (Run, int, bool) {
	j := i
	for j < len(s) && s[j] == '`' {
		j++
	}
	n := j - i
	for k := j; k < len(s); {
		if s[k] != '`' {
			k++
			continue
		}
		e := k
		for e < len(s) && s[e] == '`' {
			e++
		}
		if e-k == n {
			text := strings.ReplaceAll(s[j:k], "\n", " ")
			if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "" {
				text = text[1 : len(text)-1]
			}
			return Run{Kind: RunCode, Text: text}, e, true
		}
		k = e
	}
	return Run{}, 0, false
}

func parseDelimiterRun(s string, i int) (inlineItem, int) {
	c := s[i]
	j := i + 1
	for j < len(s) && s[j] == c {
		j++
	}
	n := j - i
	if c == '~' && n != 2 {
		return textItem(s[i:j]), j
	}

	before, after := ' ', ' '
	if i > 0 {
		before, _ = utf8.DecodeLastRuneInString(s[:i])
	}
	if j < len(s) {
		after, _ = utf8.DecodeRuneInString(s[j:])
	}
	leftFlank := !isUnicodeSpace(after) &&
		(!isUnicodePunct(after) || isUnicodeSpace(before) || isUnicodePunct(before))
	rightFlank := !isUnicodeSpace(before) &&
		(!isUnicodePunct(before) || isUnicodeSpace(after) || isUnicodePunct(after))

	it := inlineItem{ch: c, text: s[i:j], n: n}
	if c == '_' {
		it.canOpen = leftFlank && (!rightFlank || isUnicodePunct(before))
		it.canClose = rightFlank && (!leftFlank || isUnicodePunct(after))
	} else {
		it.canOpen = leftFlank
		it.canClose = rightFlank
	}
	return it, j
}

// emphasize pairs delimiter runs in items and returns the resulting runs.
// Unmatched delimiters and link openers become literal text.
func emphasize(items []inlineItem) []Run {
	dst := make([]inlineItem, 0, len(items))
	var stack []int
	for _, it := range items {
		if it.ch == '[' || it.ch == '!' {
			dst = append(dst, textItem(it.text))
			continue
		}
		if it.ch == 0 {
			dst = append(dst, it)
			continue
		}
		if it.canClose {
			for it.text != "" {
				found := -1
				for k := len(stack) - 1; k >= 0; k-- {
					o := dst[stack[k]]
					if o.ch != it.ch {
						continue
					}
					if (o.canOpen && o.canClose || it.canOpen && it.canClose) &&
						(o.n+it.n)%3 == 0 && (o.n%3 != 0 || it.n%3 != 0) && it.ch != '~' {
						continue
					}
					found = k
					break
				}
				if found < 0 {
					break
				}
				oi := stack[found]
				o := &dst[oi]
				d := 1
				if len(o.text) >= 2 && len(it.text) >= 2 {
					d = 2
				}
				kind := RunItalic
				switch {
				case it.ch == '~':
					kind = RunStrikethrough
				case d == 2:
					kind = RunBold
				}
				run := Run{Kind: kind, Children: toRuns(dst[oi+1:])}
				o.text = o.text[:len(o.text)-d]
				it.text = it.text[d:]
				stack = stack[:found]
				if o.text == "" {
					dst = dst[:oi]
				} else {
					dst = dst[:oi+1]
					stack = append(stack, oi)
				}
				dst = append(dst, inlineItem{run: collapse(run)})
			}
		}
		if it.text == "" {
			continue
		}
		if it.canOpen {
			stack = append(stack, len(dst))
			dst = append(dst, it)
			continue
		}
		dst = append(dst, textItem(it.text))
	}
	return toRuns(dst)
}

// collapse folds bold wrapping only italic (or the reverse) into one
// bold-italic run.
func collapse(r Run) Run {
	if len(r.Children) != 1 {
		return r
	}
	c := r.Children[0]
	if c.Kind == r.Kind && r.Kind != RunLink && r.Kind != RunImage {
		return c
	}
	if (r.Kind == RunBold && c.Kind == RunItalic) || (r.Kind == RunItalic && c.Kind == RunBold) {
		return Run{Kind: RunBoldItalic, Children: c.Children}
	}
	return r
}

func toRuns(items []inlineItem) []Run {
	runs := make([]Run, 0, len(items))
	for _, it := range items {
		r := it.run
		if it.ch != 0 {
			r = Run{Kind: RunText, Text: it.text}
		}
		if r.Kind == RunText {
			if r.Text == "" {
				continue
			}
			if n := len(runs); n > 0 && runs[n-1].Kind == RunText {
				runs[n-1].Text += r.Text
				continue
			}
		}
		runs = append(runs, r)
	}
	return runs
}

func isPunct(c byte) bool {
	return '!' <= c && c <= '/' || ':' <= c && c <= '@' || '[' <= c && c <= '`' || '{' <= c && c <= '~'
}

func isUnicodeSpace(r rune) bool {
	if r < 0x80 {
		return r == ' ' || r == '\t' || r == '\n'
	}
	return unicode.In(r, unicode.Zs)
}

func isUnicodePunct(r rune) bool {
	if r < 0x80 {
		return isPunct(byte(r))
	}
	return unicode.In(r, unicode.Punct, unicode.S)
}

func isEmailAutolink(text string) bool {
	if text == "" || strings.ContainsAny(text, " \t\r\n<>") {
		return false
	}
	if strings.Contains(text, ":") {
		return false
	}
	at := strings.IndexByte(text, '@')
	if at <= 0 || at == len(text)-1 {
		return false
	}
	return strings.Count(text, "@") == 1
}

func isSchemeAutolink(text string) bool {
	if text == "" || strings.ContainsAny(text, " \t\r\n<>") {
		return false
	}
	colon := strings.IndexByte(text, ':')
	if colon < 2 || colon > 32 {
		return false
	}
	return isScheme(text[:colon])
}

func isScheme(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return false
			}
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.' {
			continue
		}
		return false
	}
	return len(s) > 0
}
