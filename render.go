package mdriver

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const defaultRuleWidth = 40

type renderer struct {
	styles      Styles
	osc8        bool
	width       int
	highlighter Highlighter
	images      *imageRenderer
	logger      zerolog.Logger
}

func newRenderer(cfg renderConfig, hl Highlighter) *renderer {
	theme := cfg.theme
	if theme == nil {
		theme = DefaultTheme()
	}
	return &renderer{
		styles:      theme.Styles(),
		osc8:        cfg.osc8,
		width:       cfg.width,
		highlighter: hl,
		images:      newImageRenderer(cfg),
		logger:      cfg.logger,
	}
}

// block renders b at width columns. The result always ends with a newline.
func (r *renderer) block(b Block, width int) string {
	switch b := b.(type) {
	case Heading:
		return r.heading(b, width)
	case Paragraph:
		return r.paragraph(b, width)
	case CodeBlock:
		return r.codeBlock(b)
	case List:
		return r.list(b, width, 0)
	case Blockquote:
		return r.blockquote(b, width)
	case Callout:
		return r.callout(b, width)
	case Table:
		return r.table(b)
	case ThematicBreak:
		return r.rule(width)
	}
	return ""
}

// blocks renders a sequence of blocks, separated by a blank line when loose.
func (r *renderer) blocks(bs []Block, width int, loose bool) string {
	var out strings.Builder
	for i, b := range bs {
		if i > 0 && loose {
			out.WriteByte('\n')
		}
		out.WriteString(r.block(b, width))
	}
	return out.String()
}

func (r *renderer) heading(h Heading, width int) string {
	level := h.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	base := r.styles.Heading[level-1].Prefix
	w := r.inline(width, base)
	w.b.WriteString(base)
	w.b.WriteString(strings.Repeat("#", level))
	w.b.WriteByte(' ')
	w.runs(ParseInline(h.Text))
	if base != "" {
		w.b.WriteString(ansiReset)
	}
	return wrapText(w.b.String(), "", strings.Repeat(" ", level+1), width) + "\n"
}

func (r *renderer) paragraph(p Paragraph, width int) string {
	base := r.styles.Text.Prefix
	w := r.inline(width, base)
	w.b.WriteString(base)
	w.runs(ParseInline(strings.Join(p.Lines, "\n")))
	if base != "" {
		w.b.WriteString(ansiReset)
	}
	return wrapText(w.b.String(), "", "", width) + "\n"
}

func (r *renderer) rule(width int) string {
	n := width
	if n <= 0 {
		n = defaultRuleWidth
	}
	return r.paint(r.styles.ThematicBreak, strings.Repeat("─", n)) + "\n"
}

// paint wraps text in style, followed by a reset when the style is set.
func (r *renderer) paint(s Style, text string) string {
	if s.Prefix == "" {
		return text
	}
	return s.Prefix + text + ansiReset
}

func (r *renderer) list(l List, width, depth int) string {
	indent := "  "
	if depth > 0 {
		indent = ""
	}
	var out strings.Builder
	for i, item := range l.Items {
		if i > 0 && l.Loose {
			out.WriteByte('\n')
		}
		marker := "•"
		if l.Ordered {
			marker = strconv.Itoa(l.Start+i) + "."
		}
		switch item.Task {
		case TaskOpen:
			marker = "☐"
		case TaskDone:
			marker = "☑"
		}
		hang := strings.Repeat(" ", len(indent)+displayWidth(marker)+1)
		first := indent + r.paint(r.styles.ListMarker, marker) + " "
		inner := width
		if inner > 0 {
			inner = max(width-len(hang), 1)
		}
		body := r.itemBody(item, inner, depth, l.Loose)
		out.WriteString(prefixLines(body, first, hang, ""))
	}
	return out.String()
}

func (r *renderer) itemBody(item ListItem, width, depth int, loose bool) string {
	var out strings.Builder
	for i, b := range item.Blocks {
		if i > 0 && loose {
			out.WriteByte('\n')
		}
		if l, ok := b.(List); ok {
			out.WriteString(r.list(l, width, depth+1))
			continue
		}
		out.WriteString(r.block(b, width))
	}
	if out.Len() == 0 {
		return "\n"
	}
	return out.String()
}

func (r *renderer) blockquote(q Blockquote, width int) string {
	inner := width
	if inner > 0 {
		inner = max(width-2, 1)
	}
	bar := r.paint(r.styles.Quote, ">")
	return prefixLines(r.blocks(q.Blocks, inner, true), bar+" ", bar+" ", bar)
}

func (r *renderer) callout(c Callout, width int) string {
	inner := width
	if inner > 0 {
		inner = max(width-2, 1)
	}
	st := r.styles.Callout[c.Callout]
	bar := r.paint(st, "▌")
	header := r.paint(st, "▌ "+c.Callout.String()) + "\n"
	if len(c.Blocks) == 0 {
		return header
	}
	return header + prefixLines(r.blocks(c.Blocks, inner, true), bar+" ", bar+" ", bar)
}

// prefixLines puts first before the first line of body and rest before
// every other line. Empty lines get blank instead.
func prefixLines(body, first, rest, blank string) string {
	body = strings.TrimSuffix(body, "\n")
	var out strings.Builder
	for i, line := range strings.Split(body, "\n") {
		switch {
		case i == 0:
			if line == "" {
				out.WriteString(strings.TrimRight(first, " "))
			} else {
				out.WriteString(first)
				out.WriteString(line)
			}
		case line == "":
			out.WriteString(blank)
		default:
			out.WriteString(rest)
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}
	return out.String()
}

// inlineWriter renders runs while tracking the stack of open style
// prefixes, so the enclosing styles can be restored after every reset.
type inlineWriter struct {
	r     *renderer
	b     strings.Builder
	stack []string
	width int
}

func (r *renderer) inline(width int, base string) *inlineWriter {
	w := &inlineWriter{r: r, width: width}
	if base != "" {
		w.stack = append(w.stack, base)
	}
	return w
}

func (w *inlineWriter) styled(prefix string, fn func()) {
	if prefix == "" {
		fn()
		return
	}
	w.b.WriteString(prefix)
	w.stack = append(w.stack, prefix)
	fn()
	w.stack = w.stack[:len(w.stack)-1]
	w.b.WriteString(ansiReset)
	for _, p := range w.stack {
		w.b.WriteString(p)
	}
}

func (w *inlineWriter) text(prefix, s string) {
	w.styled(prefix, func() { w.b.WriteString(s) })
}

func (w *inlineWriter) runs(runs []Run) {
	for _, run := range runs {
		w.run(run)
	}
}

func (w *inlineWriter) run(run Run) {
	st := w.r.styles
	children := func() { w.runs(run.Children) }
	switch run.Kind {
	case RunText:
		w.b.WriteString(run.Text)
	case RunBold:
		w.styled(st.Strong.Prefix, children)
	case RunItalic:
		w.styled(st.Emphasis.Prefix, children)
	case RunBoldItalic:
		w.styled(st.EmphasisStrong.Prefix, children)
	case RunStrikethrough:
		w.styled(st.Strikethrough.Prefix, children)
	case RunUnderline:
		w.styled(st.Underline.Prefix, children)
	case RunCode:
		w.text(st.CodeInline.Prefix, " "+run.Text+" ")
	case RunLineBreak:
		w.b.WriteByte('\n')
	case RunLink:
		w.link(run)
	case RunImage:
		w.image(run)
	}
}

func (w *inlineWriter) link(run Run) {
	st := w.r.styles
	if w.r.osc8 {
		w.b.WriteString(osc8Start + run.Target + osc8ST)
		w.styled(st.LinkText.Prefix, func() { w.runs(run.Children) })
		w.b.WriteString(osc8End)
		return
	}
	w.styled(st.LinkText.Prefix, func() { w.runs(run.Children) })
	if text := PlainText(run.Children); run.Target == "" || text == run.Target || "mailto:"+text == run.Target {
		return
	}
	w.b.WriteString(" (")
	w.text(st.LinkURL.Prefix, fitURL(run.Target, w.width-2))
	w.b.WriteByte(')')
}

func (w *inlineWriter) image(run Run) {
	if w.r.images.protocol == ImageNone {
		w.b.WriteString("![" + run.Alt + "](" + run.Target + ")")
		return
	}
	if seq, ok := w.r.images.render(run.Target, w.width); ok {
		w.b.WriteString("\n" + seq + "\n")
		return
	}
	w.b.WriteString(run.Alt)
}
