package mdriver

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// displayWidth counts terminal columns, ignoring escape sequences and
// counting wide glyphs as two.
func displayWidth(s string) int {
	return ansi.StringWidth(s)
}

func (r *renderer) cell(raw string, base string) string {
	w := r.inline(0, base)
	w.b.WriteString(base)
	w.runs(ParseInline(raw))
	if base != "" {
		w.b.WriteString(ansiReset)
	}
	return strings.ReplaceAll(w.b.String(), "\n", " ")
}

// tableWidths returns the widest rendered cell per column, at least 1.
func tableWidths(rows [][]string, cols int) []int {
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 1
	}
	for _, row := range rows {
		for i, c := range row {
			if i < cols {
				widths[i] = max(widths[i], displayWidth(c))
			}
		}
	}
	return widths
}

func alignCell(s string, width int, a Alignment) string {
	diff := width - displayWidth(s)
	if diff <= 0 {
		return s
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", diff) + s
	case AlignCenter:
		left := diff / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", diff-left)
	}
	return s + strings.Repeat(" ", diff)
}

func (r *renderer) table(t Table) string {
	cols := len(t.Header)
	if cols == 0 {
		return ""
	}
	rendered := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, cols)
	for i, c := range t.Header {
		header[i] = r.cell(c, r.styles.TableHeader.Prefix)
	}
	rendered = append(rendered, header)
	for _, row := range t.Rows {
		row = fitRow(row, cols)
		cells := make([]string, cols)
		for i, c := range row {
			cells[i] = r.cell(c, "")
		}
		rendered = append(rendered, cells)
	}
	widths := tableWidths(rendered, cols)

	var out strings.Builder
	out.WriteString(r.border("┌", "┬", "┐", widths))
	for i, row := range rendered {
		out.WriteString(r.row(row, widths, t.Align))
		if i == 0 {
			out.WriteString(r.border("├", "┼", "┤", widths))
		}
	}
	out.WriteString(r.border("└", "┴", "┘", widths))
	return out.String()
}

func (r *renderer) border(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w+2))
	}
	b.WriteString(right)
	return r.paint(r.styles.TableBorder, b.String()) + "\n"
}

func (r *renderer) row(cells []string, widths []int, align []Alignment) string {
	bar := r.paint(r.styles.TableBorder, "│")
	var b strings.Builder
	b.WriteString(bar)
	for i, c := range cells {
		a := AlignLeft
		if i < len(align) {
			a = align[i]
		}
		b.WriteByte(' ')
		b.WriteString(alignCell(c, widths[i], a))
		b.WriteByte(' ')
		b.WriteString(bar)
	}
	b.WriteByte('\n')
	return b.String()
}
