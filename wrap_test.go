package mdriver

import (
	"strings"
	"testing"
)

func TestWrapText(t *testing.T) {
	t.Parallel()
	link := osc8Start + "u" + osc8ST
	tests := []struct {
		name        string
		in          string
		first, rest string
		width       int
		want        string
	}{
		{
			name:  "greedy",
			in:    "alpha beta gamma",
			width: 10,
			want:  "alpha beta\ngamma",
		},
		{
			name:  "indents count toward width",
			in:    "one two three",
			first: "> ", rest: "> ",
			width: 9,
			want:  "> one two\n> three",
		},
		{
			name:  "style reopened after break",
			in:    "\x1b[1mbold words here\x1b[0m",
			width: 10,
			want:  "\x1b[1mbold words\x1b[0m\n\x1b[1mhere\x1b[0m",
		},
		{
			name:  "hyperlink closed and reopened",
			in:    link + "aa bb" + osc8End,
			width: 3,
			want:  link + "aa" + osc8End + "\n" + link + "bb" + osc8End,
		},
		{
			name:  "overlong word split",
			in:    "abcdefghij",
			width: 4,
			want:  "abcd\nefgh\nij",
		},
		{
			name:  "wide runes",
			in:    "日本語テキスト",
			width: 6,
			want:  "日本語\nテキス\nト",
		},
		{
			name:  "zero width only indents",
			in:    "a b\nc",
			first: "  ", rest: "    ",
			want: "  a b\n    c",
		},
		{
			name:  "escape between words survives the break",
			in:    "x \x1b[0m y",
			width: 3,
			want:  "x\x1b[0m\ny",
		},
		{
			name:  "background span keeps its padding after a break",
			in:    "\x1b[38;5;167;48;5;235m code \x1b[0m and more",
			width: 8,
			want:  "\x1b[38;5;167;48;5;235m code \x1b[0m\nand more",
		},
		{
			name:  "background span moves whole to the next line",
			in:    "aaaa \x1b[48;5;235m x y \x1b[0m b",
			width: 8,
			want:  "aaaa\n\x1b[48;5;235m x y \x1b[0m b",
		},
		{
			name:  "trailing spaces dropped",
			in:    "a   ",
			width: 10,
			want:  "a",
		},
	}
	for _, tc := range tests {
		if got := wrapText(tc.in, tc.first, tc.rest, tc.width); got != tc.want {
			t.Fatalf("%s: wrapText(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSGRBackground(t *testing.T) {
	t.Parallel()
	tests := []struct {
		seq    string
		before bool
		want   bool
	}{
		{"\x1b[48;5;235m", false, true},
		{"\x1b[38;5;167;48;5;235m", false, true},
		{"\x1b[48;2;40;42;54m", false, true},
		{"\x1b[44m", false, true},
		{"\x1b[38;5;44m", false, false},
		{"\x1b[38;2;1;42;3m", false, false},
		{"\x1b[1m", true, true},
		{"\x1b[0m", true, false},
		{"\x1b[m", true, false},
		{"\x1b[49m", true, false},
		{osc8End, true, true},
	}
	for _, tc := range tests {
		if got := sgrBackground(tc.seq, tc.before); got != tc.want {
			t.Fatalf("sgrBackground(%q, %v) = %v, want %v", tc.seq, tc.before, got, tc.want)
		}
	}
}

func TestEscapeLen(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s    string
		want int
	}{
		{"\x1b[1;34mx", 7},
		{"\x1b]8;;u\ax", 7},
		{"\x1b]8;;u\x1b\\x", 8},
		{"\x1b_Ga=T\x1b\\", 8},
		{"\x1b7x", 2},
		{"\x1b", 1},
	}
	for _, tc := range tests {
		if got := escapeLen(tc.s, 0); got != tc.want {
			t.Fatalf("escapeLen(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}

func TestFitURL(t *testing.T) {
	t.Parallel()
	long := "https://example.com/very/long"
	if got := fitURL(long, 0); got != long {
		t.Fatalf("no limit: %q", got)
	}
	if got := fitURL("https://a.io/x", 10); got != "a.io/x" {
		t.Fatalf("scheme drop: %q", got)
	}
	if got := fitURL(long, 20); got != "example.com/very/lo…" {
		t.Fatalf("truncate: %q", got)
	}
	if got := truncateWithEllipsis("abc", 1); got != "…" {
		t.Fatalf("limit 1: %q", got)
	}
	if got := truncateWithEllipsis("abc", 0); got != "" {
		t.Fatalf("limit 0: %q", got)
	}
}

func TestHeadingWrapHangsUnderText(t *testing.T) {
	t.Parallel()
	src := "# This is a long header\n\n## This is an even longer header\n\n### This is a super-long header\n"
	got := stripANSI(renderStream(t, []byte(src), 12))
	want := "# This is a\n  long\n  header\n\n" +
		"## This is\n   an even\n   longer\n   header\n\n" +
		"### This is\n    a\n    super-lo\n    ng\n    header\n"
	if got != want {
		t.Fatalf("heading wrap mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestNestedListWrapKeepsHangIndent(t *testing.T) {
	t.Parallel()
	src := "- Inputs:\n\n" +
		"  - If a user-facing function or interface method takes more than 4 parameters total " +
		"(including context.Context), move non-ctx inputs into a request struct (e.g.\n" +
		"    FooRequest).\n"
	got := stripANSI(renderStream(t, []byte(src), 60))
	want := strings.Join([]string{
		"  • Inputs:",
		"",
		"    • If a user-facing function or interface method takes",
		"      more than 4 parameters total (including",
		"      context.Context), move non-ctx inputs into a request",
		"      struct (e.g. FooRequest).",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("nested list wrap mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestProseStaysWithinWidth(t *testing.T) {
	t.Parallel()
	src := "# A heading that is long enough to need wrapping at narrow widths\n\n" +
		"Paragraph text with **bold words**, *italics*, `code spans` and a " +
		"[link](https://example.com/a/rather/long/path/to/somewhere) that all need to fit.\n\n" +
		"- A list item that goes on for a while before it stops\n" +
		"  - A nested item with its own long line of text to wrap\n" +
		"1. Ordered item text that is also long enough to wrap around\n\n" +
		"> A quoted paragraph that keeps going and going past the edge\n\n" +
		"> [!NOTE]\n> A callout body that is long enough to wrap as well.\n\n" +
		"Supercalifragilisticexpialidocious-and-then-some-more-letters\n"
	for _, width := range []int{20, 33, 47, 60} {
		out := stripANSI(renderBoring(t, src, width))
		for _, line := range strings.Split(out, "\n") {
			if w := displayWidth(line); w > width {
				t.Fatalf("width %d: line %q is %d columns", width, line, w)
			}
		}
	}
}
