package mdriver

import (
	"strings"
	"testing"
)

func TestRenderBoringBlocks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		src   string
		width int
		want  string
	}{
		{"heading then paragraph", "# A\n\npara\n", 0, "# A\n\npara\n"},
		{"soft break joins lines", "one\ntwo\n", 0, "one two\n"},
		{"hard break", "one  \ntwo\n", 0, "one\ntwo\n"},
		{"bullet list", "- one\n- two\n", 0, "  • one\n  • two\n"},
		{"ordered start", "3. a\n4. b\n", 0, "  3. a\n  4. b\n"},
		{"tasks", "- [ ] todo\n- [x] done\n", 0, "  ☐ todo\n  ☑ done\n"},
		{"nested list", "- a\n  - b\n- c\n", 0, "  • a\n    • b\n  • c\n"},
		{"loose list", "- a\n\n- b\n", 0, "  • a\n\n  • b\n"},
		{"list item wraps under text", "- alpha beta gamma\n", 12, "  • alpha\n    beta\n    gamma\n"},
		{"quote keeps blank separator", "> one\n>\n> two\n", 0, "> one\n>\n> two\n"},
		{"nested quote", "> > deep\n", 0, "> > deep\n"},
		{"quote wraps inside bar", "> aaa bbb ccc\n", 9, "> aaa bbb\n> ccc\n"},
		{"callout", "> [!WARNING]\n> Careful now.\n", 0, "▌ Warning\n▌ Careful now.\n"},
		{"empty callout", "> [!NOTE]\n", 0, "▌ Note\n"},
		{"rule at width", "---\n", 10, "──────────\n"},
		{"rule without width", "***\n", 0, strings.Repeat("─", 40) + "\n"},
		{"image without protocol", "![alt](x.png)\n", 0, "![alt](x.png)\n"},
		{"link shows target", "[site](https://example.com)\n", 0, "site (https://example.com)\n"},
		{"autolink shows once", "<https://a.b>\n", 0, "https://a.b\n"},
		{"email autolink", "<me@x.org>\n", 0, "me@x.org\n"},
		{"entity in paragraph", "a &lt; b\n", 0, "a < b\n"},
		{"setext", "Title\n===\n", 0, "# Title\n"},
		{"blocks separated by one blank line", "# A\n- b\n\n\n\npara\n", 0, "# A\n\n  • b\n\npara\n"},
	}
	for _, tc := range tests {
		if got := renderBoring(t, tc.src, tc.width); got != tc.want {
			t.Fatalf("%s\nwant: %q\n got: %q", tc.name, tc.want, got)
		}
	}
}

func TestRenderDefaultThemeInline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		osc8 bool
		want string
	}{
		{
			name: "link without osc8",
			src:  "[site](https://example.com)\n",
			want: "\x1b[34;4msite\x1b[0m (\x1b[38;5;245mhttps://example.com\x1b[0m)\n",
		},
		{
			name: "link with osc8",
			src:  "[site](https://example.com)\n",
			osc8: true,
			want: "\x1b]8;;https://example.com\x1b\\\x1b[34;4msite\x1b[0m\x1b]8;;\x1b\\\n",
		},
		{
			name: "bold inside heading restores heading style",
			src:  "# Hi **there**\n",
			want: "\x1b[1;34m# Hi \x1b[1mthere\x1b[0m\x1b[1;34m\x1b[0m\n",
		},
		{
			name: "inline code padded",
			src:  "use `go test` now\n",
			want: "use \x1b[38;5;167;48;5;235m go test \x1b[0m now\n",
		},
		{
			name: "emphasis kinds",
			src:  "*i* **b** ***bi*** ~~s~~\n",
			want: "\x1b[3mi\x1b[0m \x1b[1mb\x1b[0m \x1b[1m\x1b[3mbi\x1b[0m \x1b[9ms\x1b[0m\n",
		},
		{
			name: "underline from html",
			src:  "<u>u</u>\n",
			want: "\x1b[4mu\x1b[0m\n",
		},
	}
	for _, tc := range tests {
		got := renderStreamWithOptions(t, []byte(tc.src), 0, WithOSC8(tc.osc8))
		if got != tc.want {
			t.Fatalf("%s\nwant: %q\n got: %q", tc.name, tc.want, got)
		}
	}
}

func TestRenderQuoteStyledBar(t *testing.T) {
	t.Parallel()
	got := renderStream(t, []byte("> hi\n"), 0)
	if want := "\x1b[38;5;245m>\x1b[0m hi\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderCalloutColors(t *testing.T) {
	t.Parallel()
	got := renderStream(t, []byte("> [!TIP]\n> Go.\n"), 0)
	if !strings.HasPrefix(got, "\x1b[1m\x1b[32m▌ Tip\x1b[0m\n") {
		t.Fatalf("callout header not styled: %q", got)
	}
	if stripANSI(got) != "▌ Tip\n▌ Go.\n" {
		t.Fatalf("callout text: %q", stripANSI(got))
	}
}

func TestRenderLongURLShortened(t *testing.T) {
	t.Parallel()
	src := "[x](https://example.com/a/very/long/path/that/keeps/going)\n"
	got := renderBoring(t, src, 24)
	if want := "x\n(example.com/a/very/lo…)\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderSampleContainsEveryConstruct(t *testing.T) {
	t.Parallel()
	out := stripANSI(renderStream(t, readSample(t), 80))
	for _, want := range []string{
		"# mdriver",
		"## Setext heading",
		"Emphasis comes as italic, bold, both and struck text",
		" code spans ",
		"5 < 10 & © 2026 — ✓.",
		"Ctrl + C",
		"  • First item",
		"    • Nested item",
		"  ☐ Open task",
		"  ☑ Done task",
		"  2. Two",
		"     Two has a second paragraph.",
		"> A quote that spans lazily onto a second line.",
		"> > Nested quote.",
		"▌ Warning",
		"▌ Callouts carry a label.",
		"│ 日本   │   1 │ wide  │",
		" package main",
		" plain fence with   a tab",
		"![logo](logo.png)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sample output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "title: mdriver sample") {
		t.Fatalf("front matter leaked into output")
	}
}

func TestRenderCodeSpanPaddingSurvivesWrap(t *testing.T) {
	t.Parallel()
	code := "\x1b[38;5;167;48;5;235m code \x1b[0m"
	got := renderStream(t, []byte(strings.Repeat("a", 22)+" `code` and\n"), 30)
	if want := strings.Repeat("a", 22) + " " + code + "\nand\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = renderStream(t, []byte(strings.Repeat("a", 26)+" `code`\n"), 30)
	if want := strings.Repeat("a", 26) + "\n" + code + "\n"; got != want {
		t.Fatalf("leading pad: got %q, want %q", got, want)
	}
}
