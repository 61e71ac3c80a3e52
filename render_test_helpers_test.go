package mdriver

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func renderStream(t *testing.T, src []byte, width int) string {
	t.Helper()
	return renderStreamWithOptions(t, src, width, WithOSC8(false))
}

func renderStreamWithOptions(t *testing.T, src []byte, width int, opts ...RenderOption) string {
	t.Helper()
	var out bytes.Buffer
	err := Render(RenderRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &out,
		Width:   width,
		Theme:   DefaultTheme(),
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out.String()
}

// renderBoring renders src in one Feed with no styling, so expectations
// can be written as plain text.
func renderBoring(t *testing.T, src string, width int, opts ...RenderOption) string {
	t.Helper()
	base := []RenderOption{
		WithTheme(BoringTheme()),
		WithOSC8(false),
		WithWidth(width),
		WithHighlighter(PlainHighlighter()),
	}
	p := newTestParser(t, append(base, opts...)...)
	return p.Feed(src) + p.Flush()
}

func newTestParser(t testing.TB, opts ...RenderOption) *Parser {
	t.Helper()
	p, err := NewParser(opts...)
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	return p
}

// feedChunks feeds src in chunks of size bytes, splitting anywhere, and
// returns everything the parser produced including the final flush.
func feedChunks(p *Parser, src string, size int) string {
	var out bytes.Buffer
	for len(src) > 0 {
		n := min(size, len(src))
		out.WriteString(p.Feed(src[:n]))
		src = src[n:]
	}
	out.WriteString(p.Flush())
	return out.String()
}

func stripANSI(s string) string {
	return ansi.Strip(s)
}

func readSample(t testing.TB) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/sample.md")
	if err != nil {
		t.Fatalf("read sample.md: %v", err)
	}
	return data
}
