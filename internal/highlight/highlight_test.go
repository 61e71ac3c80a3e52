package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joined(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestLoadKnownAndUnknown(t *testing.T) {
	t.Parallel()

	theme, err := Load("monokai")
	require.NoError(t, err)
	assert.Equal(t, "monokai", theme.Name())

	_, err = Load("no-such-theme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTheme))
}

func TestNamesSortedAndContainsDefault(t *testing.T) {
	t.Parallel()

	names := Names()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "monokai")
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestHighlightPreservesText(t *testing.T) {
	t.Parallel()

	theme, err := Load("monokai")
	require.NoError(t, err)
	h := New(theme, zerolog.Nop())

	code := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}"
	spans, err := h.Highlight(code, "go")
	require.NoError(t, err)
	assert.Equal(t, code, joined(spans))

	colored := false
	for _, s := range spans {
		if s.HasColor {
			colored = true
		}
	}
	assert.True(t, colored, "expected at least one colored span")
}

func TestHighlightUnknownLanguageIsSingleSpan(t *testing.T) {
	t.Parallel()

	theme, err := Load("monokai")
	require.NoError(t, err)
	h := New(theme, zerolog.Nop())

	spans, err := h.Highlight("some text", "definitely-not-a-language")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "some text", spans[0].Text)
	assert.False(t, spans[0].HasColor)

	spans, err = h.Highlight("plain", "")
	require.NoError(t, err)
	require.Len(t, spans, 1)
}

func TestHighlightEmptyCode(t *testing.T) {
	t.Parallel()

	theme, err := Load("monokai")
	require.NoError(t, err)
	spans, err := New(theme, zerolog.Nop()).Highlight("", "go")
	require.NoError(t, err)
	assert.Empty(t, spans)
}
