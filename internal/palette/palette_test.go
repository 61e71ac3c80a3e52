package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFGAndBG(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "\x1b[38;2;255;121;198m", FG("#ff79c6"))
	assert.Equal(t, "\x1b[48;2;0;43;54m", BG("002b36"))
	assert.Equal(t, "\x1b[38;2;0;0;0m", FG("#xyz"))
}

func TestDefaultPaletteKeepsClassicCodes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "\x1b[1;34m", PaletteDefault.H1)
	assert.Equal(t, "\x1b[38;5;167;48;5;235m", PaletteDefault.CodeInline)
	assert.Equal(t, "\x1b[48;5;235m", PaletteDefault.CodeBlock)
	assert.Equal(t, "\x1b[34;4m", PaletteDefault.LinkText)
	assert.Empty(t, PaletteDefault.Strong)
}
