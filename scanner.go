package mdriver

import (
	"bytes"
	"unicode/utf8"
)

// lineBuffer accumulates sanitized input and hands out complete lines.
// Bytes leave the buffer only through nextLine or takeRest.
type lineBuffer struct {
	data    []byte
	off     int
	tail    [utf8.UTFMax]byte
	tailLen int
	scratch []byte
}

func (b *lineBuffer) reset() {
	b.data = b.data[:0]
	b.off = 0
	b.tailLen = 0
}

// sanitize drops invalid UTF-8 and control runes from chunk. A rune split
// across chunks is held back until its remaining bytes arrive.
func (b *lineBuffer) sanitize(chunk []byte) []byte {
	if b.tailLen > 0 {
		joined := make([]byte, 0, b.tailLen+len(chunk))
		joined = append(joined, b.tail[:b.tailLen]...)
		chunk = append(joined, chunk...)
		b.tailLen = 0
	}
	if cap(b.scratch) < len(chunk) {
		b.scratch = make([]byte, len(chunk))
	}
	clean, rest := sanitizeBytes(b.scratch[:len(chunk)], chunk)
	b.tailLen = copy(b.tail[:], rest)
	return clean
}

func (b *lineBuffer) write(p []byte) {
	if len(p) == 0 {
		return
	}
	if b.off > 0 && b.off >= len(b.data)/2 {
		n := copy(b.data, b.data[b.off:])
		b.data = b.data[:n]
		b.off = 0
	}
	b.data = append(b.data, p...)
}

func (b *lineBuffer) pending() []byte {
	return b.data[b.off:]
}

// hasLine reports whether a complete line is buffered.
func (b *lineBuffer) hasLine() bool {
	return bytes.IndexByte(b.pending(), '\n') >= 0
}

// nextLine consumes and returns the first complete line without its
// terminator.
func (b *lineBuffer) nextLine() (string, bool) {
	rest := b.pending()
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return "", false
	}
	line := string(trimCR(rest[:i]))
	b.off += i + 1
	return line, true
}

// takeRest consumes whatever is left, terminated or not.
func (b *lineBuffer) takeRest() (string, bool) {
	rest := b.pending()
	b.off += len(rest)
	b.tailLen = 0
	if len(rest) == 0 {
		return "", false
	}
	return string(trimCR(rest)), true
}
