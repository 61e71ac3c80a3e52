package mdriver

import "bytes"

const maxFrontMatterProbeBytes = 64 * 1024

// frontMatter holds back the start of a stream until it knows whether the
// first lines are a metadata block (YAML ---, TOML +++, JSON ;;;) and drops
// that block when they are.
type frontMatter struct {
	passthrough bool
	probe       []byte
}

func (f *frontMatter) reset(keep bool) {
	f.passthrough = keep
	f.probe = f.probe[:0]
}

// feed returns the bytes that may flow on to the line buffer.
func (f *frontMatter) feed(chunk []byte) []byte {
	if f.passthrough || len(chunk) == 0 {
		return chunk
	}
	f.probe = append(f.probe, chunk...)
	out, decided := f.decide(false)
	if !decided && len(f.probe) > maxFrontMatterProbeBytes {
		out, decided = f.release(), true
	}
	if decided {
		return out
	}
	return nil
}

// end releases whatever is still held at end of input.
func (f *frontMatter) end() []byte {
	if f.passthrough || len(f.probe) == 0 {
		return nil
	}
	out, _ := f.decide(true)
	return out
}

func (f *frontMatter) release() []byte {
	out := append([]byte(nil), f.probe...)
	f.passthrough = true
	f.probe = f.probe[:0]
	return out
}

func (f *frontMatter) decide(eof bool) ([]byte, bool) {
	openLine, openNext, ok := probeLine(f.probe, 0, eof)
	if !ok {
		return nil, false
	}
	delim, isFrontMatter := openingDelimiter(openLine)
	if !isFrontMatter {
		return f.release(), true
	}
	secondLine, secondNext, ok := probeLine(f.probe, openNext, eof)
	if !ok {
		return nil, false
	}
	if !looksLikeMetadata(secondLine) {
		return f.release(), true
	}
	closeNext, found := closingDelimiter(f.probe, secondNext, delim, eof)
	if !found {
		if eof {
			return f.release(), true
		}
		return nil, false
	}
	out := append([]byte(nil), f.probe[closeNext:]...)
	f.passthrough = true
	f.probe = f.probe[:0]
	return out, true
}

func probeLine(src []byte, start int, eof bool) ([]byte, int, bool) {
	if start > len(src) {
		return nil, 0, false
	}
	if start == len(src) {
		if eof {
			return src[start:], start, true
		}
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		if !eof {
			return nil, 0, false
		}
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func openingDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	for _, delim := range [][]byte{[]byte("---"), []byte("+++"), []byte(";;;")} {
		if bytes.Equal(trimmed, delim) {
			return delim, true
		}
	}
	return nil, false
}

func looksLikeMetadata(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return true
	}
	return bytes.ContainsAny(trimmed, ":=")
}

func closingDelimiter(src []byte, start int, delim []byte, eof bool) (int, bool) {
	for idx := start; idx <= len(src); {
		line, next, ok := probeLine(src, idx, eof)
		if !ok {
			return 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return next, true
		}
		if next == idx {
			return 0, false
		}
		idx = next
		if idx == len(src) && !eof {
			return 0, false
		}
	}
	return 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
