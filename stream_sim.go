package mdriver

import (
	"bufio"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// StreamSimulateRequest configures StreamSimulate.
type StreamSimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Width     int
	Theme     Theme
	ChunkSize int
	Delay     time.Duration
	Options   []RenderOption
}

// StreamSimulate feeds Reader to a Parser ChunkSize runes at a time,
// sleeping Delay between chunks, to mimic tokens arriving from a model.
// The output equals what Render produces for the same input.
func StreamSimulate(req StreamSimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("stream simulate: Reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("stream simulate: Writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("stream simulate: ChunkSize must be > 0")
	}
	parser, err := NewParser(RenderRequest{Width: req.Width, Theme: req.Theme, Options: req.Options}.options()...)
	if err != nil {
		return fmt.Errorf("stream simulate: %w", err)
	}
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(req.Reader)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()

	chunk := make([]byte, 0, req.ChunkSize*utf8.UTFMax)
	runes := 0
	first := true
	feed := func() error {
		if runes == 0 {
			return nil
		}
		if !first && req.Delay > 0 {
			time.Sleep(req.Delay)
		}
		first = false
		out := parser.Feed(string(chunk))
		chunk = chunk[:0]
		runes = 0
		return writeString(req.Writer, out)
	}
	for {
		r, size, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("stream simulate: read: %w", err)
		}
		if r == utf8.RuneError && size == 1 {
			continue
		}
		chunk = utf8.AppendRune(chunk, r)
		runes++
		if runes >= req.ChunkSize {
			if err := feed(); err != nil {
				return fmt.Errorf("stream simulate: write: %w", err)
			}
		}
	}
	if err := feed(); err != nil {
		return fmt.Errorf("stream simulate: write: %w", err)
	}
	if err := writeString(req.Writer, parser.Flush()); err != nil {
		return fmt.Errorf("stream simulate: write: %w", err)
	}
	return nil
}
