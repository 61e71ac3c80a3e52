package mdriver

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

const readChunkSize = 4096

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, readChunkSize)
	},
}

// RenderRequest configures Render. Width and Theme, when set, override the
// matching Options.
type RenderRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
	// Strict rejects invalid UTF-8 and binary input instead of dropping
	// the offending bytes.
	Strict bool
}

func (req RenderRequest) options() []RenderOption {
	opts := make([]RenderOption, 0, len(req.Options)+2)
	opts = append(opts, req.Options...)
	if req.Width > 0 {
		opts = append(opts, WithWidth(req.Width))
	}
	if req.Theme != nil {
		opts = append(opts, WithTheme(req.Theme))
	}
	return opts
}

// Render reads Markdown from Reader in chunks and writes each rendered block
// to Writer as soon as it completes.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	parser, err := NewParser(req.options()...)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(req.Reader)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()

	var check validator
	buf := make([]byte, readChunkSize)
	for {
		n, rerr := reader.Read(buf)
		if n > 0 {
			if req.Strict {
				if err := check.add(buf[:n]); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
			if err := writeString(req.Writer, parser.Feed(string(buf[:n]))); err != nil {
				return fmt.Errorf("render: write: %w", err)
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return fmt.Errorf("render: read: %w", rerr)
		}
	}
	if req.Strict {
		if err := check.finish(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	if err := writeString(req.Writer, parser.Flush()); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s)
	return err
}
