package mdriver

import (
	"fmt"
	"strings"

	"pkt.systems/mdriver/internal/highlight"
)

// Parser renders markdown incrementally. Feed accepts chunks split at any
// byte, and every block is emitted as soon as the lines seen so far settle
// it. A Parser is not safe for concurrent use.
type Parser struct {
	cfg      renderConfig
	render   *renderer
	buf      lineBuffer
	front    frontMatter
	machine  *machine
	out      strings.Builder
	started  bool
	seenLine bool
}

// NewParser returns a Parser configured by opts. It fails for an unknown
// syntax theme or an unsupported image protocol.
func NewParser(opts ...RenderOption) (*Parser, error) {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.images > ImageKitty {
		return nil, fmt.Errorf("new parser: %w %d", ErrUnsupportedImageProtocol, cfg.images)
	}
	if _, err := highlight.Load(cfg.syntaxTheme); err != nil {
		return nil, fmt.Errorf("new parser: %w", err)
	}
	hl := cfg.highlighter
	if hl == nil {
		h, err := newChromaHighlighter(cfg.syntaxTheme, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("new parser: %w", err)
		}
		hl = h
	}
	p := &Parser{cfg: cfg, render: newRenderer(cfg, hl)}
	p.machine = newMachine(p.emit)
	p.Reset()
	return p, nil
}

// Feed appends chunk and returns the rendering of every block it
// completed. The result is often empty.
func (p *Parser) Feed(chunk string) string {
	if chunk == "" {
		return ""
	}
	clean := p.buf.sanitize([]byte(chunk))
	p.buf.write(p.front.feed(clean))
	p.drain()
	return p.take()
}

// Flush renders whatever is still buffered, including an unterminated last
// line or an unclosed code fence, and resets the Parser for a new document.
func (p *Parser) Flush() string {
	p.buf.write(p.front.end())
	p.drain()
	if line, ok := p.buf.takeRest(); ok {
		p.line(line)
	}
	p.machine.finish()
	out := p.take()
	p.Reset()
	return out
}

// Reset discards all buffered input and state.
func (p *Parser) Reset() {
	p.buf.reset()
	p.front.reset(p.cfg.keepFront)
	p.machine.reset()
	p.out.Reset()
	p.started = false
	p.seenLine = false
}

func (p *Parser) drain() {
	for p.buf.hasLine() {
		line, _ := p.buf.nextLine()
		p.line(line)
	}
}

func (p *Parser) line(line string) {
	if !p.seenLine {
		line = strings.TrimPrefix(line, "\ufeff")
		p.seenLine = true
	}
	p.machine.feedLine(line)
}

func (p *Parser) emit(b Block) {
	s := p.render.block(b, p.cfg.width)
	if s == "" {
		return
	}
	if p.started {
		p.out.WriteByte('\n')
	}
	p.out.WriteString(s)
	p.started = true
}

func (p *Parser) take() string {
	if p.out.Len() == 0 {
		return ""
	}
	s := p.out.String()
	p.out.Reset()
	return s
}
