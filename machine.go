package mdriver

import "strings"

type blockState uint8

const (
	stateIdle blockState = iota
	stateParagraph
	stateCode
	stateList
	stateQuote
	stateTable
)

// machine is the line-level block state machine. It holds at most one
// open block and hands finished blocks to emit. Containers parse their
// content with child machines that collect blocks instead of rendering them.
type machine struct {
	state blockState
	lines []string
	fence fence
	code  CodeBlock
	table Table
	list  *listBuilder
	quote *quoteBuilder
	emit  func(Block)
}

func newMachine(emit func(Block)) *machine {
	return &machine{emit: emit}
}

// collect returns a child machine that appends finished blocks to dst.
func collect(dst *[]Block) *machine {
	return newMachine(func(b Block) { *dst = append(*dst, b) })
}

func (m *machine) reset() {
	m.state = stateIdle
	m.lines = m.lines[:0]
	m.fence = fence{}
	m.code = CodeBlock{}
	m.table = Table{}
	m.list = nil
	m.quote = nil
}

func (m *machine) feedLine(line string) {
	switch m.state {
	case stateIdle:
		m.start(line)
	case stateParagraph:
		m.paragraphLine(line)
	case stateCode:
		m.codeLine(line)
	case stateTable:
		m.tableLine(line)
	case stateList:
		m.listLine(line)
	case stateQuote:
		m.quoteLine(line)
	}
}

// finish emits the open block, whatever its state, and returns to idle.
func (m *machine) finish() {
	switch m.state {
	case stateParagraph:
		m.emitParagraph()
	case stateCode:
		m.code.Closed = false
		m.emitBlock(m.code)
	case stateTable:
		m.emitBlock(m.table)
	case stateList:
		m.emitBlock(m.list.build())
	case stateQuote:
		m.emitBlock(m.quote.build())
	}
	m.reset()
}

func (m *machine) emitBlock(b Block) {
	if m.emit != nil {
		m.emit(b)
	}
}

func (m *machine) start(line string) {
	if isBlank(line) {
		return
	}
	if f, ok := parseFence(line); ok {
		m.fence = f
		m.code = CodeBlock{Language: f.info, Fence: f.char, FenceLen: f.length}
		m.state = stateCode
		return
	}
	if level, text, ok := parseHeading(line); ok {
		m.emitBlock(Heading{Level: level, Text: text})
		return
	}
	if isThematicBreak(line) {
		m.emitBlock(ThematicBreak{})
		return
	}
	if content, ok := stripQuoteMarker(line); ok {
		m.quote = &quoteBuilder{}
		m.state = stateQuote
		m.quote.add(content)
		return
	}
	if lm, ok := parseListLine(line); ok {
		m.list = newListBuilder(lm)
		m.state = stateList
		return
	}
	m.lines = append(m.lines[:0], strings.TrimLeft(line, " \t"))
	m.state = stateParagraph
}

func (m *machine) emitParagraph() {
	lines := make([]string, len(m.lines))
	copy(lines, m.lines)
	m.lines = m.lines[:0]
	m.emitBlock(Paragraph{Lines: lines})
}

// paragraphLine resolves the line after a paragraph line: setext underline
// first, then table promotion, then interruption.
func (m *machine) paragraphLine(line string) {
	if isBlank(line) {
		m.emitParagraph()
		m.state = stateIdle
		return
	}
	if level, ok := setextLevel(line); ok {
		text := strings.TrimSpace(strings.Join(m.lines, "\n"))
		m.lines = m.lines[:0]
		m.state = stateIdle
		m.emitBlock(Heading{Level: level, Text: text})
		return
	}
	if len(m.lines) == 1 && strings.IndexByte(m.lines[0], '|') >= 0 {
		if align, ok := parseDelimiterRow(line); ok {
			header := splitTableRow(m.lines[0])
			if len(header) == len(align) {
				m.lines = m.lines[:0]
				m.table = Table{Align: align, Header: header}
				m.state = stateTable
				return
			}
		}
	}
	if interrupts(line) {
		m.emitParagraph()
		m.state = stateIdle
		m.start(line)
		return
	}
	m.lines = append(m.lines, strings.TrimLeft(line, " \t"))
}

func (m *machine) codeLine(line string) {
	if m.fence.closes(line) {
		m.code.Closed = true
		code := m.code
		m.reset()
		m.emitBlock(code)
		return
	}
	m.code.Lines = append(m.code.Lines, trimIndent(line, m.fence.indent))
}

func (m *machine) tableLine(line string) {
	if isTableRow(line) {
		m.table.Rows = append(m.table.Rows, fitRow(splitTableRow(line), len(m.table.Header)))
		return
	}
	table := m.table
	m.reset()
	m.emitBlock(table)
	m.start(line)
}

func (m *machine) listLine(line string) {
	l := m.list
	if l.add(line) {
		return
	}
	list := l.build()
	m.reset()
	m.emitBlock(list)
	m.start(line)
}

func (m *machine) quoteLine(line string) {
	q := m.quote
	if content, ok := stripQuoteMarker(line); ok {
		q.add(content)
		return
	}
	if !isBlank(line) && q.body.lazy(line) {
		return
	}
	b := q.build()
	m.reset()
	m.emitBlock(b)
	m.start(line)
}

// lazy appends line to the innermost open paragraph when it is a
// continuation line rather than the start of a new block.
func (m *machine) lazy(line string) bool {
	switch m.state {
	case stateParagraph:
		if interrupts(line) {
			return false
		}
		m.lines = append(m.lines, strings.TrimLeft(line, " \t"))
		return true
	case stateList:
		return m.list.current().body.lazy(line)
	case stateQuote:
		return m.quote.body.lazy(line)
	}
	return false
}

type listBuilder struct {
	ordered bool
	delim   byte
	start   int
	loose   bool
	items   []*itemBuilder
	blank   bool
	nested  bool
}

type itemBuilder struct {
	task    TaskState
	content int
	blocks  []Block
	body    *machine
}

func newListBuilder(lm listMarker) *listBuilder {
	l := &listBuilder{ordered: lm.ordered, delim: lm.delim, start: lm.num}
	l.open(lm)
	return l
}

func (l *listBuilder) current() *itemBuilder {
	return l.items[len(l.items)-1]
}

func (l *listBuilder) open(lm listMarker) {
	it := &itemBuilder{content: lm.content}
	it.body = collect(&it.blocks)
	rest := lm.rest
	it.task, rest = parseTask(rest)
	if rest != "" {
		it.body.feedLine(rest)
	}
	l.items = append(l.items, it)
}

// add folds line into the list and reports whether the list took it.
func (l *listBuilder) add(line string) bool {
	it := l.current()
	if isBlank(line) {
		if it.body.state == stateCode {
			it.body.feedLine("")
			return true
		}
		if !l.blank {
			l.nested = it.body.state == stateList
		}
		l.blank = true
		it.body.feedLine("")
		return true
	}
	indent, _ := leadingIndentCount(line)
	if indent >= it.content {
		it.body.feedLine(trimIndent(line, it.content))
		if l.blank && (!l.nested || it.body.state != stateList) {
			l.loose = true
		}
		l.blank = false
		return true
	}
	if lm, ok := parseListLine(line); ok && !isThematicBreak(line) {
		if lm.ordered != l.ordered || lm.delim != l.delim {
			return false
		}
		if l.blank {
			l.loose = true
		}
		l.blank = false
		it.body.finish()
		l.open(lm)
		return true
	}
	if !l.blank && it.body.lazy(line) {
		return true
	}
	return false
}

func (l *listBuilder) build() List {
	list := List{Ordered: l.ordered, Start: l.start, Loose: l.loose}
	for _, it := range l.items {
		it.body.finish()
		list.Items = append(list.Items, ListItem{Task: it.task, Blocks: it.blocks})
	}
	return list
}

type quoteBuilder struct {
	lines     int
	callout   CalloutKind
	isCallout bool
	blocks    []Block
	body      *machine
}

func (q *quoteBuilder) add(content string) {
	if q.body == nil {
		q.body = collect(&q.blocks)
	}
	if q.lines == 0 {
		if kind, rest, ok := parseCalloutMarker(content); ok {
			q.callout = kind
			q.isCallout = true
			q.lines++
			if rest != "" {
				q.body.feedLine(rest)
			}
			return
		}
	}
	q.lines++
	q.body.feedLine(content)
}

func (q *quoteBuilder) build() Block {
	if q.body != nil {
		q.body.finish()
	}
	if q.isCallout {
		return Callout{Callout: q.callout, Blocks: q.blocks}
	}
	return Blockquote{Blocks: q.blocks}
}
