package mdriver

// BlockKind identifies a finished block.
type BlockKind uint8

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindCodeBlock
	KindList
	KindBlockquote
	KindTable
	KindThematicBreak
	KindCallout
)

// Block is a finished structural unit handed from the state machine to the
// renderer. Container blocks own their children.
type Block interface {
	Kind() BlockKind
}

// Heading is an ATX or setext heading. Text is raw inline markdown.
type Heading struct {
	Level int
	Text  string
}

// Paragraph holds the raw lines of a paragraph.
type Paragraph struct {
	Lines []string
}

// CodeBlock is a fenced code block. Closed is false when input ended before
// the closing fence.
type CodeBlock struct {
	Language string
	Fence    byte
	FenceLen int
	Lines    []string
	Closed   bool
}

// TaskState marks GFM task list items.
type TaskState uint8

const (
	TaskNone TaskState = iota
	TaskOpen
	TaskDone
)

// ListItem is one item of a List.
type ListItem struct {
	Task   TaskState
	Blocks []Block
}

// List is an ordered or bullet list.
type List struct {
	Ordered bool
	Start   int
	Loose   bool
	Items   []ListItem
}

// Blockquote holds the blocks parsed from its de-prefixed lines.
type Blockquote struct {
	Blocks []Block
}

// Callout is a blockquote opened by a [!KIND] marker.
type Callout struct {
	Callout CalloutKind
	Blocks  []Block
}

// Alignment is a table column alignment.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Table is a GFM table. Cells hold raw inline markdown.
type Table struct {
	Align  []Alignment
	Header []string
	Rows   [][]string
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

func (Heading) Kind() BlockKind       { return KindHeading }
func (Paragraph) Kind() BlockKind     { return KindParagraph }
func (CodeBlock) Kind() BlockKind     { return KindCodeBlock }
func (List) Kind() BlockKind          { return KindList }
func (Blockquote) Kind() BlockKind    { return KindBlockquote }
func (Table) Kind() BlockKind         { return KindTable }
func (ThematicBreak) Kind() BlockKind { return KindThematicBreak }
func (Callout) Kind() BlockKind       { return KindCallout }
