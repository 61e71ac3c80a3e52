package mdriver

import "strings"

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// shallow strips up to three columns of indentation. Deeper lines cannot
// start a block.
func shallow(line string) (string, bool) {
	n, i := leadingIndentCount(line)
	if n > 3 {
		return "", false
	}
	return line[i:], true
}

func parseHeading(line string) (int, string, bool) {
	text, ok := shallow(line)
	if !ok || !strings.HasPrefix(text, "#") {
		return 0, "", false
	}
	level := 0
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level > 6 {
		return 0, "", false
	}
	if level == len(text) {
		return level, "", true
	}
	if !isSpace(text[level]) {
		return 0, "", false
	}
	return level, trimClosingHashes(strings.TrimSpace(text[level+1:])), true
}

func trimClosingHashes(s string) string {
	j := len(s)
	for j > 0 && s[j-1] == '#' {
		j--
	}
	if j == len(s) {
		return s
	}
	if j == 0 {
		return ""
	}
	if isSpace(s[j-1]) {
		return strings.TrimRight(s[:j], " \t")
	}
	return s
}

type fence struct {
	char   byte
	length int
	indent int
	info   string
}

func parseFence(line string) (fence, bool) {
	n, i := leadingIndentCount(line)
	if n > 3 {
		return fence{}, false
	}
	text := line[i:]
	if len(text) < 3 || (text[0] != '`' && text[0] != '~') {
		return fence{}, false
	}
	ch := text[0]
	l := 0
	for l < len(text) && text[l] == ch {
		l++
	}
	if l < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(text[l:])
	if ch == '`' && strings.IndexByte(info, '`') >= 0 {
		return fence{}, false
	}
	if fields := strings.Fields(info); len(fields) > 0 {
		info = strings.Trim(fields[0], "{}.")
	}
	return fence{char: ch, length: l, indent: n, info: info}, true
}

// closes reports whether line is a closing fence for f: same character,
// at least as long, nothing else on the line.
func (f fence) closes(line string) bool {
	n, i := leadingIndentCount(line)
	if n > 3 {
		return false
	}
	text := strings.TrimRight(line[i:], " \t")
	if len(text) < f.length {
		return false
	}
	for j := 0; j < len(text); j++ {
		if text[j] != f.char {
			return false
		}
	}
	return true
}

func isThematicBreak(line string) bool {
	text, ok := shallow(line)
	if !ok {
		return false
	}
	var ch byte
	count := 0
	for i := 0; i < len(text); i++ {
		b := text[i]
		if isSpace(b) {
			continue
		}
		if ch == 0 {
			if b != '-' && b != '*' && b != '_' {
				return false
			}
			ch = b
		}
		if b != ch {
			return false
		}
		count++
	}
	return count >= 3
}

func setextLevel(line string) (int, bool) {
	text, ok := shallow(line)
	if !ok {
		return 0, false
	}
	text = strings.TrimRight(text, " \t")
	if text == "" || (text[0] != '=' && text[0] != '-') {
		return 0, false
	}
	for i := 1; i < len(text); i++ {
		if text[i] != text[0] {
			return 0, false
		}
	}
	if text[0] == '=' {
		return 1, true
	}
	return 2, true
}

func stripQuoteMarker(line string) (string, bool) {
	text, ok := shallow(line)
	if !ok || text == "" || text[0] != '>' {
		return "", false
	}
	text = text[1:]
	if text != "" && isSpace(text[0]) {
		text = text[1:]
	}
	return text, true
}

type listMarker struct {
	ordered bool
	delim   byte
	num     int
	indent  int
	content int
	rest    string
}

func parseListLine(line string) (listMarker, bool) {
	n, i := leadingIndentCount(line)
	if n > 3 {
		return listMarker{}, false
	}
	ordered, marker, num, markerLen, padding, rest, ok := parseListMarker(line[i:])
	if !ok {
		return listMarker{}, false
	}
	if ordered && markerLen > 10 {
		return listMarker{}, false
	}
	if padding > 4 || rest == "" {
		padding = 1
	}
	return listMarker{
		ordered: ordered,
		delim:   byte(marker),
		num:     num,
		indent:  n,
		content: n + markerLen + padding,
		rest:    rest,
	}, true
}

func parseListMarker(text string) (bool, rune, int, int, int, string, bool) {
	if text == "" {
		return false, 0, 0, 0, 0, "", false
	}
	switch text[0] {
	case '-', '+', '*':
		if len(text) < 2 || !isSpace(text[1]) {
			return false, 0, 0, 0, 0, "", false
		}
		padding, idx := countSpaces(text[1:])
		return false, rune(text[0]), 0, 1, padding, text[1+idx:], true
	}
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(text) {
		return false, 0, 0, 0, 0, "", false
	}
	if text[i] != '.' && text[i] != ')' {
		return false, 0, 0, 0, 0, "", false
	}
	if i+1 >= len(text) || !isSpace(text[i+1]) {
		return false, 0, 0, 0, 0, "", false
	}
	num := 0
	for j := 0; j < i; j++ {
		num = num*10 + int(text[j]-'0')
	}
	padding, idx := countSpaces(text[i+1:])
	return true, rune(text[i]), num, i + 1, padding, text[i+1+idx:], true
}

func parseTask(text string) (TaskState, string) {
	if len(text) < 3 || text[0] != '[' || text[2] != ']' {
		return TaskNone, text
	}
	if len(text) > 3 && !isSpace(text[3]) {
		return TaskNone, text
	}
	var state TaskState
	switch text[1] {
	case ' ':
		state = TaskOpen
	case 'x', 'X':
		state = TaskDone
	default:
		return TaskNone, text
	}
	return state, strings.TrimLeft(text[3:], " \t")
}

var calloutNames = map[string]CalloutKind{
	"NOTE":      CalloutNote,
	"TIP":       CalloutTip,
	"IMPORTANT": CalloutImportant,
	"WARNING":   CalloutWarning,
	"CAUTION":   CalloutCaution,
}

func parseCalloutMarker(text string) (CalloutKind, string, bool) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "[!") {
		return 0, "", false
	}
	end := strings.IndexByte(t, ']')
	if end < 0 {
		return 0, "", false
	}
	kind, ok := calloutNames[strings.ToUpper(t[2:end])]
	if !ok {
		return 0, "", false
	}
	return kind, strings.TrimSpace(t[end+1:]), true
}

// splitTableRow splits a row on unescaped pipes, dropping the optional
// leading and trailing pipe.
func splitTableRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, "\\|") {
		s = s[:len(s)-1]
	}
	var cells []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(cells, strings.TrimSpace(s[start:]))
}

func parseDelimiterRow(line string) ([]Alignment, bool) {
	if strings.IndexByte(line, '|') < 0 {
		return nil, false
	}
	cells := splitTableRow(line)
	align := make([]Alignment, 0, len(cells))
	for _, c := range cells {
		if c == "" {
			return nil, false
		}
		left := c[0] == ':'
		right := c[len(c)-1] == ':'
		core := strings.Trim(c, ":")
		if core == "" || strings.Trim(core, "-") != "" {
			return nil, false
		}
		switch {
		case left && right:
			align = append(align, AlignCenter)
		case right:
			align = append(align, AlignRight)
		default:
			align = append(align, AlignLeft)
		}
	}
	return align, true
}

func isTableRow(line string) bool {
	return !isBlank(line) && strings.IndexByte(line, '|') >= 0
}

// fitRow pads or truncates cells to n columns.
func fitRow(cells []string, n int) []string {
	if len(cells) > n {
		return cells[:n]
	}
	for len(cells) < n {
		cells = append(cells, "")
	}
	return cells
}

// interrupts reports whether line starts a block that ends an open
// paragraph.
func interrupts(line string) bool {
	if _, _, ok := parseHeading(line); ok {
		return true
	}
	if _, ok := parseFence(line); ok {
		return true
	}
	if isThematicBreak(line) {
		return true
	}
	if _, ok := stripQuoteMarker(line); ok {
		return true
	}
	if lm, ok := parseListLine(line); ok && strings.TrimSpace(lm.rest) != "" {
		return !lm.ordered || lm.num == 1
	}
	return false
}

func leadingIndentCount(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) {
		if s[i] == ' ' {
			count++
			i++
			continue
		}
		if s[i] == '\t' {
			count += 4
			i++
			continue
		}
		break
	}
	return count, i
}

func trimIndent(s string, count int) string {
	i := 0
	for i < len(s) && count > 0 {
		if s[i] == ' ' {
			count--
			i++
			continue
		}
		if s[i] == '\t' {
			count -= 4
			i++
			continue
		}
		break
	}
	return s[i:]
}

func countSpaces(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) && isSpace(s[i]) {
		count++
		i++
	}
	return count, i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
