package mdriver

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   "\"",
	"apos":   "'",
	"nbsp":   "\u00a0",
	"ndash":  "–",
	"mdash":  "—",
	"hellip": "…",
	"ldquo":  "“",
	"rdquo":  "”",
	"lsquo":  "‘",
	"rsquo":  "’",
	"bull":   "•",
	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"deg":    "°",
	"plusmn": "±",
	"times":  "×",
	"divide": "÷",
	"frac14": "¼",
	"frac12": "½",
	"frac34": "¾",
	"cent":   "¢",
	"pound":  "£",
	"euro":   "€",
	"yen":    "¥",
	"larr":   "←",
	"rarr":   "→",
	"uarr":   "↑",
	"darr":   "↓",
	"laquo":  "«",
	"raquo":  "»",
	"middot": "·",
	"sect":   "§",
	"para":   "¶",
}

// Entities that browsers accept without the closing semicolon.
var legacyEntities = []string{"nbsp", "amp", "lt", "gt", "quot", "copy", "reg"}

const maxEntityLen = 32

// decodeEntityAt decodes the entity starting at s[i] == '&' and returns its
// text and the index just past it.
func decodeEntityAt(s string, i int) (string, int, bool) {
	if i+1 >= len(s) || s[i] != '&' {
		return "", 0, false
	}
	if s[i+1] == '#' {
		return decodeNumericEntity(s, i)
	}
	j := i + 1
	for j < len(s) && j-i <= maxEntityLen && isAlnum(s[j]) {
		j++
	}
	name := s[i+1 : j]
	if name == "" {
		return "", 0, false
	}
	if j < len(s) && s[j] == ';' {
		if text, ok := namedEntities[name]; ok {
			return text, j + 1, true
		}
		return "", 0, false
	}
	for _, legacy := range legacyEntities {
		if name == legacy {
			return namedEntities[legacy], j, true
		}
	}
	return "", 0, false
}

func decodeNumericEntity(s string, i int) (string, int, bool) {
	start := i + 2
	base := 10
	if start < len(s) && (s[start] == 'x' || s[start] == 'X') {
		base = 16
		start++
	}
	j := start
	for j < len(s) && j-start < 8 && isDigitIn(s[j], base) {
		j++
	}
	if j == start || j >= len(s) || s[j] != ';' {
		return "", 0, false
	}
	val, err := strconv.ParseInt(s[start:j], base, 32)
	if err != nil {
		return "", 0, false
	}
	if val <= 0 || val > utf8.MaxRune || (val >= 0xD800 && val <= 0xDFFF) {
		return "", 0, false
	}
	return string(rune(val)), j + 1, true
}

// decodeEntities decodes every entity in s. Text without entities, including
// already decoded text, comes back unchanged.
func decodeEntities(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:amp])
	for i := amp; i < len(s); {
		if s[i] == '&' {
			if text, end, ok := decodeEntityAt(s, i); ok {
				b.WriteString(text)
				i = end
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isDigitIn(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F')
}
