package mdriver

import (
	"strings"

	"golang.org/x/net/html"
)

type htmlTag struct {
	name  string
	kind  html.TokenType
	attrs map[string]string
	end   int
	// closeStart and closeEnd bound the matching end tag; closeStart is -1
	// when there is none.
	closeStart int
	closeEnd   int
}

// scanTag reads one start, end or self-closing tag at s[i]. Anything else,
// including a bare '<', is not a tag.
func scanTag(s string, i int) (htmlTag, bool) {
	z := html.NewTokenizer(strings.NewReader(s[i:]))
	tt := z.Next()
	switch tt {
	case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
	default:
		return htmlTag{}, false
	}
	raw := z.Raw()
	if len(raw) < 3 || raw[len(raw)-1] != '>' {
		return htmlTag{}, false
	}
	tag := readTag(z, tt, i+len(raw))
	return tag, true
}

func readTag(z *html.Tokenizer, tt html.TokenType, end int) htmlTag {
	tag := htmlTag{kind: tt, end: end, closeStart: -1, attrs: map[string]string{}}
	name, more := z.TagName()
	tag.name = string(name)
	for more {
		var k, v []byte
		k, v, more = z.TagAttr()
		tag.attrs[string(k)] = string(v)
	}
	return tag
}

// tagIndex maps the byte offset of every complete tag in an inline source
// to the tag. Start tags carry the bounds of their matching end tag.
type tagIndex map[int]htmlTag

// indexTags finds every tag in s in one left-to-right pass. A tag runs from
// '<' to the next '>' with no '<' in between, so each byte is scanned a
// bounded number of times. End tags pair with the nearest unmatched start
// tag of the same name, so nested tags of one name balance.
func indexTags(s string) tagIndex {
	idx := tagIndex{}
	open := map[string][]int{}
	i := strings.IndexByte(s, '<')
	for i >= 0 && i+1 < len(s) {
		next := i + 1
		if c := s[i+1]; isASCIILetter(c) || c == '/' {
			if j := strings.IndexAny(s[i+1:], "<>"); j >= 0 && s[i+1+j] == '>' {
				if tag, ok := scanTag(s[:i+j+2], i); ok {
					switch tag.kind {
					case html.StartTagToken:
						open[tag.name] = append(open[tag.name], i)
					case html.EndTagToken:
						if st := open[tag.name]; len(st) > 0 {
							at := st[len(st)-1]
							open[tag.name] = st[:len(st)-1]
							opener := idx[at]
							opener.closeStart, opener.closeEnd = i, tag.end
							idx[at] = opener
						}
					}
					idx[i] = tag
					next = tag.end
				}
			}
		}
		k := strings.IndexByte(s[next:], '<')
		if k < 0 {
			break
		}
		i = next + k
	}
	return idx
}

// htmlSource is the top-level inline string shared by nested parses. Its
// tag index is built on first use.
type htmlSource struct {
	root  string
	tags  tagIndex
	built bool
}

func (h *htmlSource) tagAt(off int) (htmlTag, bool) {
	if !h.built {
		h.tags = indexTags(h.root)
		h.built = true
	}
	tag, ok := h.tags[off]
	return tag, ok
}

// extractHref returns the href attribute of an anchor tag.
func extractHref(tag string) (string, bool) {
	t, ok := scanTag(tag, 0)
	if !ok {
		return "", false
	}
	href, ok := t.attrs["href"]
	return href, ok
}

// maxHTMLDepth bounds how deeply inline tags nest before further tags
// stay literal.
const maxHTMLDepth = 32

// angle handles '<' at s[i]: autolinks and inline HTML. Paired tags without
// a closing tag stay literal.
func (p *inlineParser) angle(i int) ([]Run, int, bool) {
	s := p.s
	if j := strings.IndexAny(s[i+1:], "<> \t\n"); j >= 0 && s[i+1+j] == '>' {
		inner := s[i+1 : i+1+j]
		end := i + j + 2
		if isSchemeAutolink(inner) {
			return []Run{{Kind: RunLink, Target: inner, Children: []Run{{Kind: RunText, Text: inner}}}}, end, true
		}
		if isEmailAutolink(inner) {
			return []Run{{Kind: RunLink, Target: "mailto:" + inner, Children: []Run{{Kind: RunText, Text: inner}}}}, end, true
		}
	}
	if i+1 >= len(s) || !isASCIILetter(s[i+1]) || p.depth >= maxHTMLDepth {
		return nil, 0, false
	}
	tag, ok := p.src.tagAt(p.base + i)
	if !ok || tag.kind == html.EndTagToken {
		return nil, 0, false
	}
	end := tag.end - p.base
	switch tag.name {
	case "br":
		return []Run{{Kind: RunLineBreak}}, end, true
	case "img":
		src := tag.attrs["src"]
		if src == "" {
			return nil, end, true
		}
		return []Run{{Kind: RunImage, Target: src, Alt: tag.attrs["alt"], Title: tag.attrs["title"]}}, end, true
	}
	if tag.kind == html.SelfClosingTagToken {
		return nil, end, true
	}
	closeStart, closeEnd := tag.closeStart-p.base, tag.closeEnd-p.base
	if tag.closeStart < 0 || closeEnd > len(s) {
		return nil, 0, false
	}
	inner := s[end:closeStart]
	children := func() []Run { return p.nested(inner, end) }
	var kind RunKind
	switch tag.name {
	case "em", "i":
		kind = RunItalic
	case "strong", "b":
		kind = RunBold
	case "u", "ins":
		kind = RunUnderline
	case "s", "strike", "del":
		kind = RunStrikethrough
	case "code", "pre", "kbd", "samp", "tt":
		return []Run{{Kind: RunCode, Text: decodeEntities(inner)}}, closeEnd, true
	case "a":
		if href, ok := extractHref(s[i:end]); ok {
			return []Run{{Kind: RunLink, Target: href, Title: tag.attrs["title"], Children: children()}}, closeEnd, true
		}
		return children(), closeEnd, true
	default:
		return children(), closeEnd, true
	}
	return []Run{collapse(Run{Kind: kind, Children: children()})}, closeEnd, true
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
