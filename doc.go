// Package mdriver renders Markdown to ANSI for terminal display as it
// streams in.
//
// A Parser accepts arbitrary chunks, split anywhere including inside a
// multi-byte rune or between the two stars of "**", and returns the styled
// output of every block those chunks completed. Output is never retracted:
// a block is emitted once, at the earliest line that settles it, and the
// concatenated output does not depend on where the chunks were split.
//
// Supported blocks are ATX and setext headings, paragraphs, fenced code
// blocks with syntax highlighting, ordered, bullet and task lists,
// blockquotes, GitHub callouts ([!NOTE] and friends), GFM tables and
// thematic breaks. Inline content covers emphasis, strikethrough, code
// spans, links (OSC 8 when enabled), images (kitty graphics when enabled),
// autolinks, a small set of inline HTML tags and HTML entities.
//
// Example:
//
//	p, err := mdriver.NewParser(mdriver.WithWidth(80))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, chunk := range []string{"# Hel", "lo\n\nMarkdown in, ", "ANSI out.\n"} {
//		fmt.Print(p.Feed(chunk))
//	}
//	fmt.Print(p.Flush())
//
// Render, HTTPRender and StreamSimulate wrap a Parser for io.Reader, HTTP
// and paced input.
package mdriver
