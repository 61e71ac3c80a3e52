package mdriver

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	return truncate.StringWithTail(text, uint(limit), "…")
}

// fitURL shortens url for display within limit columns, first by dropping
// the scheme and then by truncating. A limit of zero or less means no limit.
func fitURL(url string, limit int) string {
	if limit <= 0 || ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
		url = trimmed
	}
	return truncateWithEllipsis(url, limit)
}
