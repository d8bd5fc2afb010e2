// internal/app/search/highlight.go
package search

import "strings"

const (
	highlightBefore   = 50
	highlightAfter    = 100
	highlightFallback = 150
)

// Highlight returns a snippet of content around the earliest occurrence of
// any query term. With no match (or no terms) it falls back to the first
// 150 characters. Ellipses mark where the window cuts into the content.
func Highlight(content string, terms []string) string {
	if content == "" {
		return ""
	}
	lower := strings.ToLower(content)

	match := -1
	for _, term := range terms {
		if term == "" {
			continue
		}
		if i := strings.Index(lower, term); i >= 0 && (match < 0 || i < match) {
			match = i
		}
	}

	if match < 0 {
		if len(content) <= highlightFallback {
			return content
		}
		return content[:highlightFallback] + "..."
	}

	start := match - highlightBefore
	if start < 0 {
		start = 0
	}
	end := match + highlightAfter
	if end > len(content) {
		end = len(content)
	}

	snippet := content[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet = snippet + "..."
	}
	return snippet
}
