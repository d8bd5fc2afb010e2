package search_test

import (
	"strings"
	"testing"

	"github.com/coralhq/atrium/internal/app/search"
)

func TestHighlightShortContent(t *testing.T) {
	got := search.Highlight("short content about apples", []string{"apples"})
	if got != "short content about apples" {
		t.Errorf("got %q, want full content", got)
	}
}

func TestHighlightWindow(t *testing.T) {
	content := strings.Repeat("x", 300) + "needle" + strings.Repeat("y", 300)
	got := search.Highlight(content, []string{"needle"})

	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipses on both sides, got %q", got)
	}
	if !strings.Contains(got, "needle") {
		t.Errorf("snippet should contain the match, got %q", got)
	}
	// 50 before + match + up to 100 after, plus ellipses.
	if len(got) > 3+50+6+100+3 {
		t.Errorf("snippet too long: %d chars", len(got))
	}
}

func TestHighlightMatchNearStart(t *testing.T) {
	content := "needle " + strings.Repeat("y", 300)
	got := search.Highlight(content, []string{"needle"})

	if strings.HasPrefix(got, "...") {
		t.Errorf("no leading ellipsis expected when match is at the start, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("trailing ellipsis expected, got %q", got)
	}
}

func TestHighlightEarliestTermWins(t *testing.T) {
	content := "alpha " + strings.Repeat("x", 200) + " beta"
	got := search.Highlight(content, []string{"beta", "alpha"})

	if !strings.Contains(got, "alpha") {
		t.Errorf("snippet should center on the earliest match, got %q", got)
	}
}

func TestHighlightNoMatchFallback(t *testing.T) {
	content := strings.Repeat("z", 400)
	got := search.Highlight(content, []string{"missing"})

	if len(got) != 153 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 150-char fallback plus ellipsis, got %d chars", len(got))
	}
}

func TestHighlightCaseInsensitive(t *testing.T) {
	got := search.Highlight("The NEEDLE is here", []string{"needle"})
	if !strings.Contains(got, "NEEDLE") {
		t.Errorf("match should be case-insensitive, got %q", got)
	}
}

func TestHighlightEmptyContent(t *testing.T) {
	if got := search.Highlight("", []string{"x"}); got != "" {
		t.Errorf("expected empty snippet, got %q", got)
	}
}
