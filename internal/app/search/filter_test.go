package search_test

import (
	"testing"

	"github.com/coralhq/atrium/internal/app/search"
)

func TestComposeFilterString(t *testing.T) {
	c := search.ComposeFilter(
		map[string]string{"tenant": "acme"},
		[]string{"category", "type"},
		"docs", "guide",
		map[string][]string{"region": {"north", "south"}},
	)

	want := "tenant eq 'acme' and category eq 'docs' and type eq 'guide' and (region eq 'north' or region eq 'south')"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestComposeFilterEmpty(t *testing.T) {
	c := search.ComposeFilter(nil, []string{"category", "type"}, "", "", nil)
	if !c.Empty() {
		t.Error("expected empty composition")
	}
	if c.String() != "" {
		t.Errorf("String() = %q, want empty", c.String())
	}
	if c.Qdrant() != nil {
		t.Error("Qdrant() should be nil for an empty composition")
	}
}

func TestComposeFilterEscapesQuotes(t *testing.T) {
	c := search.ComposeFilter(nil, []string{"category"}, "O'Brien's", "", nil)

	want := "category eq 'O''Brien''s'"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestComposeFilterDefaultsSorted(t *testing.T) {
	c := search.ComposeFilter(
		map[string]string{"zone": "eu", "app": "atrium"},
		nil, "", "", nil,
	)

	want := "app eq 'atrium' and zone eq 'eu'"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestComposeFilterQdrant(t *testing.T) {
	c := search.ComposeFilter(
		map[string]string{"tenant": "acme"},
		[]string{"category"},
		"docs", "",
		map[string][]string{"region": {"north", "south"}},
	)

	f := c.Qdrant()
	if f == nil {
		t.Fatal("expected a filter")
	}
	if len(f.Must) != 3 {
		t.Fatalf("expected 3 must conditions, got %d", len(f.Must))
	}

	// The multi-value clause nests as a Should sub-filter.
	nested := f.Must[2].GetFilter()
	if nested == nil {
		t.Fatal("expected nested filter for the multi-value clause")
	}
	if len(nested.Should) != 2 {
		t.Errorf("expected 2 should conditions, got %d", len(nested.Should))
	}

	first := f.Must[0].GetField()
	if first == nil || first.Key != "tenant" {
		t.Errorf("first must condition should match tenant, got %+v", f.Must[0])
	}
	if first.Match.GetKeyword() != "acme" {
		t.Errorf("tenant keyword = %q, want acme", first.Match.GetKeyword())
	}
}
