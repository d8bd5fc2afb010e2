// internal/app/search/memory.go
package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coralhq/atrium/internal/domain/models"
)

// Scoring table for the in-memory backend, applied per query term.
const (
	titleWeight       = 10
	tagWeight         = 5
	descriptionWeight = 3
	contentWeight     = 1
)

// Recency multipliers.
const (
	freshWindow      = 7 * 24 * time.Hour
	recentWindow     = 30 * 24 * time.Hour
	freshMultiplier  = 1.5
	recentMultiplier = 1.2
)

// MemoryEngine is the default backend when no external engine is
// configured. It holds the item set in process and ranks with a simple
// weighted substring score. Access is serialized the same way as the demo
// stores: fine for demos and tests, not for concurrent mutation at scale.
type MemoryEngine struct {
	mu    sync.RWMutex
	items []models.SearchableItem
	clock func() time.Time
}

var _ Engine = (*MemoryEngine)(nil)

// NewMemoryEngine returns an engine over the given items.
func NewMemoryEngine(items []models.SearchableItem) *MemoryEngine {
	return &MemoryEngine{items: items, clock: time.Now}
}

// Add appends items to the searchable set.
func (e *MemoryEngine) Add(items ...models.SearchableItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = append(e.items, items...)
}

func (e *MemoryEngine) Name() string { return "memory" }

type scored struct {
	item  models.SearchableItem
	score float64
	pos   int // original collection order, the tie-breaker
}

func (e *MemoryEngine) Search(ctx context.Context, sanitized string, page, pageSize int, category, itemType string, filters map[string][]string) ([]models.SearchableItem, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	ranked := e.rank(sanitized, category, itemType, filters)

	total := int64(len(ranked))
	offset := (page - 1) * pageSize
	if offset >= len(ranked) {
		return []models.SearchableItem{}, total, nil
	}
	end := offset + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	pageItems := make([]models.SearchableItem, 0, end-offset)
	for _, sc := range ranked[offset:end] {
		pageItems = append(pageItems, sc.item)
	}
	return pageItems, total, nil
}

func (e *MemoryEngine) FacetCounts(ctx context.Context, sanitized string, filters map[string][]string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, sc := range e.rank(sanitized, "", "", filters) {
		if sc.item.Type != "" {
			counts["type:"+sc.item.Type]++
		}
		if sc.item.Category != "" {
			counts["category:"+sc.item.Category]++
		}
	}
	return counts, nil
}

// rank filters the active set and orders by descending score with the
// original collection order breaking ties (stable).
func (e *MemoryEngine) rank(sanitized, category, itemType string, filters map[string][]string) []scored {
	terms := Terms(sanitized)
	now := e.clock()

	e.mu.RLock()
	defer e.mu.RUnlock()

	ranked := make([]scored, 0, len(e.items))
	for pos, item := range e.items {
		if !item.IsActive {
			continue
		}
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		if itemType != "" && !strings.EqualFold(item.Type, itemType) {
			continue
		}
		if !matchesNamedFilters(item, filters) {
			continue
		}
		if len(terms) > 0 && !matchesAnyTerm(item, terms) {
			continue
		}
		ranked = append(ranked, scored{
			item:  item,
			score: scoreItem(item, terms, now),
			pos:   pos,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})
	return ranked
}

// matchesAnyTerm reports whether any term is a substring of the item's
// title, description, content, any tag, or category.
func matchesAnyTerm(item models.SearchableItem, terms []string) bool {
	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)
	content := strings.ToLower(item.Content)
	category := strings.ToLower(item.Category)
	for _, term := range terms {
		if strings.Contains(title, term) ||
			strings.Contains(desc, term) ||
			strings.Contains(content, term) ||
			strings.Contains(category, term) {
			return true
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
	}
	return false
}

// matchesNamedFilters applies the named multi-value filters to an item:
// values within a key are ORed, keys are ANDed. "type" and "category" hit
// the built-in fields; any other key looks up item metadata.
func matchesNamedFilters(item models.SearchableItem, filters map[string][]string) bool {
	for key, values := range filters {
		if len(values) == 0 {
			continue
		}
		var got string
		switch strings.ToLower(key) {
		case "type":
			got = item.Type
		case "category":
			got = item.Category
		default:
			got = item.Metadata[key]
		}
		matched := false
		for _, v := range values {
			if strings.EqualFold(got, v) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func scoreItem(item models.SearchableItem, terms []string, now time.Time) float64 {
	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)
	content := strings.ToLower(item.Content)

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += tagWeight
				break
			}
		}
		if strings.Contains(desc, term) {
			score += descriptionWeight
		}
		if strings.Contains(content, term) {
			score += contentWeight
		}
	}

	age := now.Sub(item.CreatedAt)
	switch {
	case age < freshWindow:
		score *= freshMultiplier
	case age < recentWindow:
		score *= recentMultiplier
	}
	return score
}
