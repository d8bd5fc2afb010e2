// internal/app/search/search.go

// Package search unifies an in-memory ranked full-text backend and an
// external hybrid (vector + full-text) backend behind one contract. Query
// sanitization, display scoring, and highlighting live here so both
// backends present identical result semantics.
package search

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/metrics"
	"github.com/coralhq/atrium/internal/app/system/paging"
	"github.com/coralhq/atrium/internal/domain/models"
)

// Request is a search call as received from the surface layer. Query is raw;
// the service sanitizes it exactly once.
type Request struct {
	Query    string
	Page     int
	PageSize int
	// Category and Type are the legacy exact-match filters.
	Category string
	Type     string
	// Filters holds arbitrary named multi-value filters. Values within one
	// key are ORed; keys are ANDed with everything else.
	Filters map[string][]string
}

// Result is one ranked item with presentation extras.
type Result struct {
	Item models.SearchableItem `json:"item"`
	// Score is the normalized 0-100 display score derived from rank
	// position, comparable across backends.
	Score float64 `json:"score"`
	// Highlight is a content snippet around the earliest term match.
	Highlight string `json:"highlight"`
}

// Response is the full search response shape.
type Response struct {
	Results    []Result         `json:"results"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	HasMore    bool             `json:"hasMore"`
	Facets     map[string]int64 `json:"facets"`
	ElapsedMS  int64            `json:"elapsedMs"`
}

// Engine is the backend contract. It only ever receives sanitized queries.
type Engine interface {
	// Search returns one ranked page of items plus the total match count.
	Search(ctx context.Context, sanitized string, page, pageSize int, category, itemType string, filters map[string][]string) ([]models.SearchableItem, int64, error)
	// FacetCounts returns match counts keyed "field:value".
	FacetCounts(ctx context.Context, sanitized string, filters map[string][]string) (map[string]int64, error)
	// Name identifies the backend for logs and metrics.
	Name() string
}

// Service fronts an Engine: it sanitizes, clamps paging, decorates results
// with display scores and highlights, and attaches facets and elapsed time.
type Service struct {
	engine Engine
	log    *zap.Logger
}

// NewService wraps engine.
func NewService(engine Engine, logger *zap.Logger) *Service {
	return &Service{engine: engine, log: logger}
}

// Search executes one search round trip.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	sanitized := Sanitize(req.Query)
	page, pageSize := paging.Clamp(req.Page, req.PageSize)

	items, total, err := s.engine.Search(ctx, sanitized, page, pageSize, req.Category, req.Type, req.Filters)
	if err != nil {
		s.log.Warn("search backend failed",
			zap.String("backend", s.engine.Name()), zap.Error(err))
		return nil, fault.Wrap(fault.Internal, "search failed", err)
	}

	facets, err := s.engine.FacetCounts(ctx, sanitized, req.Filters)
	if err != nil {
		s.log.Warn("facet counts failed",
			zap.String("backend", s.engine.Name()), zap.Error(err))
		return nil, fault.Wrap(fault.Internal, "search failed", err)
	}

	terms := Terms(sanitized)
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{
			Item:      item,
			Score:     displayScore(i, len(items)),
			Highlight: Highlight(item.Content, terms),
		}
	}

	elapsed := time.Since(started)
	metrics.Searches.WithLabelValues(s.engine.Name()).Inc()
	metrics.SearchDuration.WithLabelValues(s.engine.Name()).Observe(elapsed.Seconds())

	return &Response{
		Results:    results,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    paging.HasMore(page, pageSize, total),
		Facets:     facets,
		ElapsedMS:  elapsed.Milliseconds(),
	}, nil
}

// displayScore maps rank position within the returned page onto 0-100 with
// one decimal place. The raw backend score is never exposed, which keeps
// score semantics comparable across backends.
func displayScore(rankIndex, total int) float64 {
	if total <= 0 {
		return 0
	}
	score := float64(total-rankIndex) / float64(total) * 100
	return math.Round(score*10) / 10
}
