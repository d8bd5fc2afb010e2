// internal/app/search/qdrant.go
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/coralhq/atrium/internal/domain/models"
)

// maxGrpcMessageSize caps qdrant gRPC messages at 32MB, enough for large
// payload pages without unbounded buffers.
const maxGrpcMessageSize = 32 * 1024 * 1024

// Embedder converts query text into a vector. The external backend owns
// text-to-vector conversion; the engine only forwards the result.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// QdrantConfig configures the external hybrid backend.
type QdrantConfig struct {
	Host       string
	Port       int
	UseTLS     bool
	APIKey     string
	Collection string

	// VectorField selects a named vector in the collection; empty uses the
	// default unnamed vector.
	VectorField string
	// K is the nearest-neighbor candidate count for the vector branch.
	K int
	// VectorEnabled turns the vector branch on. With it off the engine is
	// filter-only.
	VectorEnabled bool

	// DefaultFilters are always ANDed into every query.
	DefaultFilters map[string]string
	// FilterFields receive the legacy category/type values, in that order.
	FilterFields []string
	// FacetFields are the payload fields faceted on.
	FacetFields []string
	// FieldMapping maps common-shape field names to backend payload keys.
	// Missing entries fall back to the field name itself.
	FieldMapping map[string]string
}

func (c *QdrantConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.K == 0 {
		c.K = 50
	}
	if len(c.FilterFields) == 0 {
		c.FilterFields = []string{"category", "type"}
	}
	if len(c.FacetFields) == 0 {
		c.FacetFields = []string{"type", "category"}
	}
}

// QdrantEngine is the external hybrid backend, selected when a qdrant host
// is configured. Ranking is the backend's business; this engine composes
// filters, forwards the vector query, and maps payloads back into the
// common item shape.
type QdrantEngine struct {
	client   *qdrant.Client
	embedder Embedder
	cfg      QdrantConfig
	log      *zap.Logger
}

var _ Engine = (*QdrantEngine)(nil)

// NewQdrantEngine connects to the configured qdrant instance.
func NewQdrantEngine(cfg QdrantConfig, embedder Embedder, logger *zap.Logger) (*QdrantEngine, error) {
	cfg.applyDefaults()
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
		APIKey: cfg.APIKey,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(maxGrpcMessageSize),
				grpc.MaxCallSendMsgSize(maxGrpcMessageSize),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}
	return &QdrantEngine{client: client, embedder: embedder, cfg: cfg, log: logger}, nil
}

func (e *QdrantEngine) Name() string { return "qdrant" }

func (e *QdrantEngine) Search(ctx context.Context, sanitized string, page, pageSize int, category, itemType string, filters map[string][]string) ([]models.SearchableItem, int64, error) {
	comp := ComposeFilter(e.cfg.DefaultFilters, e.cfg.FilterFields, category, itemType, filters)
	filter := comp.Qdrant()
	e.log.Debug("qdrant search",
		zap.String("query", sanitized),
		zap.String("filter", comp.String()))

	query := &qdrant.QueryPoints{
		CollectionName: e.cfg.Collection,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         filter,
	}

	offset := (page - 1) * pageSize
	fetch := uint64(offset + pageSize)

	if e.cfg.VectorEnabled && sanitized != "" && e.embedder != nil {
		vector, err := e.embedder.EmbedQuery(ctx, sanitized)
		if err != nil {
			return nil, 0, fmt.Errorf("embedding query: %w", err)
		}
		query.Query = qdrant.NewQuery(vector...)
		if e.cfg.VectorField != "" {
			query.Using = &e.cfg.VectorField
		}
		// The vector branch only ever considers K nearest neighbors.
		if fetch > uint64(e.cfg.K) {
			fetch = uint64(e.cfg.K)
		}
	}
	query.Limit = qdrant.PtrOf(fetch)

	points, err := e.client.Query(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("querying collection %s: %w", e.cfg.Collection, err)
	}

	total, err := e.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: e.cfg.Collection,
		Filter:         filter,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("counting collection %s: %w", e.cfg.Collection, err)
	}

	items := make([]models.SearchableItem, 0, len(points))
	for _, point := range points {
		item, ok := e.mapPayload(point.Payload)
		if !ok {
			// A document without a usable id is dropped, never fatal.
			e.log.Warn("dropping document without id field",
				zap.String("collection", e.cfg.Collection))
			continue
		}
		items = append(items, item)
	}

	if offset >= len(items) {
		return []models.SearchableItem{}, int64(total), nil
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], int64(total), nil
}

func (e *QdrantEngine) FacetCounts(ctx context.Context, sanitized string, filters map[string][]string) (map[string]int64, error) {
	comp := ComposeFilter(e.cfg.DefaultFilters, e.cfg.FilterFields, "", "", filters)
	filter := comp.Qdrant()

	counts := make(map[string]int64)
	for _, field := range e.cfg.FacetFields {
		hits, err := e.client.Facet(ctx, &qdrant.FacetCounts{
			CollectionName: e.cfg.Collection,
			Key:            e.payloadKey(field),
			Filter:         filter,
		})
		if err != nil {
			return nil, fmt.Errorf("faceting %s on %s: %w", e.cfg.Collection, field, err)
		}
		for _, hit := range hits {
			value := hit.GetValue().GetStringValue()
			if value == "" {
				continue
			}
			counts[field+":"+value] = int64(hit.GetCount())
		}
	}
	return counts, nil
}

// payloadKey resolves a common-shape field name through the field mapping.
func (e *QdrantEngine) payloadKey(field string) string {
	if mapped, ok := e.cfg.FieldMapping[field]; ok && mapped != "" {
		return mapped
	}
	return field
}

// mapPayload converts an arbitrary backend payload into the common item
// shape, tolerating missing fields. Returns ok=false when the id field is
// absent or empty.
func (e *QdrantEngine) mapPayload(payload map[string]*qdrant.Value) (models.SearchableItem, bool) {
	str := func(field string) string {
		if v, ok := payload[e.payloadKey(field)]; ok {
			return v.GetStringValue()
		}
		return ""
	}

	id := str("id")
	if id == "" {
		return models.SearchableItem{}, false
	}

	item := models.SearchableItem{
		ID:          id,
		Title:       str("title"),
		Description: str("description"),
		Content:     str("content"),
		Type:        str("type"),
		Category:    str("category"),
		URL:         str("url"),
		ImageURL:    str("imageUrl"),
		IsActive:    true,
	}

	if v, ok := payload[e.payloadKey("tags")]; ok {
		for _, lv := range v.GetListValue().GetValues() {
			if tag := lv.GetStringValue(); tag != "" {
				item.Tags = append(item.Tags, tag)
			}
		}
	}
	if v, ok := payload[e.payloadKey("isActive")]; ok {
		item.IsActive = v.GetBoolValue()
	}
	if ts := str("createdAt"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			item.CreatedAt = t
		}
	}
	if ts := str("modifiedAt"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			item.ModifiedAt = &t
		}
	}
	return item, true
}
