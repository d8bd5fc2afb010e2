// internal/domain/models/searchitem.go
package models

import "time"

// SearchableItem is the common result shape both search backends map into.
// It may be backed by an external index rather than a stored collection.
type SearchableItem struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	Title       string            `bson:"title" json:"title"`
	Description string            `bson:"description" json:"description"`
	Content     string            `bson:"content" json:"content"`
	Type        string            `bson:"type" json:"type"`
	Category    string            `bson:"category" json:"category"`
	URL         string            `bson:"url" json:"url"`
	ImageURL    string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Tags        []string          `bson:"tags" json:"tags"`
	Metadata    map[string]string `bson:"metadata" json:"metadata"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	ModifiedAt  *time.Time        `bson:"modifiedAt,omitempty" json:"modifiedAt,omitempty"`
	IsActive    bool              `bson:"isActive" json:"isActive"`
}
