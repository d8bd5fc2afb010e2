// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"

	"github.com/coralhq/atrium/internal/domain/models"
)

// Repository errors shared by all implementations.
var (
	// ErrNotFound is returned when an organization is absent or soft-deleted.
	ErrNotFound = errors.New("organization not found")
	// ErrDuplicateName is returned when a non-deleted organization already
	// has the name.
	ErrDuplicateName = errors.New("an organization with this name already exists")
)

// Repository is the organization store contract. Organizations are
// single-partition entities: the id doubles as the partition key.
type Repository interface {
	// GetByID returns ErrNotFound for missing or soft-deleted organizations.
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	// List returns one page of non-deleted organizations ordered by
	// creation time descending. page is 1-based; the caller clamps pageSize.
	List(ctx context.Context, page, pageSize int) ([]models.Organization, error)
	// Count counts non-deleted organizations.
	Count(ctx context.Context) (int64, error)
	// Create assigns a fresh id when none is supplied, mirrors it into
	// OrgID, stamps timestamps, and sets version to 1.
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
	// Update writes the mutable fields, increments version by one, and
	// refreshes ModifiedAt. Last write wins; there is no version
	// precondition. Returns ErrNotFound for missing or soft-deleted orgs.
	Update(ctx context.Context, org models.Organization) (*models.Organization, error)
	// SoftDelete marks the organization deleted. Returns false when no
	// live organization with the id exists.
	SoftDelete(ctx context.Context, id, deletedBy string) (bool, error)
	// NameExists reports whether a non-deleted organization other than
	// excludeID holds the name (case-insensitive). Pass excludeID "" for
	// creates.
	NameExists(ctx context.Context, name string, excludeID string) (bool, error)
}
