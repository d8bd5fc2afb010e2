// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/coralhq/atrium/internal/domain/models"
)

// Repository errors shared by all implementations.
var (
	// ErrNotFound is returned when a user is absent or soft-deleted.
	// Callers cannot distinguish the two through this contract.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a non-deleted user already has the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

// Repository is the user store contract. Implementations are selected at
// startup: Mongo in production, the in-memory store for demos and tests.
//
// Every read and count excludes soft-deleted users. Ids are globally unique
// across tenants, so GetByID resolves without an org scope even though user
// documents are logically partitioned by orgId.
type Repository interface {
	// GetByID returns ErrNotFound for missing or soft-deleted users.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail resolves a non-deleted user by case-insensitive email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns one page ordered by creation time descending. An empty
	// orgID lists across all tenants. page is 1-based; the caller clamps
	// pageSize before calling.
	List(ctx context.Context, orgID string, page, pageSize int) ([]models.User, error)
	// Count counts non-deleted users, optionally scoped to one tenant.
	Count(ctx context.Context, orgID string) (int64, error)
	// Create assigns a fresh id when none is supplied, stamps timestamps,
	// and sets version to 1.
	Create(ctx context.Context, u models.User) (models.User, error)
	// Update writes the mutable fields, increments version by one relative
	// to the stored document, and refreshes ModifiedAt. There is no
	// compare-and-swap against a caller-observed version; concurrent
	// updates are last-write-wins. Returns ErrNotFound for missing or
	// soft-deleted users.
	Update(ctx context.Context, u models.User) (*models.User, error)
	// SoftDelete marks the user deleted. Returns false when no live user
	// with the id exists.
	SoftDelete(ctx context.Context, id, deletedBy string) (bool, error)
	// EmailExists reports whether a non-deleted user other than excludeID
	// holds the email (case-insensitive). Pass excludeID "" for creates.
	EmailExists(ctx context.Context, email string, excludeID string) (bool, error)
}

// mutableSet is the set of fields Update is allowed to touch, captured in
// one place so the Mongo and memory stores stay in agreement.
type mutableSet struct {
	OrgID      string
	OrgName    string
	UserType   string
	Role       string
	Status     string
	Name       string
	Email      string
	EmailCI    string
	Password   string
	ModifiedBy string
	ModifiedAt time.Time
}

func mutableFrom(u models.User, now time.Time) mutableSet {
	return mutableSet{
		OrgID:      u.OrgID,
		OrgName:    u.OrgName,
		UserType:   u.UserType,
		Role:       u.Role,
		Status:     u.Status,
		Name:       u.Name,
		Email:      u.Email,
		EmailCI:    u.EmailCI,
		Password:   u.PasswordHash,
		ModifiedBy: u.ModifiedBy,
		ModifiedAt: now,
	}
}
