package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	organizationstore "github.com/coralhq/atrium/internal/app/store/organizations"
	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/app/system/identity"
	"github.com/coralhq/atrium/internal/app/system/ids"
	"github.com/coralhq/atrium/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data over the
// in-memory stores.
type Fixtures struct {
	Users *userstore.MemoryStore
	Orgs  *organizationstore.MemoryStore
	t     *testing.T
}

// NewFixtures creates a Fixtures instance with fresh in-memory stores.
func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	return &Fixtures{
		Users: userstore.NewMemoryStore(),
		Orgs:  organizationstore.NewMemoryStore(),
		t:     t,
	}
}

// CreateOrganization creates a test organization with the given name and
// an active status.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()
	return f.CreateOrganizationWithStatus(ctx, name, models.OrgStatusActive)
}

// CreateOrganizationWithStatus creates a test organization in the given
// status.
func (f *Fixtures) CreateOrganizationWithStatus(ctx context.Context, name, status string) models.Organization {
	f.t.Helper()

	org, err := f.Orgs.Create(ctx, models.Organization{
		Name:   name,
		Status: status,
		Contact: models.Contact{
			Email: "contact@example.com",
		},
		Subscription: models.Subscription{
			Limits: models.SubscriptionLimits{UserLimit: models.DefaultUserLimit},
		},
	})
	if err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates an active test user in the given organization.
func (f *Fixtures) CreateUser(ctx context.Context, org models.Organization, userType, name, email string) models.User {
	f.t.Helper()
	return f.CreateUserWithPassword(ctx, org, userType, name, email, "")
}

// CreateUserWithPassword creates an active test user carrying the given
// password hash.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, org models.Organization, userType, name, email, passwordHash string) models.User {
	f.t.Helper()

	u, err := f.Users.Create(ctx, models.User{
		ID:           ids.NewUserID(),
		OrgID:        org.ID,
		OrgName:      org.Name,
		UserType:     userType,
		Role:         userType,
		Status:       models.UserStatusActive,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreatePlatformAdmin creates an active platform admin user.
func (f *Fixtures) CreatePlatformAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	u, err := f.Users.Create(ctx, models.User{
		ID:       ids.NewUserID(),
		OrgID:    models.PlatformOrgID,
		OrgName:  "Platform",
		UserType: models.UserTypePlatformAdmin,
		Role:     models.UserTypePlatformAdmin,
		Status:   models.UserStatusActive,
		Name:     name,
		Email:    email,
	})
	if err != nil {
		f.t.Fatalf("failed to create test platform admin: %v", err)
	}
	return u
}

// Identity builds a caller identity for the given user.
func Identity(u models.User) identity.Identity {
	return identity.Identity{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		UserType: u.UserType,
		OrgID:    u.OrgID,
		OrgName:  u.OrgName,
	}
}

// TestContext returns a context with a deadline tied to the test.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
