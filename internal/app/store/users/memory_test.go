package userstore_test

import (
	"context"
	"errors"
	"testing"

	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/domain/models"
)

func newUser(email string) models.User {
	return models.User{
		OrgID:    "org_AAAA0001",
		OrgName:  "Acme",
		UserType: models.UserTypeOrgUser,
		Role:     models.UserTypeOrgUser,
		Status:   models.UserStatusActive,
		Name:     "Test User",
		Email:    email,
	}
}

func TestCreateAndGet(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}
	if created.Version != 1 {
		t.Errorf("new user version = %d, want 1", created.Version)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Email != "jane@example.com" {
		t.Errorf("email = %q", got.Email)
	}
}

func TestGetByEmailCaseInsensitive(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, newUser("Jane@Example.com")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "JANE@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a user")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, newUser("jane@example.com")); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, newUser("JANE@example.com"))
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUpdateIncrementsVersion(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	created.Name = "Jane Doe"
	updated, err := store.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version after update = %d, want 2", updated.Version)
	}
	if updated.Name != "Jane Doe" {
		t.Errorf("name = %q", updated.Name)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	store := userstore.NewMemoryStore()

	u := newUser("ghost@example.com")
	u.ID = "usr_DEADBEEF"
	if _, err := store.Update(context.Background(), u); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDeleteHidesUser(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.SoftDelete(ctx, created.ID, "usr_ADMIN001")
	if err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected SoftDelete to report true")
	}

	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetByEmail(ctx, "jane@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("GetByEmail after delete: got %v, want ErrNotFound", err)
	}

	n, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count after delete = %d, want 0", n)
	}

	// Second delete is a no-op.
	again, err := store.SoftDelete(ctx, created.ID, "usr_ADMIN001")
	if err != nil {
		t.Fatalf("second SoftDelete failed: %v", err)
	}
	if again {
		t.Error("second SoftDelete should report false")
	}
}

func TestEmailReusableAfterDelete(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.SoftDelete(ctx, created.ID, "usr_ADMIN001"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if _, err := store.Create(ctx, newUser("jane@example.com")); err != nil {
		t.Errorf("email should be reusable after soft delete: %v", err)
	}
}

func TestEmailExists(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newUser("jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := store.EmailExists(ctx, "JANE@example.com", "")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if !exists {
		t.Error("expected EmailExists true")
	}

	// Excluding the owner means no conflict.
	exists, err = store.EmailExists(ctx, "jane@example.com", created.ID)
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if exists {
		t.Error("EmailExists should exclude the given id")
	}
}

func TestListScopesAndPages(t *testing.T) {
	store := userstore.NewMemoryStore()
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u := newUser(email)
		if email == "c@example.com" {
			u.OrgID = "org_BBBB0002"
		}
		if _, err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	scoped, err := store.List(ctx, "org_AAAA0001", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("scoped list = %d users, want 2", len(scoped))
	}

	all, err := store.List(ctx, "", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unscoped list = %d users, want 3", len(all))
	}

	page, err := store.List(ctx, "", 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("page 2 = %d users, want 1", len(page))
	}
}
