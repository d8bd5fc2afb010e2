package bootstrap_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/bootstrap"
	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/app/system/credentials"
	"github.com/coralhq/atrium/internal/domain/models"
)

func TestSeedPlatformAdmin(t *testing.T) {
	store := userstore.NewMemoryStore()
	hasher := credentials.NewHasher("test-secret", credentials.WithIterations(1000))
	cfg := bootstrap.AdminConfig{Email: "Admin@Atrium.local", Name: "Platform Admin"}
	ctx := context.Background()

	if err := bootstrap.SeedPlatformAdmin(ctx, store, hasher, cfg, zap.NewNop()); err != nil {
		t.Fatalf("SeedPlatformAdmin failed: %v", err)
	}

	admin, err := store.GetByEmail(ctx, "admin@atrium.local")
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}
	if admin.UserType != models.UserTypePlatformAdmin {
		t.Errorf("user type = %q", admin.UserType)
	}
	if admin.OrgID != models.PlatformOrgID {
		t.Errorf("org id = %q, want %q", admin.OrgID, models.PlatformOrgID)
	}
	if !hasher.Verify(credentials.DerivedPassword("admin@atrium.local", "Platform Admin"), admin.PasswordHash) {
		t.Error("seeded password should follow the derived formula")
	}

	// Seeding again is a no-op.
	if err := bootstrap.SeedPlatformAdmin(ctx, store, hasher, cfg, zap.NewNop()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	n, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one admin, got %d", n)
	}
}
