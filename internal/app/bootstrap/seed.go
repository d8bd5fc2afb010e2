// internal/app/bootstrap/seed.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/app/system/credentials"
	"github.com/coralhq/atrium/internal/app/system/ids"
	"github.com/coralhq/atrium/internal/app/system/normalize"
	"github.com/coralhq/atrium/internal/domain/models"
)

// SeedPlatformAdmin creates the platform admin account on first startup.
// The initial password follows the derived formula, so the operator can log
// in knowing only the configured email and name. If a non-deleted user with
// the email already exists the seed is a no-op.
func SeedPlatformAdmin(ctx context.Context, users userstore.Repository, hasher *credentials.Hasher, cfg AdminConfig, logger *zap.Logger) error {
	email := normalize.Email(cfg.Email)
	name := normalize.Name(cfg.Name)

	existing, err := users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		return fmt.Errorf("look up platform admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := hasher.Hash(credentials.DerivedPassword(email, name))
	if err != nil {
		return fmt.Errorf("hash platform admin password: %w", err)
	}

	created, err := users.Create(ctx, models.User{
		ID:           ids.NewUserID(),
		OrgID:        models.PlatformOrgID,
		OrgName:      "Platform",
		UserType:     models.UserTypePlatformAdmin,
		Role:         models.UserTypePlatformAdmin,
		Status:       models.UserStatusActive,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("create platform admin: %w", err)
	}
	logger.Info("seeded platform admin",
		zap.String("userId", created.ID), zap.String("email", email))
	return nil
}

// DemoItems returns sample searchable content for the in-memory engine,
// so a fresh development instance has something to search.
func DemoItems() []models.SearchableItem {
	now := time.Now().UTC()
	recent := now.Add(-2 * 24 * time.Hour)
	older := now.Add(-45 * 24 * time.Hour)
	return []models.SearchableItem{
		{
			ID:          "item_GETSTART",
			Title:       "Getting Started with Atrium",
			Description: "First steps for new organizations",
			Content:     "Create your organization, invite users, and assign roles. Org admins manage their own tenant while platform admins manage every organization.",
			Type:        "guide",
			Category:    "docs",
			URL:         "/docs/getting-started",
			Tags:        []string{"onboarding", "organizations"},
			CreatedAt:   older,
			IsActive:    true,
		},
		{
			ID:          "item_ROLES",
			Title:       "Roles and Permissions",
			Description: "How role scoping works",
			Content:     "Every request carries an identity with a user type. Org users see their own organization; platform admins see everything.",
			Type:        "guide",
			Category:    "docs",
			URL:         "/docs/roles",
			Tags:        []string{"roles", "security"},
			CreatedAt:   recent,
			IsActive:    true,
		},
		{
			ID:          "item_APIREF",
			Title:       "API Reference",
			Description: "Endpoint reference for the REST API",
			Content:     "Authentication uses bearer tokens issued by the login endpoint. All list endpoints page with page and pageSize parameters.",
			Type:        "reference",
			Category:    "api",
			URL:         "/docs/api",
			Tags:        []string{"api", "reference"},
			CreatedAt:   recent,
			IsActive:    true,
		},
		{
			ID:          "item_RETIRED",
			Title:       "Legacy Import Tool",
			Description: "Retired bulk import workflow",
			Content:     "This workflow has been replaced and is kept for historical reference only.",
			Type:        "guide",
			Category:    "docs",
			URL:         "/docs/legacy-import",
			Tags:        []string{"deprecated"},
			CreatedAt:   older,
			IsActive:    false,
		},
	}
}
