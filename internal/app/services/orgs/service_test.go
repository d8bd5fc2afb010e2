package orgsvc_test

import (
	"testing"

	"go.uber.org/zap"

	orgsvc "github.com/coralhq/atrium/internal/app/services/orgs"
	organizationstore "github.com/coralhq/atrium/internal/app/store/organizations"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/identity"
	"github.com/coralhq/atrium/internal/domain/models"
	"github.com/coralhq/atrium/internal/testutil"
)

func newService(t *testing.T) (*orgsvc.Service, *organizationstore.MemoryStore) {
	t.Helper()
	store := organizationstore.NewMemoryStore()
	return orgsvc.New(store, zap.NewNop()), store
}

func admin() identity.Identity {
	return identity.Identity{
		UserID:   "usr_ADMIN001",
		UserType: models.UserTypePlatformAdmin,
		Role:     models.UserTypePlatformAdmin,
		OrgID:    models.PlatformOrgID,
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	org, err := svc.Create(ctx, admin(), orgsvc.CreateParams{
		Name: "Acme",
		Contact: models.Contact{
			Email: "Contact@Acme.com",
			Phone: models.Phone{CountryCode: "+1", Number: "5551234567"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if org.Status != models.OrgStatusActive {
		t.Errorf("status should default to active, got %q", org.Status)
	}
	if org.Subscription.Limits.UserLimit != models.DefaultUserLimit {
		t.Errorf("user limit should default to %d, got %d", models.DefaultUserLimit, org.Subscription.Limits.UserLimit)
	}
	if org.Contact.Phone.E164 != "+15551234567" {
		t.Errorf("E164 = %q, want +15551234567", org.Contact.Phone.E164)
	}
	if org.Contact.Email != "contact@acme.com" {
		t.Errorf("contact email should be normalized, got %q", org.Contact.Email)
	}
}

func TestCreateEmptyName(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	_, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "   "})
	if fault.KindOf(err) != fault.Validation {
		t.Errorf("blank name should fail validation, got %v", err)
	}
}

func TestCreateInvalidStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	_, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Acme", Status: "dormant"})
	if fault.KindOf(err) != fault.Validation {
		t.Errorf("invalid status should fail validation, got %v", err)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	if _, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Acme"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "acme"})
	if fault.KindOf(err) != fault.Conflict {
		t.Errorf("case-insensitive duplicate should be Conflict, got %v", err)
	}
}

func TestUpdateKeepingOwnName(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	org, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Re-submitting the unchanged name must not trip the uniqueness check.
	name := "Acme"
	if _, err := svc.Update(ctx, admin(), org.ID, orgsvc.UpdateParams{Name: &name}); err != nil {
		t.Errorf("update with unchanged name failed: %v", err)
	}
}

func TestUpdateRename(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	org, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Globex"}); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	taken := "Globex"
	_, err = svc.Update(ctx, admin(), org.ID, orgsvc.UpdateParams{Name: &taken})
	if fault.KindOf(err) != fault.Conflict {
		t.Errorf("renaming onto a taken name should be Conflict, got %v", err)
	}

	fresh := "Acme Industries"
	updated, err := svc.Update(ctx, admin(), org.ID, orgsvc.UpdateParams{Name: &fresh})
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if updated.Name != "Acme Industries" {
		t.Errorf("name = %q", updated.Name)
	}
}

func TestUpdateContactRecomputesE164(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	org, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	contact := models.Contact{
		Email: "new@acme.com",
		Phone: models.Phone{CountryCode: "+44", Number: "2071234567"},
	}
	updated, err := svc.Update(ctx, admin(), org.ID, orgsvc.UpdateParams{Contact: &contact})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Contact.Phone.E164 != "+442071234567" {
		t.Errorf("E164 = %q, want +442071234567", updated.Contact.Phone.E164)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	org, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, admin(), org.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = svc.Get(ctx, org.ID)
	if fault.KindOf(err) != fault.NotFound {
		t.Errorf("deleted org should be NotFound, got %v", err)
	}

	err = svc.Delete(ctx, admin(), org.ID)
	if fault.KindOf(err) != fault.NotFound {
		t.Errorf("second delete should be NotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	svc, _ := newService(t)
	ctx := testutil.TestContext(t)

	for _, name := range []string{"Acme", "Globex", "Initech"} {
		if _, err := svc.Create(ctx, admin(), orgsvc.CreateParams{Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	page, err := svc.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalCount != 3 || len(page.Items) != 2 || !page.HasMore {
		t.Errorf("unexpected page: total=%d len=%d hasMore=%v", page.TotalCount, len(page.Items), page.HasMore)
	}
}
