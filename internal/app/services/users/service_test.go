package usersvc_test

import (
	"testing"

	"go.uber.org/zap"

	usersvc "github.com/coralhq/atrium/internal/app/services/users"
	"github.com/coralhq/atrium/internal/app/system/credentials"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/domain/models"
	"github.com/coralhq/atrium/internal/testutil"
)

func newService(t *testing.T) (*usersvc.Service, *testutil.Fixtures, *credentials.Hasher) {
	t.Helper()
	f := testutil.NewFixtures(t)
	hasher := credentials.NewHasher("test-secret", credentials.WithIterations(1000))
	svc := usersvc.New(f.Users, f.Orgs, hasher, zap.NewNop())
	return svc, f, hasher
}

func TestGetCrossTenantForbidden(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	globex := f.CreateOrganization(ctx, "Globex")
	caller := f.CreateUser(ctx, acme, models.UserTypeOrgAdmin, "Acme Admin", "admin@acme.com")
	target := f.CreateUser(ctx, globex, models.UserTypeOrgUser, "Globex User", "user@globex.com")

	_, err := svc.Get(ctx, testutil.Identity(caller), target.ID)
	if fault.KindOf(err) != fault.Forbidden {
		t.Errorf("cross-tenant get should be Forbidden, got %v", err)
	}
}

func TestGetSameOrg(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	caller := f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com")
	other := f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Joe", "joe@acme.com")

	got, err := svc.Get(ctx, testutil.Identity(caller), other.ID)
	if err != nil {
		t.Fatalf("same-org get failed: %v", err)
	}
	if got.ID != other.ID {
		t.Errorf("got user %s, want %s", got.ID, other.ID)
	}
}

func TestGetPlatformAdminCrossesTenants(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	target := f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com")

	if _, err := svc.Get(ctx, testutil.Identity(admin), target.ID); err != nil {
		t.Errorf("platform admin get failed: %v", err)
	}
}

func TestGetMissingUserNotFound(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")

	_, err := svc.Get(ctx, testutil.Identity(admin), "usr_DEADBEEF")
	if fault.KindOf(err) != fault.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestListForciblyScoped(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	globex := f.CreateOrganization(ctx, "Globex")
	caller := f.CreateUser(ctx, acme, models.UserTypeOrgAdmin, "Acme Admin", "admin@acme.com")
	f.CreateUser(ctx, globex, models.UserTypeOrgUser, "Globex User", "user@globex.com")

	// Asking for another org's users still returns only the caller's org.
	page, err := svc.List(ctx, testutil.Identity(caller), globex.ID, 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, u := range page.Items {
		if u.OrgID != acme.ID {
			t.Errorf("list leaked user from org %s", u.OrgID)
		}
	}
	if page.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", page.TotalCount)
	}
}

func TestListPlatformAdminGlobal(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	globex := f.CreateOrganization(ctx, "Globex")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	f.CreateUser(ctx, acme, models.UserTypeOrgUser, "A", "a@acme.com")
	f.CreateUser(ctx, globex, models.UserTypeOrgUser, "B", "b@globex.com")

	page, err := svc.List(ctx, testutil.Identity(admin), "", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalCount != 3 {
		t.Errorf("global TotalCount = %d, want 3", page.TotalCount)
	}

	scoped, err := svc.List(ctx, testutil.Identity(admin), acme.ID, 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if scoped.TotalCount != 1 {
		t.Errorf("scoped TotalCount = %d, want 1", scoped.TotalCount)
	}
}

func TestCreateUser(t *testing.T) {
	svc, f, hasher := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")

	created, err := svc.Create(ctx, testutil.Identity(admin), usersvc.CreateParams{
		OrgID:    acme.ID,
		UserType: models.UserTypeOrgUser,
		Name:     "John Smith",
		Email:    "John@Acme.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Email != "john@acme.com" {
		t.Errorf("email should be normalized, got %q", created.Email)
	}
	if created.Role != models.UserTypeOrgUser {
		t.Errorf("role should default to the user type, got %q", created.Role)
	}
	if created.Status != models.UserStatusActive {
		t.Errorf("status = %q, want active", created.Status)
	}
	if created.OrgName != "Acme" {
		t.Errorf("org name = %q", created.OrgName)
	}

	// The initial password follows the derived formula.
	stored, err := f.Users.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !hasher.Verify("john_john", stored.PasswordHash) {
		t.Error("derived initial password should verify")
	}
}

func TestCreateRejectsPlatformAdminType(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")

	_, err := svc.Create(ctx, testutil.Identity(admin), usersvc.CreateParams{
		OrgID:    models.PlatformOrgID,
		UserType: models.UserTypePlatformAdmin,
		Name:     "Evil Admin",
		Email:    "evil@platform.com",
	})
	if fault.KindOf(err) != fault.Validation {
		t.Errorf("creating a platform admin should fail validation, got %v", err)
	}
}

func TestCreateForcedIntoCallerOrg(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	globex := f.CreateOrganization(ctx, "Globex")
	caller := f.CreateUser(ctx, acme, models.UserTypeOrgAdmin, "Acme Admin", "admin@acme.com")

	created, err := svc.Create(ctx, testutil.Identity(caller), usersvc.CreateParams{
		OrgID:    globex.ID, // ignored
		UserType: models.UserTypeOrgUser,
		Name:     "Jane",
		Email:    "jane@acme.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.OrgID != acme.ID {
		t.Errorf("user landed in org %s, want caller's org %s", created.OrgID, acme.ID)
	}
}

func TestCreateDuplicateEmailConflict(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com")

	_, err := svc.Create(ctx, testutil.Identity(admin), usersvc.CreateParams{
		OrgID:    acme.ID,
		UserType: models.UserTypeOrgUser,
		Name:     "Jane Two",
		Email:    "JANE@acme.com",
	})
	if fault.KindOf(err) != fault.Conflict {
		t.Errorf("duplicate email should be Conflict, got %v", err)
	}
}

func TestCreateMissingOrg(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")

	_, err := svc.Create(ctx, testutil.Identity(admin), usersvc.CreateParams{
		OrgID:    "org_DEADBEEF",
		UserType: models.UserTypeOrgUser,
		Name:     "Jane",
		Email:    "jane@nowhere.com",
	})
	if fault.KindOf(err) != fault.NotFound {
		t.Errorf("missing org should be NotFound, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	target := f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com")

	suspended := models.UserStatusSuspended
	updated, err := svc.Update(ctx, testutil.Identity(admin), target.ID, usersvc.UpdateParams{
		Status: &suspended,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.UserStatusSuspended {
		t.Errorf("status = %q, want suspended", updated.Status)
	}
	if updated.Name != "Jane" {
		t.Errorf("untouched field changed: name = %q", updated.Name)
	}
	if updated.Version != target.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, target.Version+1)
	}
}

func TestUpdateInvalidStatus(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	target := f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com")

	bad := "banished"
	_, err := svc.Update(ctx, testutil.Identity(admin), target.ID, usersvc.UpdateParams{Status: &bad})
	if fault.KindOf(err) != fault.Validation {
		t.Errorf("invalid status should fail validation, got %v", err)
	}
}

func TestUpdateCrossTenantForbidden(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	globex := f.CreateOrganization(ctx, "Globex")
	caller := f.CreateUser(ctx, acme, models.UserTypeOrgAdmin, "Acme Admin", "admin@acme.com")
	target := f.CreateUser(ctx, globex, models.UserTypeOrgUser, "Globex User", "user@globex.com")

	name := "Hijacked"
	_, err := svc.Update(ctx, testutil.Identity(caller), target.ID, usersvc.UpdateParams{Name: &name})
	if fault.KindOf(err) != fault.Forbidden {
		t.Errorf("cross-tenant update should be Forbidden, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	target := f.CreateUser(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com")

	if err := svc.Delete(ctx, testutil.Identity(admin), target.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := svc.Get(ctx, testutil.Identity(admin), target.ID)
	if fault.KindOf(err) != fault.NotFound {
		t.Errorf("deleted user should be NotFound, got %v", err)
	}
}

func TestDeletePlatformAdminForbidden(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	other := f.CreatePlatformAdmin(ctx, "Root Two", "root2@platform.com")

	err := svc.Delete(ctx, testutil.Identity(admin), other.ID)
	if fault.KindOf(err) != fault.Forbidden {
		t.Errorf("deleting a platform admin should be Forbidden, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, f, hasher := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	hash, err := hasher.Hash("old-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	u := f.CreateUserWithPassword(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com", hash)

	if err := svc.ChangePassword(ctx, testutil.Identity(u), "old-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	stored, err := f.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !hasher.Verify("new-password", stored.PasswordHash) {
		t.Error("new password should verify")
	}
	if hasher.Verify("old-password", stored.PasswordHash) {
		t.Error("old password should no longer verify")
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, f, hasher := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	hash, err := hasher.Hash("old-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	u := f.CreateUserWithPassword(ctx, acme, models.UserTypeOrgUser, "Jane", "jane@acme.com", hash)

	err = svc.ChangePassword(ctx, testutil.Identity(u), "wrong", "new-password")
	if fault.KindOf(err) != fault.Unauthorized {
		t.Errorf("wrong current password should be Unauthorized, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc, f, hasher := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")
	target := f.CreateUser(ctx, acme, models.UserTypeOrgAdmin, "John Smith", "john@acme.com")

	if err := svc.ResetPassword(ctx, testutil.Identity(admin), target.ID); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	stored, err := f.Users.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !hasher.Verify("john_john", stored.PasswordHash) {
		t.Error("reset password should follow the derived formula")
	}
}

func TestResetPlatformAdminByOrgAdminForbidden(t *testing.T) {
	svc, f, _ := newService(t)
	ctx := testutil.TestContext(t)

	acme := f.CreateOrganization(ctx, "Acme")
	caller := f.CreateUser(ctx, acme, models.UserTypeOrgAdmin, "Acme Admin", "admin@acme.com")
	admin := f.CreatePlatformAdmin(ctx, "Root", "root@platform.com")

	err := svc.ResetPassword(ctx, testutil.Identity(caller), admin.ID)
	if fault.KindOf(err) != fault.Forbidden {
		t.Errorf("org admin resetting a platform admin should be Forbidden, got %v", err)
	}
}
