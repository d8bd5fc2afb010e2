// internal/app/services/users/service.go

// Package usersvc enforces tenant-isolation and role rules on top of the
// user store. Every method takes the caller's identity explicitly; there is
// no ambient current-user lookup.
package usersvc

import (
	"context"
	"errors"

	"go.uber.org/zap"

	organizationstore "github.com/coralhq/atrium/internal/app/store/organizations"
	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/app/system/credentials"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/identity"
	"github.com/coralhq/atrium/internal/app/system/normalize"
	"github.com/coralhq/atrium/internal/app/system/paging"
	"github.com/coralhq/atrium/internal/domain/models"
)

// Service is the authorization-scoped user service.
type Service struct {
	users  userstore.Repository
	orgs   organizationstore.Repository
	hasher *credentials.Hasher
	log    *zap.Logger
}

// New wires the service.
func New(users userstore.Repository, orgs organizationstore.Repository, hasher *credentials.Hasher, logger *zap.Logger) *Service {
	return &Service{users: users, orgs: orgs, hasher: hasher, log: logger}
}

// Get returns one user. Non-platform-admin callers may only see users in
// their own org; a cross-tenant id yields Forbidden, not NotFound.
func (s *Service) Get(ctx context.Context, caller identity.Identity, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "get user")
	}
	if !caller.IsPlatformAdmin() && !caller.SameOrg(u.OrgID) {
		return nil, fault.New(fault.Forbidden, "access to this user is not permitted")
	}
	return u, nil
}

// List returns one page of users. Platform admins may list globally or
// scope to any org; everyone else is forcibly scoped to their own org no
// matter what filter they requested.
func (s *Service) List(ctx context.Context, caller identity.Identity, orgFilter string, page, pageSize int) (paging.Page[models.User], error) {
	page, pageSize = paging.Clamp(page, pageSize)

	scope := orgFilter
	if !caller.IsPlatformAdmin() {
		scope = caller.OrgID
	}

	items, err := s.users.List(ctx, scope, page, pageSize)
	if err != nil {
		return paging.Page[models.User]{}, s.storeErr(err, "list users")
	}
	total, err := s.users.Count(ctx, scope)
	if err != nil {
		return paging.Page[models.User]{}, s.storeErr(err, "count users")
	}
	return paging.NewPage(items, total, page, pageSize), nil
}

// CreateParams are the caller-supplied fields for a new user. The password
// is never client-supplied; it is derived from email and name.
type CreateParams struct {
	OrgID    string
	UserType string
	Role     string
	Name     string
	Email    string
}

// Create adds a user. Only org_user and org_admin may be created here;
// platform admins are seeded at startup. The initial password is the
// documented derived scheme, hashed before storage, and never returned.
func (s *Service) Create(ctx context.Context, caller identity.Identity, p CreateParams) (*models.User, error) {
	userType := normalize.UserType(p.UserType)
	if !models.ValidAssignableUserType(userType) {
		return nil, fault.Newf(fault.Validation, "userType must be %q or %q", models.UserTypeOrgUser, models.UserTypeOrgAdmin)
	}

	orgID := p.OrgID
	if !caller.IsPlatformAdmin() {
		// Non-platform admins always create inside their own tenant.
		orgID = caller.OrgID
	}
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			return nil, fault.New(fault.NotFound, "organization not found")
		}
		return nil, fault.Wrap(fault.Internal, "load organization", err)
	}

	email := normalize.Email(p.Email)
	exists, err := s.users.EmailExists(ctx, email, "")
	if err != nil {
		return nil, s.storeErr(err, "check email uniqueness")
	}
	if exists {
		return nil, fault.New(fault.Conflict, "a user with this email already exists")
	}

	role := normalize.Role(p.Role)
	if role == "" {
		role = userType
	}

	plaintext := credentials.DerivedPassword(email, p.Name)
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, models.User{
		OrgID:        org.ID,
		OrgName:      org.Name,
		UserType:     userType,
		Role:         role,
		Status:       models.UserStatusActive,
		Name:         normalize.Name(p.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedBy:    caller.UserID,
		ModifiedBy:   caller.UserID,
	})
	if err != nil {
		return nil, s.storeErr(err, "create user")
	}
	s.log.Info("user created",
		zap.String("userId", created.ID),
		zap.String("orgId", created.OrgID),
		zap.String("createdBy", caller.UserID))
	return &created, nil
}

// UpdateParams are the independently optional update fields. Nil leaves a
// field unchanged. Password can never be changed through Update.
type UpdateParams struct {
	Status   *string
	UserType *string
	Name     *string
	Email    *string
	Role     *string
}

// Update applies a partial update with the same tenant rules as Get.
func (s *Service) Update(ctx context.Context, caller identity.Identity, id string, p UpdateParams) (*models.User, error) {
	u, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if p.Status != nil {
		status := normalize.Status(*p.Status)
		if !models.ValidUserStatus(status) {
			return nil, fault.Newf(fault.Validation, "status must be %q or %q", models.UserStatusActive, models.UserStatusSuspended)
		}
		u.Status = status
	}
	if p.UserType != nil {
		userType := normalize.UserType(*p.UserType)
		if !models.ValidAssignableUserType(userType) {
			return nil, fault.Newf(fault.Validation, "userType must be %q or %q", models.UserTypeOrgUser, models.UserTypeOrgAdmin)
		}
		u.UserType = userType
	}
	if p.Name != nil {
		u.Name = normalize.Name(*p.Name)
	}
	if p.Email != nil {
		email := normalize.Email(*p.Email)
		exists, err := s.users.EmailExists(ctx, email, u.ID)
		if err != nil {
			return nil, s.storeErr(err, "check email uniqueness")
		}
		if exists {
			return nil, fault.New(fault.Conflict, "a user with this email already exists")
		}
		u.Email = email
	}
	if p.Role != nil {
		u.Role = normalize.Role(*p.Role)
	}
	u.ModifiedBy = caller.UserID

	updated, err := s.users.Update(ctx, *u)
	if err != nil {
		return nil, s.storeErr(err, "update user")
	}
	return updated, nil
}

// Delete soft-deletes a user. Platform admins can never be deleted through
// this path, not even by other platform admins.
func (s *Service) Delete(ctx context.Context, caller identity.Identity, id string) error {
	u, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if u.IsPlatformAdmin() {
		return fault.New(fault.Forbidden, "platform admins cannot be deleted")
	}

	ok, err := s.users.SoftDelete(ctx, id, caller.UserID)
	if err != nil {
		return s.storeErr(err, "delete user")
	}
	if !ok {
		return fault.New(fault.NotFound, "user not found")
	}
	s.log.Info("user deleted",
		zap.String("userId", id), zap.String("deletedBy", caller.UserID))
	return nil
}

// ChangePassword lets callers rotate their own password after proving the
// current one.
func (s *Service) ChangePassword(ctx context.Context, caller identity.Identity, currentPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return s.storeErr(err, "load user")
	}
	if !s.hasher.Verify(currentPassword, u.PasswordHash) {
		return fault.New(fault.Unauthorized, "current password is incorrect")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.ModifiedBy = caller.UserID
	if _, err := s.users.Update(ctx, *u); err != nil {
		return s.storeErr(err, "store new password")
	}
	return nil
}

// ResetPassword regenerates the derived password for a user and stores its
// hash. The plaintext follows the documented formula and is communicated
// out-of-band, never returned. A non-platform-admin may never reset a
// platform admin's password.
func (s *Service) ResetPassword(ctx context.Context, caller identity.Identity, id string) error {
	u, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if u.IsPlatformAdmin() && !caller.IsPlatformAdmin() {
		return fault.New(fault.Forbidden, "resetting a platform admin's password is not permitted")
	}

	plaintext := credentials.DerivedPassword(u.Email, u.Name)
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.ModifiedBy = caller.UserID
	if _, err := s.users.Update(ctx, *u); err != nil {
		return s.storeErr(err, "store reset password")
	}
	s.log.Info("password reset",
		zap.String("userId", id), zap.String("resetBy", caller.UserID))
	return nil
}

// storeErr translates store sentinels into the caller-facing taxonomy.
func (s *Service) storeErr(err error, op string) error {
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		return fault.New(fault.NotFound, "user not found")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return fault.New(fault.Conflict, "a user with this email already exists")
	default:
		return fault.Wrap(fault.Internal, op, err)
	}
}
