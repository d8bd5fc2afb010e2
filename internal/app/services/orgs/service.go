// internal/app/services/orgs/service.go

// Package orgsvc implements organization CRUD. These methods are only
// reachable by platform admins; the HTTP layer guarantees that before any
// call lands here, so the service validates input rather than role.
package orgsvc

import (
	"context"
	"errors"

	"go.uber.org/zap"

	organizationstore "github.com/coralhq/atrium/internal/app/store/organizations"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/identity"
	"github.com/coralhq/atrium/internal/app/system/normalize"
	"github.com/coralhq/atrium/internal/app/system/paging"
	"github.com/coralhq/atrium/internal/domain/models"
)

// Service is the organization service.
type Service struct {
	orgs organizationstore.Repository
	log  *zap.Logger
}

// New wires the service.
func New(orgs organizationstore.Repository, logger *zap.Logger) *Service {
	return &Service{orgs: orgs, log: logger}
}

// Get returns one organization.
func (s *Service) Get(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "get organization")
	}
	return org, nil
}

// List returns one page of organizations.
func (s *Service) List(ctx context.Context, page, pageSize int) (paging.Page[models.Organization], error) {
	page, pageSize = paging.Clamp(page, pageSize)
	items, err := s.orgs.List(ctx, page, pageSize)
	if err != nil {
		return paging.Page[models.Organization]{}, s.storeErr(err, "list organizations")
	}
	total, err := s.orgs.Count(ctx)
	if err != nil {
		return paging.Page[models.Organization]{}, s.storeErr(err, "count organizations")
	}
	return paging.NewPage(items, total, page, pageSize), nil
}

// CreateParams are the fields for a new organization.
type CreateParams struct {
	Name      string
	Status    string
	Contact   models.Contact
	UserLimit int
}

// Create adds an organization. Name uniqueness is case-insensitive among
// non-deleted orgs; the phone E164 form and the default user limit are
// computed here.
func (s *Service) Create(ctx context.Context, caller identity.Identity, p CreateParams) (*models.Organization, error) {
	name := normalize.Name(p.Name)
	if name == "" {
		return nil, fault.New(fault.Validation, "organization name must not be empty")
	}

	status := normalize.Status(p.Status)
	if status == "" {
		status = models.OrgStatusActive
	}
	if !models.ValidOrgStatus(status) {
		return nil, fault.Newf(fault.Validation, "status must be %q, %q, or %q",
			models.OrgStatusActive, models.OrgStatusSuspended, models.OrgStatusCancelled)
	}

	exists, err := s.orgs.NameExists(ctx, name, "")
	if err != nil {
		return nil, s.storeErr(err, "check name uniqueness")
	}
	if exists {
		return nil, fault.New(fault.Conflict, "an organization with this name already exists")
	}

	contact := p.Contact
	contact.Email = normalize.Email(contact.Email)
	contact.Phone.E164 = contact.Phone.CountryCode + contact.Phone.Number

	userLimit := p.UserLimit
	if userLimit <= 0 {
		userLimit = models.DefaultUserLimit
	}

	created, err := s.orgs.Create(ctx, models.Organization{
		Name:    name,
		Status:  status,
		Contact: contact,
		Subscription: models.Subscription{
			Limits: models.SubscriptionLimits{UserLimit: userLimit},
		},
		CreatedBy:  caller.UserID,
		ModifiedBy: caller.UserID,
	})
	if err != nil {
		return nil, s.storeErr(err, "create organization")
	}
	s.log.Info("organization created",
		zap.String("orgId", created.ID), zap.String("createdBy", caller.UserID))
	return &created, nil
}

// UpdateParams are the independently optional update fields.
type UpdateParams struct {
	Name      *string
	Status    *string
	Contact   *models.Contact
	UserLimit *int
}

// Update applies a partial update. Name uniqueness is re-checked only when
// the name changes, excluding the org itself.
func (s *Service) Update(ctx context.Context, caller identity.Identity, id string, p UpdateParams) (*models.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, "get organization")
	}

	if p.Name != nil {
		name := normalize.Name(*p.Name)
		if name == "" {
			return nil, fault.New(fault.Validation, "organization name must not be empty")
		}
		if name != org.Name {
			exists, err := s.orgs.NameExists(ctx, name, org.ID)
			if err != nil {
				return nil, s.storeErr(err, "check name uniqueness")
			}
			if exists {
				return nil, fault.New(fault.Conflict, "an organization with this name already exists")
			}
		}
		org.Name = name
	}
	if p.Status != nil {
		status := normalize.Status(*p.Status)
		if !models.ValidOrgStatus(status) {
			return nil, fault.Newf(fault.Validation, "status must be %q, %q, or %q",
				models.OrgStatusActive, models.OrgStatusSuspended, models.OrgStatusCancelled)
		}
		org.Status = status
	}
	if p.Contact != nil {
		contact := *p.Contact
		contact.Email = normalize.Email(contact.Email)
		contact.Phone.E164 = contact.Phone.CountryCode + contact.Phone.Number
		org.Contact = contact
	}
	if p.UserLimit != nil && *p.UserLimit > 0 {
		org.Subscription.Limits.UserLimit = *p.UserLimit
	}
	org.ModifiedBy = caller.UserID

	updated, err := s.orgs.Update(ctx, *org)
	if err != nil {
		return nil, s.storeErr(err, "update organization")
	}
	return updated, nil
}

// Delete soft-deletes an organization.
func (s *Service) Delete(ctx context.Context, caller identity.Identity, id string) error {
	ok, err := s.orgs.SoftDelete(ctx, id, caller.UserID)
	if err != nil {
		return s.storeErr(err, "delete organization")
	}
	if !ok {
		return fault.New(fault.NotFound, "organization not found")
	}
	s.log.Info("organization deleted",
		zap.String("orgId", id), zap.String("deletedBy", caller.UserID))
	return nil
}

func (s *Service) storeErr(err error, op string) error {
	switch {
	case errors.Is(err, organizationstore.ErrNotFound):
		return fault.New(fault.NotFound, "organization not found")
	case errors.Is(err, organizationstore.ErrDuplicateName):
		return fault.New(fault.Conflict, "an organization with this name already exists")
	default:
		return fault.Wrap(fault.Internal, op, err)
	}
}
