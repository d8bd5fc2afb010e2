// internal/app/system/identity/identity.go
package identity

import "github.com/coralhq/atrium/internal/domain/models"

// Identity is the caller's resolved identity, passed explicitly into every
// service call. It is built from validated token claims by the HTTP layer;
// services never read an ambient "current user" from request context.
type Identity struct {
	UserID   string
	Name     string
	Email    string
	Role     string
	UserType string
	OrgID    string
	OrgName  string
}

// IsPlatformAdmin reports whether the caller bypasses tenant scoping.
func (id Identity) IsPlatformAdmin() bool {
	return id.UserType == models.UserTypePlatformAdmin
}

// SameOrg reports whether the caller belongs to the given tenant.
func (id Identity) SameOrg(orgID string) bool {
	return id.OrgID == orgID
}
