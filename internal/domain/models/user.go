// internal/domain/models/user.go
package models

import "time"

// User types. Platform admins carry the sentinel org id and are not
// scoped to any tenant.
const (
	UserTypeOrgUser       = "org_user"
	UserTypeOrgAdmin      = "org_admin"
	UserTypePlatformAdmin = "platform_admin"
)

// PlatformOrgID is the sentinel org id carried by platform admins.
const PlatformOrgID = "org_PLATFORM"

// User statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User represents a platform admin, org admin, or org user.
//
// Email uniqueness is enforced only among non-deleted users; a soft-deleted
// user's email may be reused. EmailCI holds the folded form backing the
// case-insensitive checks.
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	OrgID        string     `bson:"orgId" json:"orgId"`
	OrgName      string     `bson:"orgName" json:"orgName"`
	UserType     string     `bson:"userType" json:"userType"`
	Role         string     `bson:"role" json:"role"` // defaults to UserType
	Status       string     `bson:"status" json:"status"`
	IsDeleted    bool       `bson:"isDeleted" json:"-"`
	DeletedAt    *time.Time `bson:"deletedAt,omitempty" json:"-"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	EmailCI      string     `bson:"emailCI" json:"-"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	CreatedBy    string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	ModifiedAt   time.Time  `bson:"modifiedAt" json:"modifiedAt"`
	ModifiedBy   string     `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	Version      int64      `bson:"version" json:"version"`
}

// IsPlatformAdmin reports whether the user bypasses tenant scoping.
func (u *User) IsPlatformAdmin() bool {
	return u.UserType == UserTypePlatformAdmin
}

// ValidUserStatus reports whether s is an allowed user status.
func ValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusSuspended
}

// ValidAssignableUserType reports whether t may be assigned through the API.
// Platform admins are seeded at startup, never created through user CRUD.
func ValidAssignableUserType(t string) bool {
	return t == UserTypeOrgUser || t == UserTypeOrgAdmin
}
