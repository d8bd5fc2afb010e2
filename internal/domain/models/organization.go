// internal/domain/models/organization.go
package models

import "time"

// Organization statuses.
const (
	OrgStatusActive    = "active"
	OrgStatusSuspended = "suspended"
	OrgStatusCancelled = "cancelled"
)

// DefaultUserLimit is the subscription user limit applied when none is given.
const DefaultUserLimit = 5

// Phone is a contact phone number. E164 is always CountryCode+Number.
type Phone struct {
	CountryCode string `bson:"countryCode" json:"countryCode"`
	Number      string `bson:"number" json:"number"`
	E164        string `bson:"e164" json:"e164"`
}

// Address is a postal address.
type Address struct {
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// Contact groups an organization's contact details.
type Contact struct {
	Email   string  `bson:"email" json:"email"`
	Phone   Phone   `bson:"phone" json:"phone"`
	Address Address `bson:"address" json:"address"`
}

// SubscriptionLimits caps tenant resources.
type SubscriptionLimits struct {
	UserLimit int `bson:"userLimit" json:"userLimit"`
}

// Subscription holds the tenant's plan limits.
type Subscription struct {
	Limits SubscriptionLimits `bson:"limits" json:"limits"`
}

// Organization is the tenant record. The id doubles as the partition key,
// so OrgID always equals ID.
type Organization struct {
	ID           string       `bson:"_id,omitempty" json:"id"`
	OrgID        string       `bson:"orgId" json:"orgId"`
	Name         string       `bson:"name" json:"name"`
	NameCI       string       `bson:"nameCI" json:"-"`
	Status       string       `bson:"status" json:"status"`
	IsDeleted    bool         `bson:"isDeleted" json:"-"`
	DeletedAt    *time.Time   `bson:"deletedAt,omitempty" json:"-"`
	Contact      Contact      `bson:"contact" json:"contact"`
	Subscription Subscription `bson:"subscription" json:"subscription"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
	CreatedBy    string       `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	ModifiedAt   time.Time    `bson:"modifiedAt" json:"modifiedAt"`
	ModifiedBy   string       `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	Version      int64        `bson:"version" json:"version"`
}

// ValidOrgStatus reports whether s is an allowed organization status.
func ValidOrgStatus(s string) bool {
	switch s {
	case OrgStatusActive, OrgStatusSuspended, OrgStatusCancelled:
		return true
	}
	return false
}
