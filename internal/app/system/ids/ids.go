// internal/app/system/ids/ids.go
package ids

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// Prefixes for store-assigned ids.
const (
	UserPrefix = "usr_"
	OrgPrefix  = "org_"
)

const tokenBytes = 4 // 8 hex chars

// New returns a short prefixed random token, e.g. "usr_3F09A21C".
func New(prefix string) string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return prefix + strings.ToUpper(hex.EncodeToString(b))
}

// NewUserID returns a fresh user id.
func NewUserID() string { return New(UserPrefix) }

// NewOrgID returns a fresh organization id.
func NewOrgID() string { return New(OrgPrefix) }
