// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status trims and lowercases a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UserType trims and lowercases a user type value.
func UserType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
