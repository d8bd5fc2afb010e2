// internal/app/search/sanitize.go
package search

import "strings"

// maxQueryLength caps sanitized queries.
const maxQueryLength = 200

// strippedChars are removed outright before any backend sees the query.
const strippedChars = "<>\"'&\\;|`"

// strippedKeywords are removed case-insensitively wherever they appear as
// substrings. This is a blunt defense in depth, not a SQL parser; word
// boundaries are deliberately ignored.
var strippedKeywords = []string{
	"SELECT", "INSERT", "UPDATE", "DELETE", "DROP", "UNION",
	"EXEC", "EXECUTE", "--", "/*", "*/",
}

// Sanitize normalizes raw query text into the only form ever passed to a
// search backend: trimmed, dangerous characters stripped, whitespace runs
// collapsed, truncated to 200 characters, SQL keyword substrings removed.
func Sanitize(raw string) string {
	q := strings.TrimSpace(raw)
	if q == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if strings.ContainsRune(strippedChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	q = b.String()

	q = strings.Join(strings.Fields(q), " ")

	if len(q) > maxQueryLength {
		q = q[:maxQueryLength]
	}

	for _, kw := range strippedKeywords {
		q = stripFold(q, kw)
	}

	return strings.TrimSpace(q)
}

// stripFold removes every case-insensitive occurrence of sub from s.
func stripFold(s, sub string) string {
	lower := strings.ToLower(s)
	target := strings.ToLower(sub)
	for {
		i := strings.Index(lower, target)
		if i < 0 {
			return s
		}
		s = s[:i] + s[i+len(sub):]
		lower = lower[:i] + lower[i+len(target):]
	}
}

// Terms splits a sanitized query into lowercased whitespace-separated terms.
func Terms(sanitized string) []string {
	fields := strings.Fields(strings.ToLower(sanitized))
	return fields
}
