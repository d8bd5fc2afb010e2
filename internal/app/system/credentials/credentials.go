// internal/app/system/credentials/credentials.go
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/coralhq/atrium/internal/app/system/fault"
)

// Defaults for the key derivation parameters. The iteration count is
// embedded in each stored hash, so lowering or raising these later never
// breaks verification of existing credentials.
const (
	DefaultIterations = 100_000
	DefaultSaltLen    = 16
	DefaultKeyLen     = 32
)

// Hasher derives and verifies password hashes. The secret key is a
// server-side pepper appended to every plaintext before derivation.
type Hasher struct {
	secret     string
	iterations int
	saltLen    int
	keyLen     int
}

// Option tunes a Hasher.
type Option func(*Hasher)

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(n int) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.iterations = n
		}
	}
}

// WithSaltLength overrides the salt byte length.
func WithSaltLength(n int) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.saltLen = n
		}
	}
}

// WithKeyLength overrides the derived key byte length.
func WithKeyLength(n int) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.keyLen = n
		}
	}
}

// NewHasher builds a Hasher with the given server secret and options.
func NewHasher(secret string, opts ...Option) *Hasher {
	h := &Hasher{
		secret:     secret,
		iterations: DefaultIterations,
		saltLen:    DefaultSaltLen,
		keyLen:     DefaultKeyLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives a storable hash from plaintext. The result encodes as
// "{iterations}.{base64 salt}.{base64 hash}".
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fault.New(fault.Validation, "password must not be empty")
	}
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fault.Wrap(fault.Internal, "generating salt", err)
	}
	key := pbkdf2.Key([]byte(plaintext+h.secret), salt, h.iterations, h.keyLen, sha256.New)
	return fmt.Sprintf("%d.%s.%s",
		h.iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches the stored hash. Verification
// failure is an expected outcome, so every failure mode, including a
// malformed stored hash, yields false rather than an error. The iteration
// count and output length come from the stored hash, not the configured
// defaults.
func (h *Hasher) Verify(plaintext, stored string) bool {
	if plaintext == "" || stored == "" {
		return false
	}
	parts := strings.Split(stored, ".")
	if len(parts) != 3 {
		return false
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(plaintext+h.secret), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// DerivedPassword computes the deterministic initial password for a new or
// reset account: first four characters of the lowercased email local part,
// an underscore, then the first four characters of the lowercased name with
// spaces removed. It is a convenience scheme communicated out-of-band, not
// a security boundary; the user is expected to change it on first login.
func DerivedPassword(email, name string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.ToLower(local)
	if len(local) > 4 {
		local = local[:4]
	}
	compact := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if len(compact) > 4 {
		compact = compact[:4]
	}
	return local + "_" + compact
}
