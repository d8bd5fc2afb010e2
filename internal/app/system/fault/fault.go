// internal/app/system/fault/fault.go
package fault

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error for callers. Services raise the most specific
// kind at the point of detection; handlers map kinds to HTTP status codes.
type Kind int

const (
	// Internal is anything unclassified, including store/search backend
	// failures. Detail stays server-side; callers get a generic message.
	Internal Kind = iota
	// Validation is malformed or disallowed input.
	Validation
	// Unauthorized means authentication failed or the credential is invalid.
	Unauthorized
	// Forbidden means authenticated but not permitted for this tenant/role.
	Forbidden
	// NotFound means the referenced entity is absent or soft-deleted.
	NotFound
	// Conflict is a uniqueness violation.
	Conflict
	// Business is a domain-rule violation not covered by the kinds above.
	Business
	// Cancelled reports a cancelled or timed-out request. It is never
	// coalesced into Internal.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Business:
		return "business"
	case Cancelled:
		return "cancelled"
	default:
		return "internal"
	}
}

// Error carries a kind plus a caller-facing message. An optional wrapped
// cause is preserved for logging but never shown to callers.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an error of the given kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error without exposing its detail.
// Context cancellation keeps its distinct kind regardless of the one given.
func Wrap(kind Kind, message string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		kind = Cancelled
	}
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the kind from err. Unclassified errors report Internal;
// bare context cancellation reports Cancelled.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Cancelled
	}
	return Internal
}

// MessageOf returns the caller-facing message for err. Internal errors get
// a generic message so backend detail never leaks.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind != Internal {
		return fe.Message
	}
	if KindOf(err) == Cancelled {
		return "request cancelled"
	}
	return "an unexpected error occurred"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
