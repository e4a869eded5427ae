package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary handling. The HTTP layer maps kinds
// to status codes; everything else should wrap rather than inspect.
type Kind int

const (
	// KindStorage marks datastore failures: unreachable store, malformed query.
	KindStorage Kind = iota + 1
	// KindUpstream marks third-party network/parse failures. Adapters normally
	// absorb these by falling back to mock data, so a surfaced KindUpstream
	// means an adapter was bypassed.
	KindUpstream
	// KindValidation marks malformed caller input.
	KindValidation
	// KindNotFound marks an absent entity. Distinct from a cache miss, which
	// callers never observe.
	KindNotFound
	// KindForbidden marks an ownership-check failure.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindUpstream:
		return "upstream"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Storage(message string, err error) *Error {
	return Wrap(KindStorage, message, err)
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// KindOf reports the kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
