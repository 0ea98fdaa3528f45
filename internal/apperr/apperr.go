// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import "errors"

// Kind classifies an error so the transport layer can map it to a status
// code without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindConflict               // duplicate unique field
	KindAuth                   // bad credentials
	KindUnauthorized           // no resolved identity for a protected operation
	KindNotFound               // resource absent or owned by another user
	KindStorage                // underlying persistence unavailable
)

// Error carries a stable kind and message, optionally wrapping a cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Auth(msg string) *Error         { return &Error{Kind: KindAuth, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }

// Storage wraps a driver-level failure as an opaque storage error.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage unavailable", Err: err}
}

// KindOf extracts the kind from err, if err is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}

// PublicMessage returns the message safe to surface to a caller. Storage
// errors hide their cause.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
