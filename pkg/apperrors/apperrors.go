// Package apperrors defines the failure taxonomy shared by services,
// repositories and HTTP handlers. Expected conditions (missing symbol,
// rate limit, unconfigured credential) carry a Kind so handlers can map
// them to a status code without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an expected failure.
type Kind int

const (
	// KindUnknown marks an unexpected failure.
	KindUnknown Kind = iota
	// KindInvalidInput marks a missing or malformed request value.
	KindInvalidInput
	// KindNotConfigured marks a missing required credential or setting.
	KindNotConfigured
	// KindNotFound marks an unknown symbol or missing entity.
	KindNotFound
	// KindRateLimited marks an upstream rate limit after retries exhausted.
	KindRateLimited
	// KindUnavailable marks a transient upstream failure after retries exhausted.
	KindUnavailable
	// KindTimeout marks an upstream call that exceeded its deadline.
	KindTimeout
	// KindStorageUnavailable marks an unreachable or unconfigured backing store.
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotConfigured:
		return "not_configured"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

// Error is a failure with a Kind and a caller-safe message. The message
// must never contain credentials or raw upstream payloads.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given kind and message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates an error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Message returns the caller-safe message of err, or empty when err
// carries none.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
