package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error so callers can decide how to surface it.
type Kind int8

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindStorage
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// FieldError describes a single violated request field.
type FieldError struct {
	Field  string
	Reason string
	Value  any
}

func (f FieldError) Error() string {
	return f.Field + ": " + f.Reason
}

// Error is the error type returned by the ledger core.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.Error()
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the operation may succeed if attempted again.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorage
}

// Validation returns a validation error listing every violated field.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "invalid request", Fields: fields}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an underlying persistence failure. The message is generic so it
// can be shown to callers; the cause stays available through Unwrap.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage unavailable", Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether err carries a retryable storage failure.
func IsRetryable(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Retryable()
	}
	return false
}

// AsStorage leaves errors that already carry a Kind alone and wraps anything
// else as a storage failure.
func AsStorage(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return Storage(err)
}
