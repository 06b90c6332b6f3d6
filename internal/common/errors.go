// Package common defines shared constants and sentinel errors used across
// the files manager layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("already exist")
)

// ValidationError carries a human-readable reason for rejected input.
// It matches ErrorValidation via errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrorValidation
}

// NewValidationError returns a ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// NotFoundError is a lookup failure with a specific reason for the caller.
// It matches ErrorNotFound via errors.Is.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return e.Reason
}

func (e *NotFoundError) Unwrap() error {
	return ErrorNotFound
}

// NotFoundReason returns the reason carried by a NotFoundError in err's
// chain, or "Not found".
func NotFoundReason(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Reason
	}
	return "Not found"
}

// ValidationReason extracts the reason from a ValidationError chain,
// falling back to err.Error().
func ValidationReason(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return err.Error()
}
