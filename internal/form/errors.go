// internal/form/errors.go
//
// Contact form – error taxonomy.
//
// Context
//   Two families of failure exist.  Validation errors (MissingField,
//   FormatError) are recovered locally by correcting input.  Submission
//   errors (NetworkError, ServerError) are surfaced to the user as one
//   generic message while the cause goes to the log.  Callers tell them
//   apart with errors.As, IsValidationError, or IsSubmissionError.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a single field failure.
type ErrorKind int

const (
	// MissingField marks a required field left empty after trimming.
	MissingField ErrorKind = iota + 1
	// FormatError marks a value that does not satisfy its field's format rule.
	FormatError
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case FormatError:
		return "format_error"
	default:
		return "unknown"
	}
}

// MarshalText lets ErrorKind appear as a readable JSON map value.
func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// FieldError describes one failed field.
type FieldError struct {
	Field   string    // field name
	Kind    ErrorKind // MissingField or FormatError
	Message string    // user-facing message
}

// ValidationError wraps the field failures of one submit attempt.  Message
// is the single line reported through the StatusReporter.
type ValidationError struct {
	Fields  []FieldError
	Message string
}

func (ve *ValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "form validation failed"
	}
	f := ve.Fields[0]
	return fmt.Sprintf("form validation failed: %s %s", f.Field, f.Kind)
}

// NetworkError is a transport failure: timeout, DNS, or refused connection.
type NetworkError struct{ Err error }

func (e *NetworkError) Error() string { return "form submission network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a response outside the 2xx range.
type ServerError struct{ Status int }

func (e *ServerError) Error() string {
	return fmt.Sprintf("form submission rejected: HTTP %d", e.Status)
}

// IsValidationError reports whether err came from failed validation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSubmissionError reports whether err is a NetworkError or ServerError.
func IsSubmissionError(err error) bool {
	var ne *NetworkError
	var se *ServerError
	return errors.As(err, &ne) || errors.As(err, &se)
}
