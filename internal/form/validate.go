// internal/form/validate.go
//
// Contact form – validation and normalization.
//
// Context
//   The engine checks a submit attempt against its field definitions:
//   required fields, email shape, NANP phone rules, and length limits.  It
//   returns a ValidationResult that either carries normalized values (phone
//   in “+1XXXXXXXXXX” form, everything else trimmed) or field-level errors,
//   never both.
//
// Workflow
//   •  Fields are walked in definition order so the first reported format
//      error matches what the user sees first on the page.
//   •  Any missing required field wins over format errors when picking the
//      status line, mirroring the “fill in all fields” prompt users expect.
//   •  Keys absent from the definition are ignored.
//
//   The engine holds no mutable state.  Validate may be called from any
//   goroutine and always yields the same result for the same input.
//
//------------------------------------------------------------------------------

package form

import (
	"strings"
	"unicode/utf8"
)

// User-facing validation copy.
const (
	MsgMissingFields = "Please fill in all fields."
	MsgInvalidEmail  = "Please enter a valid email."
	MsgInvalidPhone  = "Please enter a valid phone number."
	MsgInvalidField  = "Please check the highlighted field."
)

// ValidationResult is produced fresh for every submit attempt.
type ValidationResult struct {
	Valid       bool
	FieldErrors map[string]ErrorKind // nil when Valid
	Errors      []FieldError         // FieldErrors in definition order

	normalized map[string]string
}

// Values returns a copy of the normalized values.  It yields nil, false
// unless the result is valid.
func (r ValidationResult) Values() (map[string]string, bool) {
	if !r.Valid {
		return nil, false
	}
	out := make(map[string]string, len(r.normalized))
	for k, v := range r.normalized {
		out[k] = v
	}
	return out, true
}

// Message returns the single status line for an invalid result, or "".
func (r ValidationResult) Message() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	for _, fe := range r.Errors {
		if fe.Kind == MissingField {
			return MsgMissingFields
		}
	}
	return r.Errors[0].Message
}

// Err wraps an invalid result in *ValidationError.  Valid results yield nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	fields := make([]FieldError, len(r.Errors))
	copy(fields, r.Errors)
	return &ValidationError{Fields: fields, Message: r.Message()}
}

// Engine validates raw values against a fixed field list.
type Engine struct {
	fields []FieldDef
}

// NewEngine copies fields so later edits by the caller cannot leak in.
func NewEngine(fields []FieldDef) *Engine {
	own := make([]FieldDef, len(fields))
	copy(own, fields)
	return &Engine{fields: own}
}

// Fields returns a copy of the engine's field definitions.
func (e *Engine) Fields() []FieldDef {
	out := make([]FieldDef, len(e.fields))
	copy(out, e.fields)
	return out
}

// Validate checks raw values keyed by field name.
func (e *Engine) Validate(raw map[string]string) ValidationResult {
	var errs []FieldError
	clean := make(map[string]string, len(e.fields))

	for i := range e.fields {
		f := &e.fields[i]
		val := strings.TrimSpace(raw[f.Name])

		if val == "" {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Kind: MissingField, Message: MsgMissingFields})
			}
			continue
		}

		norm, ok := checkField(f, val)
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Kind: FormatError, Message: formatMsg(f)})
			continue
		}
		clean[f.Name] = norm
	}

	if len(errs) > 0 {
		byName := make(map[string]ErrorKind, len(errs))
		for _, fe := range errs {
			byName[fe.Field] = fe.Kind
		}
		return ValidationResult{FieldErrors: byName, Errors: errs}
	}
	return ValidationResult{Valid: true, normalized: clean}
}

// checkField applies type rules to a trimmed, non-empty value.
func checkField(f *FieldDef, val string) (string, bool) {
	if f.MaxLength > 0 && utf8.RuneCountInString(val) > f.MaxLength {
		return "", false
	}
	switch f.Type {
	case TypeEmail:
		return val, IsValidEmail(val)
	case TypeTel:
		if !IsValidPhone(val) {
			return "", false
		}
		return NormalizePhone(val), true
	default:
		return val, true
	}
}

func formatMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	switch f.Type {
	case TypeEmail:
		return MsgInvalidEmail
	case TypeTel:
		return MsgInvalidPhone
	default:
		return MsgInvalidField
	}
}
