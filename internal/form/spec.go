// internal/form/spec.go
//
// Contact form – FormSpec resolution.
//
// Context
//   Authors configure a block through a loose key/value table whose key
//   spellings drifted over time (“submittext”, “submit-text”,
//   “submitText”).  Each FormSpec property therefore owns an ordered
//   fallback list.  The first key with a non-empty trimmed value wins;
//   otherwise the documented default applies.  The resolved spec is
//   validated once and then treated as immutable.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Documented FormSpec defaults.
const (
	DefaultSubmitLabel    = "Submit"
	DefaultSuccessMessage = "Thank you, someone will contact you shortly."
	DefaultErrorMessage   = "Sorry, something went wrong — please try again"
)

// FormSpec is the resolved configuration of one form instance.  An empty
// EndpointURL means the form has no remote sink.
type FormSpec struct {
	EndpointURL    string `json:"endpointUrl,omitempty" validate:"omitempty,url,startswith=http"`
	SubmitLabel    string `json:"submitLabel"           validate:"required"`
	SuccessMessage string `json:"successMessage"        validate:"required"`
	ErrorMessage   string `json:"errorMessage"          validate:"required"`
	PrivacyText    string `json:"privacyText,omitempty"`
}

// Fallback key chains, most specific spelling first.
var (
	EndpointKeys = []string{"endpoint", "endpointurl", "endpoint-url", "endpointUrl", "action", "url"}
	SubmitKeys   = []string{"submittext", "submit-text", "submitText", "submitlabel", "submit-label", "submitLabel"}
	SuccessKeys  = []string{"successmessage", "success-message", "successMessage", "thankyou", "thank-you", "thankYou"}
	ErrorKeys    = []string{"errormessage", "error-message", "errorMessage"}
	PrivacyKeys  = []string{"privacytext", "privacy-text", "privacyText", "privacy"}
)

var specValidator = validator.New()

// Lookup returns the first non-empty trimmed value among keys.
func Lookup(cfg map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v := strings.TrimSpace(cfg[k]); v != "" {
			return v, true
		}
	}
	return "", false
}

func lookupOr(cfg map[string]string, def string, keys ...string) string {
	if v, ok := Lookup(cfg, keys...); ok {
		return v
	}
	return def
}

// ResolveSpec builds a FormSpec from authored block config.  A nil map
// yields the defaults with no endpoint.
func ResolveSpec(cfg map[string]string) (FormSpec, error) {
	spec := FormSpec{
		EndpointURL:    lookupOr(cfg, "", EndpointKeys...),
		SubmitLabel:    lookupOr(cfg, DefaultSubmitLabel, SubmitKeys...),
		SuccessMessage: lookupOr(cfg, DefaultSuccessMessage, SuccessKeys...),
		ErrorMessage:   lookupOr(cfg, DefaultErrorMessage, ErrorKeys...),
		PrivacyText:    lookupOr(cfg, "", PrivacyKeys...),
	}
	if err := spec.Validate(); err != nil {
		return FormSpec{}, err
	}
	return spec, nil
}

// Validate checks the spec's struct rules.
func (s FormSpec) Validate() error {
	if err := specValidator.Struct(s); err != nil {
		return fmt.Errorf("form spec invalid: %w", err)
	}
	return nil
}
