// internal/form/spec_test.go
//
// Unit-tests for FormSpec resolution and its fallback key chains.

package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveSpec_Defaults(t *testing.T) {
	got, err := ResolveSpec(nil)
	if err != nil {
		t.Fatalf("ResolveSpec(nil): %v", err)
	}
	want := FormSpec{
		SubmitLabel:    DefaultSubmitLabel,
		SuccessMessage: DefaultSuccessMessage,
		ErrorMessage:   DefaultErrorMessage,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSpec_FirstNonEmptyWins(t *testing.T) {
	cfg := map[string]string{
		"submittext":      "   ",
		"submit-text":     "Send it",
		"submitText":      "ignored",
		"endpointUrl":     "https://example.com/leads",
		"success-message": "Got it.",
		"privacy":         "We never share your data.",
		"errorMessage":    "Try again later.",
	}
	got, err := ResolveSpec(cfg)
	if err != nil {
		t.Fatalf("ResolveSpec: %v", err)
	}
	want := FormSpec{
		EndpointURL:    "https://example.com/leads",
		SubmitLabel:    "Send it",
		SuccessMessage: "Got it.",
		ErrorMessage:   "Try again later.",
		PrivacyText:    "We never share your data.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved spec mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSpec_RejectsBadEndpoint(t *testing.T) {
	for _, ep := range []string{"not a url", "ftp://example.com/x"} {
		if _, err := ResolveSpec(map[string]string{"endpoint": ep}); err == nil {
			t.Errorf("endpoint %q accepted", ep)
		}
	}
}

func TestLookup(t *testing.T) {
	cfg := map[string]string{"b": " two ", "c": "three"}
	if v, ok := Lookup(cfg, "a", "b", "c"); !ok || v != "two" {
		t.Fatalf("Lookup = %q, %v", v, ok)
	}
	if _, ok := Lookup(cfg, "x"); ok {
		t.Fatalf("Lookup matched a missing key")
	}
}
