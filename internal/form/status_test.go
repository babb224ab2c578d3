// internal/form/status_test.go
//
// Unit-tests for StatusReporter.

package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStatusReporter_SetAndClear(t *testing.T) {
	r := NewStatusReporter()
	if got := r.Current(); got != (Status{}) {
		t.Fatalf("fresh reporter = %#v", got)
	}

	r.SetStatus("Oops", SeverityError)
	if got := r.Current(); got.Text != "Oops" || got.Severity != SeverityError {
		t.Fatalf("Current = %#v", got)
	}
	if r.Current().Politeness() != "assertive" {
		t.Fatalf("errors must be assertive")
	}

	r.SetStatus("", SeveritySuccess)
	if got := r.Current(); got != (Status{}) {
		t.Fatalf("empty text must clear severity, got %#v", got)
	}

	r.SetStatus("Thanks", SeveritySuccess)
	r.Clear()
	if got := r.Current(); got.Severity != SeverityNone || got.Text != "" {
		t.Fatalf("Clear left %#v", got)
	}
	if r.Current().Politeness() != "polite" {
		t.Fatalf("cleared status must be polite")
	}
}

func TestStatusReporter_Subscribe(t *testing.T) {
	r := NewStatusReporter()
	var seen []Status
	stop := r.Subscribe(func(s Status) { seen = append(seen, s) })

	r.SetStatus("Please fill in all fields.", SeverityError)
	r.Clear()
	r.SetStatus("Thanks", SeveritySuccess)
	stop()
	r.SetStatus("after", SeverityError)

	want := []Status{
		{Text: "Please fill in all fields.", Severity: SeverityError},
		{},
		{Text: "Thanks", Severity: SeveritySuccess},
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("listener events mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusReporter_ListenerMayReadCurrent(t *testing.T) {
	r := NewStatusReporter()
	var got Status
	r.Subscribe(func(Status) { got = r.Current() })
	r.SetStatus("x", SeverityError)
	if got.Text != "x" {
		t.Fatalf("listener read %#v", got)
	}
}
