// internal/form/status.go
//
// Contact form – status reporter.
//
// Context
//   Each form instance owns one StatusReporter holding the single message
//   shown beside the submit button.  There is no queue and no history:
//   every SetStatus replaces the previous message.  Listeners registered
//   through Subscribe observe every change, which is how a live region (or
//   any assistive-technology bridge) learns about severity changes without
//   polling the visual surface.
//
//------------------------------------------------------------------------------

package form

import "sync"

// Severity classifies a status message.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityError
	SeveritySuccess
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeveritySuccess:
		return "success"
	default:
		return "none"
	}
}

// MarshalText renders Severity as its lowercase name in JSON.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Status is one human-readable message and its severity.
type Status struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Politeness maps the severity onto live-region politeness.  Errors
// interrupt; everything else waits for the reader to go idle.
func (s Status) Politeness() string {
	if s.Severity == SeverityError {
		return "assertive"
	}
	return "polite"
}

// StatusReporter holds the active status of one form instance.
type StatusReporter struct {
	mu        sync.Mutex
	cur       Status
	nextID    int
	listeners map[int]func(Status)
}

// NewStatusReporter returns a reporter with no message.
func NewStatusReporter() *StatusReporter {
	return &StatusReporter{listeners: make(map[int]func(Status))}
}

// SetStatus replaces the current message.  Empty text clears the severity
// to SeverityNone.  Listeners run synchronously after the update, outside
// the reporter's lock, in no particular order.
func (r *StatusReporter) SetStatus(text string, sev Severity) {
	if text == "" {
		sev = SeverityNone
	}
	st := Status{Text: text, Severity: sev}

	r.mu.Lock()
	r.cur = st
	fns := make([]func(Status), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Clear is SetStatus("", SeverityNone).
func (r *StatusReporter) Clear() { r.SetStatus("", SeverityNone) }

// Current returns the active status.
func (r *StatusReporter) Current() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur
}

// Subscribe registers fn for every subsequent change and returns a func
// that removes it.
func (r *StatusReporter) Subscribe(fn func(Status)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}
