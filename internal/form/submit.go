// internal/form/submit.go
//
// Contact form – submission controller.
//
// Context
//   One Controller exists per form instance.  Submit runs the full
//   lifecycle of a submit attempt: concurrency guard, validation, payload
//   construction, the single network call, and the terminal status.  The
//   UI surface is not owned here; the controller only signals it through
//   the UI interface (enable/disable trigger, reset fields) and the
//   StatusReporter.
//
// Workflow
//   1. Submitting already?  Return OutcomeIgnored with no side effects.
//   2. Validate.  Invalid input moves to Error and reports inline.  The
//      trigger is never disabled on this path.
//   3. Move to Submitting and disable the trigger.  Re-enabling is deferred
//      so it runs on every exit path, panics included.
//   4. No endpoint?  Local-only success.
//   5. Otherwise POST once, bounded by the controller timeout.
//   6. Success resets the fields and reports the success copy.
//   7. Failure keeps the fields, logs the cause, and reports generic copy.
//
// Notes
//   The guard, validation, and transition into Submitting share one lock so
//   two goroutines cannot both pass step 1.  The network call runs outside
//   the lock.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/metrics"
)

// DefaultTimeout bounds one network call when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// FieldValue is one field as read from the UI surface.
type FieldValue struct {
	Name     string `json:"name"`
	RawValue string `json:"value"`
}

// ValuesFromMap converts a name→value map into FieldValues sorted by name.
func ValuesFromMap(m map[string]string) []FieldValue {
	out := make([]FieldValue, 0, len(m))
	for k, v := range m {
		out = append(out, FieldValue{Name: k, RawValue: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UI receives the signals a controller emits toward the surface that owns
// the submit trigger and the inputs.
type UI interface {
	SetSubmitEnabled(enabled bool)
	ResetFields()
}

// NopUI ignores every signal.
type NopUI struct{}

func (NopUI) SetSubmitEnabled(bool) {}
func (NopUI) ResetFields()          {}

// Outcome is the terminal result of one Submit call.
type Outcome int

const (
	OutcomeIgnored Outcome = iota // another submission was in flight
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "ignored"
	}
}

// MarshalText renders Outcome as its lowercase name in JSON.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Options configures a Controller.  Zero values take defaults.
type Options struct {
	FormID    string          // label for logs and metrics; default “contact”
	Fields    []FieldDef      // default DefaultContactForm().Fields
	Spec      FormSpec        // resolved configuration, checked by NewController
	Source    string          // page reference Submit sends as “source”
	Transport Transport       // default NewHTTPTransport(Timeout, Logger)
	UI        UI              // default NopUI
	Status    *StatusReporter // default NewStatusReporter()
	Timeout   time.Duration   // default DefaultTimeout
	Logger    *zap.SugaredLogger
}

// Controller owns the submission lifecycle of one form instance.
type Controller struct {
	id        string
	spec      FormSpec
	source    string
	engine    *Engine
	transport Transport
	ui        UI
	status    *StatusReporter
	timeout   time.Duration
	log       *zap.SugaredLogger

	mu    sync.Mutex
	state State
}

// NewController validates opts.Spec and fills defaults.
func NewController(opts Options) (*Controller, error) {
	if err := opts.Spec.Validate(); err != nil {
		return nil, err
	}
	if opts.FormID == "" {
		opts.FormID = DefaultFormID
	}
	if len(opts.Fields) == 0 {
		opts.Fields = DefaultContactForm().Fields
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.S()
	}
	if opts.Transport == nil {
		opts.Transport = NewHTTPTransport(opts.Timeout, opts.Logger)
	}
	if opts.UI == nil {
		opts.UI = NopUI{}
	}
	if opts.Status == nil {
		opts.Status = NewStatusReporter()
	}

	return &Controller{
		id:        opts.FormID,
		spec:      opts.Spec,
		source:    opts.Source,
		engine:    NewEngine(opts.Fields),
		transport: opts.Transport,
		ui:        opts.UI,
		status:    opts.Status,
		timeout:   opts.Timeout,
		log:       opts.Logger.With("form", opts.FormID),
		state:     StateIdle,
	}, nil
}

// FormID returns the controller's form label.
func (c *Controller) FormID() string { return c.id }

// Spec returns the resolved configuration.
func (c *Controller) Spec() FormSpec { return c.spec }

// Status returns the instance's reporter.
func (c *Controller) Status() *StatusReporter { return c.status }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one submit attempt.  The error is nil for OutcomeSuccess and
// OutcomeIgnored, a *ValidationError for invalid input, and a
// *NetworkError or *ServerError when delivery fails.
func (c *Controller) Submit(ctx context.Context, fields []FieldValue) (Outcome, error) {
	return c.SubmitFrom(ctx, c.source, fields)
}

// SubmitFrom is Submit with the page reference supplied per attempt.  One
// controller can then serve a visitor across pages while the in-flight
// guard still covers every attempt.
func (c *Controller) SubmitFrom(ctx context.Context, source string, fields []FieldValue) (Outcome, error) {
	raw := make(map[string]string, len(fields))
	for _, fv := range fields {
		raw[fv.Name] = fv.RawValue
	}

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		metrics.SubmissionsTotal.WithLabelValues(c.id, "ignored").Inc()
		c.log.Debugw("submit ignored, request in flight")
		return OutcomeIgnored, nil
	}
	res := c.engine.Validate(raw)
	if !res.Valid {
		c.state, _ = Transition(c.state, EventInvalid)
		c.mu.Unlock()

		err := res.Err()
		c.status.SetStatus(res.Message(), SeverityError)
		metrics.SubmissionsTotal.WithLabelValues(c.id, "invalid").Inc()
		c.log.Debugw("submit rejected by validation", "fields", len(res.Errors), "err", err)
		return OutcomeError, err
	}
	c.state, _ = Transition(c.state, EventSubmit)
	c.mu.Unlock()

	c.status.Clear()
	c.ui.SetSubmitEnabled(false)

	settled := false
	defer func() {
		if !settled {
			c.settle(EventFailed)
			c.status.SetStatus(c.spec.ErrorMessage, SeverityError)
		}
		c.ui.SetSubmitEnabled(true)
	}()

	values, _ := res.Values()
	subID := uuid.NewString()
	start := time.Now()

	err := c.deliver(ctx, values, source)
	metrics.SubmitDuration.WithLabelValues(c.id).Observe(time.Since(start).Seconds())

	if err != nil {
		c.settle(EventFailed)
		settled = true
		c.status.SetStatus(c.spec.ErrorMessage, SeverityError)
		metrics.SubmissionsTotal.WithLabelValues(c.id, failureLabel(err)).Inc()
		c.log.Warnw("form submission failed",
			"submission", subID,
			"endpoint", c.spec.EndpointURL,
			"elapsed", time.Since(start),
			"err", err,
		)
		return OutcomeError, err
	}

	c.settle(EventSucceeded)
	settled = true
	c.ui.ResetFields()
	c.status.SetStatus(c.spec.SuccessMessage, SeveritySuccess)

	label := "success"
	if c.spec.EndpointURL == "" {
		label = "local"
	}
	metrics.SubmissionsTotal.WithLabelValues(c.id, label).Inc()
	c.log.Infow("form submitted", "submission", subID, "sink", label, "elapsed", time.Since(start))
	return OutcomeSuccess, nil
}

// deliver posts the payload, or succeeds locally when no endpoint is set.
func (c *Controller) deliver(ctx context.Context, values map[string]string, source string) error {
	if c.spec.EndpointURL == "" {
		return nil
	}

	payload := BuildPayload(values, source)

	metrics.SubmissionsInFlight.Inc()
	defer metrics.SubmissionsInFlight.Dec()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.transport.Post(ctx, c.spec.EndpointURL, payload)
	if err == nil || IsSubmissionError(err) {
		return err
	}
	return &NetworkError{Err: err}
}

func (c *Controller) settle(ev Event) {
	c.mu.Lock()
	c.state, _ = Transition(c.state, ev)
	c.mu.Unlock()
}

// BuildPayload returns the outbound record: normalized values plus the
// provenance field.  Empty optional fields are already absent from values.
func BuildPayload(values map[string]string, source string) map[string]string {
	out := make(map[string]string, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	out[FieldSource] = source
	return out
}

func failureLabel(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return "server_error"
	}
	return "network_error"
}
