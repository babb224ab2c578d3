// internal/server/relay.go
//
// Contact form relay: form instances behind a JSON API.
//
/*
Context
--------
The browser block is a thin surface.  It posts field values here, and the
relay runs the form core on its behalf: validation, the single outbound
POST, and the terminal status.  The three UI signals come back as JSON so
the surface can disable its trigger, reset its inputs, and update its live
region.

Each visitor and form pair owns one form.Controller.  That keeps the
one-in-flight guard meaningful: a double click is ignored, while two
visitors never block each other.  The visitor ID comes from the session
cookie, issued by GET /forms/{id} and GET /forms/{id}/status; a submit
without it is refused with 428 and a fresh cookie.  The page reference
travels with each attempt and never enters the key.  Instances live in an
LRU with idle expiry, and one that is mid-submit is never evicted.

Routes
------
  GET  /healthz               – liveness
  GET  /metrics               – Prometheus
  GET  /forms                 – registered form IDs
  GET  /forms/{id}            – resolved FormSpec and field list
  POST /forms/{id}/submit     – run one submit attempt
  GET  /forms/{id}/status     – current state and status for this visitor

Notes
-----
  • Submissions run on a context detached from the client connection, so
    a closed tab does not abort a delivery halfway.  The controller
    timeout still bounds it.
  • Oxford commas, two spaces after periods.
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/cache"
	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/logger"
	"github.com/yanizio/contactform/internal/metrics"
	"github.com/yanizio/contactform/internal/middleware"
	"github.com/yanizio/contactform/internal/requestinfo"
	"github.com/yanizio/contactform/internal/session"
)

// EvictInterval is how often Run prunes idle instances.
const EvictInterval = time.Minute

const maxBodyBytes = 64 << 10

// Settings configures a Relay.
type Settings struct {
	SubmitTimeout time.Duration
	MaxInstances  int
	InstanceTTL   time.Duration
	ForceHTTPS    bool
	// Blocks overrides authored config per form ID, key by key.
	Blocks map[string]map[string]string
	// Transport defaults to form.NewHTTPTransport.
	Transport form.Transport
	// Visitors adds request hints to logs; nil skips geo lookups.
	Visitors *requestinfo.Enricher
}

// Relay hosts form instances for remote surfaces.
type Relay struct {
	settings  Settings
	forms     map[string]*hostedForm
	instances *cache.LRU[string, *instance]
	transport form.Transport
	log       *zap.SugaredLogger
}

type hostedForm struct {
	def  *form.FormDef
	spec form.FormSpec
}

type instance struct {
	ctrl *form.Controller
	ui   *signalUI
}

// signalUI records the last trigger state a controller signalled.
type signalUI struct {
	mu      sync.Mutex
	enabled bool
}

func (u *signalUI) SetSubmitEnabled(on bool) {
	u.mu.Lock()
	u.enabled = on
	u.mu.Unlock()
}

// ResetFields is carried to the surface through the response.
func (u *signalUI) ResetFields() {}

func (u *signalUI) submitEnabled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.enabled
}

// NewRelay resolves a FormSpec for every registered form and fails on the
// first invalid one.
func NewRelay(s Settings, log *zap.SugaredLogger) (*Relay, error) {
	if log == nil {
		log = zap.S()
	}
	if s.SubmitTimeout <= 0 {
		s.SubmitTimeout = form.DefaultTimeout
	}
	if s.MaxInstances < 1 {
		s.MaxInstances = 1
	}
	if s.Transport == nil {
		s.Transport = form.NewHTTPTransport(s.SubmitTimeout, log)
	}
	if s.Visitors == nil {
		s.Visitors = &requestinfo.Enricher{}
	}

	forms := make(map[string]*hostedForm)
	for _, id := range form.FormIDs() {
		def, _ := form.GetFormDef(id)
		spec, err := form.ResolveSpec(mergeConfig(def.Config, s.Blocks[id]))
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", id, err)
		}
		forms[id] = &hostedForm{def: def, spec: spec}
		log.Infow("form hosted", "form", id, "remote", spec.EndpointURL != "")
	}

	instances := cache.New[string, *instance](s.MaxInstances, s.InstanceTTL, func(string, *instance) {
		metrics.InstanceEvictTotal.Inc()
		metrics.ActiveInstances.Dec()
	})
	// An evicted Submitting controller would let the next click past the guard.
	instances.SetKeep(func(inst *instance) bool { return inst.ctrl.State() == form.StateSubmitting })

	return &Relay{
		settings:  s,
		forms:     forms,
		transport: s.Transport,
		log:       log,
		instances: instances,
	}, nil
}

// mergeConfig overlays override onto base without mutating either.
func mergeConfig(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Run prunes idle instances every EvictInterval until ctx is done.
func (rl *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(EvictInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := rl.instances.Prune(); n > 0 {
				rl.log.Infow("form instances evicted", "count", n, "remaining", rl.instances.Len())
			}
		}
	}
}

// Handler returns the relay's router.
func (rl *Relay) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.ForceHTTPS(rl.settings.ForceHTTPS))
	r.Use(middleware.Security)
	r.Use(rl.settings.Visitors.Middleware, rl.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", rl.listForms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rl.describeForm)
			r.Post("/submit", rl.submit)
			r.Get("/status", rl.status)
		})
	})
	return r
}

func (rl *Relay) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := rl.log.With("request", chimw.GetReqID(r.Context()))
		if info := requestinfo.FromContext(r.Context()); info != nil {
			l = l.With(info.LogFields()...)
		}
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
	})
}

/*──────────────────────────── handlers ────────────────────────────────────*/

type statusView struct {
	Text       string        `json:"text"`
	Severity   form.Severity `json:"severity"`
	Politeness string        `json:"politeness"`
}

func viewStatus(s form.Status) statusView {
	return statusView{Text: s.Text, Severity: s.Severity, Politeness: s.Politeness()}
}

type submitResponse struct {
	Outcome       form.Outcome              `json:"outcome"`
	State         form.State                `json:"state"`
	Status        statusView                `json:"status"`
	FieldErrors   map[string]form.ErrorKind `json:"fieldErrors,omitempty"`
	Reset         bool                      `json:"reset"`
	SubmitEnabled bool                      `json:"submitEnabled"`
}

type submitRequest struct {
	Fields map[string]string `json:"fields"`
	Source string            `json:"source"`
}

func (rl *Relay) listForms(w http.ResponseWriter, _ *http.Request) {
	ids := make([]string, 0, len(rl.forms))
	for _, id := range form.FormIDs() {
		if _, ok := rl.forms[id]; ok {
			ids = append(ids, id)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": ids})
}

// describeForm also issues the visitor cookie, so a block that loads its
// spec first never submits without one.
func (rl *Relay) describeForm(w http.ResponseWriter, r *http.Request) {
	hf, ok := rl.lookup(w, r)
	if !ok {
		return
	}
	session.Ensure(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     hf.def.ID,
		"title":  hf.def.Title,
		"spec":   hf.spec,
		"fields": hf.def.Fields,
	})
}

func (rl *Relay) submit(w http.ResponseWriter, r *http.Request) {
	hf, ok := rl.lookup(w, r)
	if !ok {
		return
	}
	req, err := decodeSubmit(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Without a visitor cookie every request would get its own controller,
	// and a first-visit double click would POST twice.
	sid, ok := session.Current(r)
	if !ok {
		session.Ensure(w, r)
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{
			"error": "visitor session required; load /forms/" + hf.def.ID + " first",
		})
		return
	}

	inst, err := rl.instance(sid, hf)
	if err != nil {
		logger.FromContext(r.Context()).Errorw("form instance create failed", "form", hf.def.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "form unavailable"})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	outcome, err := inst.ctrl.SubmitFrom(ctx, pageRef(req.Source, r.Referer()), form.ValuesFromMap(req.Fields))

	resp := submitResponse{
		Outcome:       outcome,
		State:         inst.ctrl.State(),
		Status:        viewStatus(inst.ctrl.Status().Current()),
		Reset:         outcome == form.OutcomeSuccess,
		SubmitEnabled: inst.ui.submitEnabled(),
	}

	code := http.StatusOK
	var ve *form.ValidationError
	switch {
	case outcome == form.OutcomeIgnored:
		code = http.StatusAccepted
	case errors.As(err, &ve):
		code = http.StatusUnprocessableEntity
		resp.FieldErrors = make(map[string]form.ErrorKind, len(ve.Fields))
		for _, fe := range ve.Fields {
			resp.FieldErrors[fe.Field] = fe.Kind
		}
	case err != nil:
		code = http.StatusBadGateway
	}
	logger.FromContext(r.Context()).Infow("form submit handled",
		"form", hf.def.ID, "outcome", outcome, "state", resp.State, "code", code)
	writeJSON(w, code, resp)
}

type statusResponse struct {
	State         form.State `json:"state"`
	Status        statusView `json:"status"`
	SubmitEnabled bool       `json:"submitEnabled"`
}

// status reports the visitor's instance.  A visitor without one sees the
// Idle defaults and receives a cookie for the submit that follows.
func (rl *Relay) status(w http.ResponseWriter, r *http.Request) {
	hf, ok := rl.lookup(w, r)
	if !ok {
		return
	}
	resp := statusResponse{State: form.StateIdle, Status: viewStatus(form.Status{}), SubmitEnabled: true}
	if sid, ok := session.Current(r); !ok {
		session.Ensure(w, r)
	} else if inst, hit := rl.instances.Get(instanceKey(sid, hf.def.ID)); hit {
		resp.State = inst.ctrl.State()
		resp.Status = viewStatus(inst.ctrl.Status().Current())
		resp.SubmitEnabled = inst.ui.submitEnabled()
	}
	writeJSON(w, http.StatusOK, resp)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (rl *Relay) lookup(w http.ResponseWriter, r *http.Request) (*hostedForm, bool) {
	hf, ok := rl.forms[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown form"})
		return nil, false
	}
	return hf, true
}

func (rl *Relay) instance(sid string, hf *hostedForm) (*instance, error) {
	return rl.instances.GetOrAdd(instanceKey(sid, hf.def.ID), func() (*instance, error) {
		ui := &signalUI{enabled: true}
		log := rl.log.With("visitor", sid)

		status := form.NewStatusReporter()
		status.Subscribe(func(s form.Status) {
			log.Debugw("form status changed", "form", hf.def.ID, "severity", s.Severity, "text", s.Text)
		})

		ctrl, err := form.NewController(form.Options{
			FormID:    hf.def.ID,
			Fields:    hf.def.Fields,
			Spec:      hf.spec,
			Transport: rl.transport,
			UI:        ui,
			Status:    status,
			Timeout:   rl.settings.SubmitTimeout,
			Logger:    log,
		})
		if err != nil {
			return nil, err
		}
		metrics.ActiveInstances.Inc()
		return &instance{ctrl: ctrl, ui: ui}, nil
	})
}

// instanceKey holds nothing the client can vary per click.
func instanceKey(sid, formID string) string {
	return sid + "|" + formID
}

// pageRef picks the originating page: an explicit source, else the
// Referer, with query and fragment stripped.
func pageRef(explicit, referer string) string {
	raw := strings.TrimSpace(explicit)
	if raw == "" {
		raw = referer
	}
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return raw
	}
	u.RawQuery, u.Fragment, u.User = "", "", nil
	return u.String()
}

func decodeSubmit(w http.ResponseWriter, r *http.Request) (submitRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req submitRequest
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("invalid form body: %w", err)
	}
	req.Fields = make(map[string]string, len(r.PostForm))
	for k, vs := range r.PostForm {
		if k == form.FieldSource {
			req.Source = vs[0]
			continue
		}
		req.Fields[k] = vs[0]
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
