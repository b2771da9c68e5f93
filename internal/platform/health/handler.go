// Package health serves the liveness, readiness and status probes.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"hrcatalog/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Readiness states.
const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
	StatusNotReady = "not_ready"
)

// CheckFunc checks one dependency and returns nil when it is healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name     string
	fn       CheckFunc
	required bool
}

// Handler serves the probe endpoints.
type Handler struct {
	startTime    time.Time
	environment  string
	checkTimeout time.Duration
	now          func() time.Time

	mu     sync.RWMutex
	checks []check
}

// Option configures a Handler.
type Option func(*Handler)

// WithCheckTimeout bounds the whole readiness run.
func WithCheckTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.checkTimeout = d
		}
	}
}

// New creates a probe handler for the named environment.
func New(environment string, opts ...Option) *Handler {
	h := &Handler{
		startTime:    time.Now(),
		environment:  environment,
		checkTimeout: 2 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterCheck adds a dependency the service cannot run without. A failing
// required check makes the readiness probe answer 503.
func (h *Handler) RegisterCheck(name string, fn CheckFunc) {
	h.add(check{name: name, fn: fn, required: true})
}

// RegisterOptional adds a dependency whose outage only degrades the service.
// The probe still answers 200 with status "degraded".
func (h *Handler) RegisterOptional(name string, fn CheckFunc) {
	h.add(check{name: name, fn: fn})
}

func (h *Handler) add(c check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = slices.DeleteFunc(h.checks, func(existing check) bool { return existing.name == c.name })
	h.checks = append(h.checks, c)
}

// Register mounts the probe routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// LivenessResponse is the body of the liveness probe.
type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness answers 200 while the process is serving.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

// CheckResult is one dependency's outcome in a readiness run.
type CheckResult struct {
	Status     string `json:"status"`
	Required   bool   `json:"required"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// ReadinessResponse is the body of the readiness probe.
type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// HandleReadiness runs every registered check concurrently under one
// deadline.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	resp := h.Readiness(r.Context())
	code := http.StatusOK
	if resp.Status == StatusNotReady {
		code = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, code, resp)
}

// Readiness runs the checks and folds them into one status.
func (h *Handler) Readiness(ctx context.Context) ReadinessResponse {
	h.mu.RLock()
	checks := slices.Clone(h.checks)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			results[i] = h.run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	resp := ReadinessResponse{Status: StatusReady, Checks: make(map[string]CheckResult, len(checks))}
	for i, c := range checks {
		res := results[i]
		resp.Checks[c.name] = res
		if res.Status == "up" {
			continue
		}
		if c.required {
			resp.Status = StatusNotReady
		} else if resp.Status == StatusReady {
			resp.Status = StatusDegraded
		}
	}
	return resp
}

func (h *Handler) run(ctx context.Context, c check) CheckResult {
	started := h.now()
	err := c.fn(ctx)
	res := CheckResult{
		Status:     "up",
		Required:   c.required,
		DurationMS: h.now().Sub(started).Milliseconds(),
	}
	if err != nil {
		res.Status = "down"
		res.Error = err.Error()
	}
	return res
}

// StatusResponse is the body of the general status endpoint.
type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// HandleStatus reports version and uptime.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.startTime).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
