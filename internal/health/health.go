// Package health provides HTTP health and readiness check handlers.
//
// The package exposes three endpoints:
//
//   - /health  — application status: model readiness, feature availability
//     and test-mode flag, always 200.
//   - /healthz — liveness probe; always returns 200 OK.
//   - /readyz  — readiness probe; returns 200 only when all registered
//     [Checker] functions pass.
//
// Probe responses are JSON objects with a top-level "status" field ("ok" or
// "fail") and a "checks" map containing the result of each named checker.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// checkTimeout is the maximum time a single readiness check may take before
// the context is cancelled.
const checkTimeout = 5 * time.Second

// Checker is a named health check function. The Check function should return
// nil when the dependency is healthy and a non-nil error describing the
// failure otherwise.
type Checker struct {
	// Name is a short, human-readable label for this check (e.g. "backend",
	// "storage"). It appears as a key in the JSON response.
	Name string

	// Check probes the dependency. It must respect context cancellation.
	Check func(ctx context.Context) error
}

// probeResult is the JSON response body for the probe endpoints.
type probeResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// statusResult is the JSON response body for /health.
type statusResult struct {
	Status            string          `json:"status"`
	ModelReady        bool            `json:"model_ready"`
	FeaturesAvailable map[string]bool `json:"features_available"`
	TestMode          bool            `json:"test_mode"`
}

// Handler serves the health endpoints. It is safe for concurrent use; the
// checker list is fixed at construction time.
type Handler struct {
	checkers   []Checker
	modelReady func(ctx context.Context) bool
	testMode   bool
}

// New creates a [Handler]. modelReady is probed on every /health request;
// the checkers are evaluated sequentially, in order, on every /readyz
// request.
func New(modelReady func(ctx context.Context) bool, testMode bool, checkers ...Checker) *Handler {
	c := make([]Checker, len(checkers))
	copy(c, checkers)
	return &Handler{checkers: c, modelReady: modelReady, testMode: testMode}
}

// Status reports the application-level health summary: the stored-state
// features are always available, generation only when the model is ready.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ready := h.modelReady(r.Context())
	writeJSON(w, http.StatusOK, statusResult{
		Status:     "healthy",
		ModelReady: ready,
		FeaturesAvailable: map[string]bool{
			"world_management":     true,
			"story_management":     true,
			"character_management": true,
			"ai_generation":        ready,
		},
		TestMode: h.testMode,
	})
}

// Healthz is a liveness probe that always returns 200 OK. A running process
// that can serve HTTP is considered alive.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, probeResult{Status: "ok"})
}

// Readyz is a readiness probe that returns 200 only when every registered
// [Checker] passes. Each checker is given a context with a [checkTimeout]
// deadline derived from the request context.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.checkers))
	allOK := true

	for _, c := range h.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Check(ctx)
		cancel()

		if err != nil {
			checks[c.Name] = "fail: " + err.Error()
			allOK = false
		} else {
			checks[c.Name] = "ok"
		}
	}

	res := probeResult{
		Status: "ok",
		Checks: checks,
	}
	status := http.StatusOK
	if !allOK {
		res.Status = "fail"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, res)
}

// Register adds the /health, /healthz and /readyz routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Status)
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// writeJSON encodes v as JSON and writes it with the given status code. On
// encoding failure it falls back to a plain-text 500 response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
