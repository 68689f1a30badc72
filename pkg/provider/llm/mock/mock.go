// Package mock provides a deterministic test double for the llm.Provider
// interface.
//
// Engine serves two roles: in unit tests it feeds controlled responses and
// records every call, and in the server's test mode it stands in for a real
// backend by returning a canned templated draft that embeds the prompt.
//
// Example:
//
//	e := &mock.Engine{GenerateResponse: &llm.GenerationResponse{Text: "Once upon a time."}}
//	resp, err := e.Generate(ctx, req)
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/TETEnot/plotweaver/pkg/provider/llm"
)

// GenerateCall records a single invocation of Generate.
type GenerateCall struct {
	// Ctx is the context passed to Generate.
	Ctx context.Context
	// Req is the GenerationRequest passed to Generate.
	Req llm.GenerationRequest
}

// Engine is a mock implementation of llm.Provider.
//
// With all fields zero, Generate returns a deterministic templated draft
// built from the request prompt — the behaviour the server uses in test
// mode. Set GenerateResponse or GenerateErr to override.
type Engine struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// GenerateResponse, if non-nil, is returned by Generate instead of the
	// built-in canned draft.
	GenerateResponse *llm.GenerationResponse

	// GenerateErr, if non-nil, is returned as the error from Generate.
	GenerateErr error

	// ReadyErr, if non-nil, is returned from Ready. Nil means ready.
	ReadyErr error

	// --- Call records (read after test) ---

	// GenerateCalls records every invocation of Generate in order.
	GenerateCalls []GenerateCall
}

// Generate records the call and returns the configured response, the
// configured error, or the canned templated draft.
func (e *Engine) Generate(ctx context.Context, req llm.GenerationRequest) (*llm.GenerationResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.GenerateCalls = append(e.GenerateCalls, GenerateCall{Ctx: ctx, Req: req})

	if e.GenerateErr != nil {
		return nil, e.GenerateErr
	}
	if e.GenerateResponse != nil {
		return e.GenerateResponse, nil
	}
	return &llm.GenerationResponse{Text: cannedDraft(req.Prompt)}, nil
}

// Ready records nothing and returns ReadyErr.
func (e *Engine) Ready(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ReadyErr
}

// ModelInfo implements llm.Provider.
func (e *Engine) ModelInfo() llm.ModelInfo {
	return llm.ModelInfo{Provider: "mock", Model: "test-mode"}
}

// Reset clears all recorded calls. Thread-safe.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.GenerateCalls = nil
}

// cannedDraft builds the deterministic test-mode output. The prompt is
// echoed so callers can verify exactly what was assembled for the backend.
func cannedDraft(prompt string) string {
	return fmt.Sprintf(`[test mode]

%s

=== generated draft ===

Opening: the protagonist confronts an unfamiliar situation that sets the
story in motion.

Development: complications mount, relationships deepen, and earlier details
return with new significance.

Climax: the threads laid out above converge in a decisive scene, and the
story's central question is answered.

This is a canned sample produced in test mode. A real backend would return
model-generated prose incorporating the context above.`, prompt)
}

// Compile-time assertion that Engine satisfies llm.Provider.
var _ llm.Provider = (*Engine)(nil)
