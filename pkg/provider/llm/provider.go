// Package llm defines the Provider interface for text-generation backends.
//
// A provider wraps a remote or local model API (e.g., OpenAI GPT-4o, a local
// Ollama instance, or a llama.cpp server) and exposes a uniform interface for
// the PlotWeaver generation façade to produce prose without coupling to any
// specific SDK.
//
// Implementors must be safe for concurrent use.
package llm

import (
	"context"
	"errors"
)

// ErrNotReady is returned by Ready when the backing model is not loaded or
// the client is not configured. The generation façade translates it into a
// "backend unavailable" condition for the API layer.
var ErrNotReady = errors.New("llm: backend not ready")

// Usage holds token accounting information returned by the backend.
// Counts are in the model's native token unit and may differ between
// providers for the same textual content.
type Usage struct {
	// PromptTokens is the number of tokens consumed by the prompt.
	PromptTokens int

	// CompletionTokens is the number of tokens generated in the response.
	CompletionTokens int

	// TotalTokens is PromptTokens + CompletionTokens.
	TotalTokens int
}

// GenerationRequest carries everything the backend needs to produce prose.
type GenerationRequest struct {
	// Prompt is the fully assembled prompt text, including any context
	// blocks and the writing instruction. Must be non-empty.
	Prompt string

	// MaxTokens caps the number of completion tokens the model may generate.
	// Zero means use the provider default.
	MaxTokens int

	// Temperature controls output randomness in the range [0.0, 2.0].
	// Zero requests the provider default.
	Temperature float64
}

// GenerationResponse is the backend's reply to a [GenerationRequest].
type GenerationResponse struct {
	// Text is the generated prose, returned verbatim from the backend.
	Text string

	// Usage contains token accounting when the backend reports it.
	Usage Usage
}

// ModelInfo describes the model behind a provider, for health reporting and
// startup summaries.
type ModelInfo struct {
	// Provider is the backend family name (e.g., "openai", "ollama", "mock").
	Provider string

	// Model is the provider-specific model identifier (e.g., "gpt-4o").
	Model string
}

// Provider is the abstraction over any text-generation backend.
//
// Implementations must be safe for concurrent use from multiple goroutines
// and must propagate context cancellation promptly.
type Provider interface {
	// Generate sends the prompt to the model and waits for the full response.
	// Returns an error if the request fails or ctx is cancelled first.
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)

	// Ready reports whether the backend can serve generation requests.
	// Returns nil when ready and [ErrNotReady] (possibly wrapped) otherwise.
	Ready(ctx context.Context) error

	// ModelInfo returns static metadata about the backing model. The result
	// is assumed constant for the lifetime of the Provider instance.
	ModelInfo() ModelInfo
}
