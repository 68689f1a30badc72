package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TETEnot/plotweaver/internal/character"
	"github.com/TETEnot/plotweaver/internal/observe"
	"github.com/TETEnot/plotweaver/internal/story"
	"github.com/TETEnot/plotweaver/internal/world"
	"github.com/TETEnot/plotweaver/pkg/provider/llm"
)

// ErrBackendUnavailable is returned when the generation backend is not
// ready to serve requests.
var ErrBackendUnavailable = errors.New("compose: generation backend unavailable")

const (
	// DefaultMaxTokens applies to plain generation requests.
	DefaultMaxTokens = 512

	// AdvancedMaxTokens applies to context-integrated requests, which
	// produce longer prose.
	AdvancedMaxTokens = 1000

	// DefaultTemperature applies when a request specifies none.
	DefaultTemperature = 0.7

	// variationMaxTokens caps each brainstorm variation; they are meant
	// to be sketches, not drafts.
	variationMaxTokens = 400

	// variationBaseTemp is the temperature of the first variation; each
	// further variation adds variationTempStep for diversity.
	variationBaseTemp = 0.6
	variationTempStep = 0.1
)

// Facade wires the stored creative state to the generation backend. It is
// the single entry point for all text generation.
type Facade struct {
	provider   llm.Provider
	world      *world.Manager
	stories    *story.Manager
	characters *character.Manager
	metrics    *observe.Metrics
}

// New returns a Facade over the given provider and state managers.
// metrics may be nil, in which case generation is not instrumented.
func New(p llm.Provider, w *world.Manager, s *story.Manager, c *character.Manager, m *observe.Metrics) *Facade {
	return &Facade{provider: p, world: w, stories: s, characters: c, metrics: m}
}

// Ready reports whether the generation backend can serve requests,
// wrapping any backend error in ErrBackendUnavailable.
func (f *Facade) Ready(ctx context.Context) error {
	if err := f.provider.Ready(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return nil
}

// ModelInfo exposes the backend identity for status endpoints.
func (f *Facade) ModelInfo() llm.ModelInfo {
	return f.provider.ModelInfo()
}

// Request is a genre-templated generation request.
type Request struct {
	// Prompt is the user's writing request.
	Prompt string

	// Genre selects the prompt template; unknown values fall back to
	// the default genre.
	Genre string

	// CharacterNames selects which stored characters to inject into the
	// prompt. Empty means none.
	CharacterNames []string

	// MaxTokens caps the response length; 0 means DefaultMaxTokens.
	MaxTokens int

	// Temperature controls sampling randomness; 0 means DefaultTemperature.
	Temperature float64
}

// Result is the outcome of a genre-templated generation.
type Result struct {
	// Response is the generated text.
	Response string

	// Genre is the template key actually used.
	Genre string

	// CharacterMemoryUsed reports whether stored character information
	// made it into the prompt.
	CharacterMemoryUsed bool

	// Model identifies the backend that produced the text.
	Model llm.ModelInfo
}

// Generate runs one genre-templated generation and records the exchange in
// the rolling conversation transcript.
func (f *Facade) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := f.Ready(ctx); err != nil {
		return nil, err
	}

	tmpl := TemplateFor(req.Genre)
	memory := f.characters.MemoryString(req.CharacterNames)
	prompt := tmpl.Render(req.Prompt, memory)

	resp, err := f.generate(ctx, "basic", llm.GenerationRequest{
		Prompt:      prompt,
		MaxTokens:   orDefault(req.MaxTokens, DefaultMaxTokens),
		Temperature: orDefaultTemp(req.Temperature),
	})
	if err != nil {
		return nil, err
	}

	f.characters.AddConversation(req.Prompt, resp.Text)

	return &Result{
		Response:            resp.Text,
		Genre:               tmpl.Key,
		CharacterMemoryUsed: memory != character.NoCharacterInfo,
		Model:               f.provider.ModelInfo(),
	}, nil
}

// AdvancedRequest is a context-integrated generation request: the prompt
// is preceded by whichever stored context blocks the request opts into.
type AdvancedRequest struct {
	// Prompt is the writing instruction.
	Prompt string

	// StoryID selects the story whose structure is injected. Empty skips
	// story context; an unknown ID injects nothing.
	StoryID string

	// IncludeChapter additionally injects the current chapter with full
	// scene content. Only meaningful with a StoryID.
	IncludeChapter bool

	// UseWorldContext injects the world settings, key history and active
	// plot threads.
	UseWorldContext bool

	// UseCharacterMemory injects character profiles. CharacterNames
	// selects which; empty means all stored characters.
	UseCharacterMemory bool
	CharacterNames     []string

	// MaxTokens caps the response length; 0 means AdvancedMaxTokens.
	MaxTokens int

	// Temperature controls sampling randomness; 0 means DefaultTemperature.
	Temperature float64
}

// ContextUsage reports which context blocks ended up in the prompt.
type ContextUsage struct {
	World           bool `json:"world_context"`
	Story           bool `json:"story_context"`
	Chapter         bool `json:"chapter_context"`
	CharacterMemory bool `json:"character_memory"`
}

// AdvancedResult is the outcome of a context-integrated generation.
type AdvancedResult struct {
	Response    string
	ContextUsed ContextUsage
	Model       llm.ModelInfo
}

// GenerateAdvanced assembles the opted-in context blocks, joins them with
// blank lines above the writing instructions, and runs one generation.
// Empty blocks are dropped; the character block is dropped when the store
// has nothing to say about the requested names.
func (f *Facade) GenerateAdvanced(ctx context.Context, req AdvancedRequest) (*AdvancedResult, error) {
	if err := f.Ready(ctx); err != nil {
		return nil, err
	}

	var blocks []string
	var used ContextUsage

	if req.UseWorldContext {
		if wc := f.world.WorldContext(); wc != "" {
			blocks = append(blocks, wc)
			used.World = true
		}
	}
	if req.StoryID != "" {
		if sc := f.stories.StoryContext(req.StoryID); sc != "" {
			blocks = append(blocks, sc)
			used.Story = true
		}
		if req.IncludeChapter {
			if cc := f.stories.CurrentChapterContext(req.StoryID); cc != "" {
				blocks = append(blocks, cc)
				used.Chapter = true
			}
		}
	}
	if req.UseCharacterMemory {
		names := req.CharacterNames
		if len(names) == 0 {
			names = f.characters.Names()
		}
		if mem := f.characters.MemoryString(names); mem != character.NoCharacterInfo {
			blocks = append(blocks, "=== Character Information ===\n"+mem)
			used.CharacterMemory = true
		}
	}

	var sb strings.Builder
	if len(blocks) > 0 {
		sb.WriteString(strings.Join(blocks, "\n\n"))
		sb.WriteString("\n\n")
	}
	sb.WriteString("=== Writing Instructions ===\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\nStay consistent with the world, story and character information above.")

	resp, err := f.generate(ctx, "advanced", llm.GenerationRequest{
		Prompt:      sb.String(),
		MaxTokens:   orDefault(req.MaxTokens, AdvancedMaxTokens),
		Temperature: orDefaultTemp(req.Temperature),
	})
	if err != nil {
		return nil, err
	}

	return &AdvancedResult{
		Response:    resp.Text,
		ContextUsed: used,
		Model:       f.provider.ModelInfo(),
	}, nil
}

// Variation is one entry of a multi-variation brainstorm.
type Variation struct {
	Variation   int     `json:"variation"`
	Response    string  `json:"response"`
	Temperature float64 `json:"temperature"`
}

// GenerateVariations produces n takes on the same request, stepping the
// temperature up for each one so the takes diverge. The first backend
// failure aborts the whole batch.
func (f *Facade) GenerateVariations(ctx context.Context, req Request, n int) ([]Variation, error) {
	if err := f.Ready(ctx); err != nil {
		return nil, err
	}

	tmpl := TemplateFor(req.Genre)
	memory := f.characters.MemoryString(req.CharacterNames)

	variations := make([]Variation, 0, n)
	for i := 0; i < n; i++ {
		temp := variationBaseTemp + float64(i)*variationTempStep
		prompt := tmpl.Render(fmt.Sprintf("%s (variation %d)", req.Prompt, i+1), memory)

		resp, err := f.generate(ctx, "variations", llm.GenerationRequest{
			Prompt:      prompt,
			MaxTokens:   variationMaxTokens,
			Temperature: temp,
		})
		if err != nil {
			return nil, fmt.Errorf("compose: variation %d: %w", i+1, err)
		}
		variations = append(variations, Variation{
			Variation:   i + 1,
			Response:    resp.Text,
			Temperature: temp,
		})
	}
	return variations, nil
}

// generate calls the backend and records metrics for the call.
func (f *Facade) generate(ctx context.Context, mode string, req llm.GenerationRequest) (*llm.GenerationResponse, error) {
	start := time.Now()
	resp, err := f.provider.Generate(ctx, req)

	if f.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		info := f.provider.ModelInfo()
		f.metrics.RecordGeneration(ctx, info.Provider, mode, status, time.Since(start).Seconds())
		if resp != nil {
			f.metrics.RecordTokens(ctx, info.Provider, resp.Usage.CompletionTokens)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("compose: generating: %w", err)
	}
	return resp, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultTemp(v float64) float64 {
	if v <= 0 {
		return DefaultTemperature
	}
	return v
}
