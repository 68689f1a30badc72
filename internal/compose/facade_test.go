package compose_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TETEnot/plotweaver/internal/character"
	"github.com/TETEnot/plotweaver/internal/compose"
	"github.com/TETEnot/plotweaver/internal/story"
	"github.com/TETEnot/plotweaver/internal/world"
	"github.com/TETEnot/plotweaver/pkg/provider/llm"
	"github.com/TETEnot/plotweaver/pkg/provider/llm/mock"
)

type fixture struct {
	engine     *mock.Engine
	world      *world.Manager
	stories    *story.Manager
	characters *character.Manager
	facade     *compose.Facade
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	w, err := world.NewManager(filepath.Join(dir, "world"))
	if err != nil {
		t.Fatalf("world.NewManager: %v", err)
	}
	s, err := story.NewManager(filepath.Join(dir, "stories"))
	if err != nil {
		t.Fatalf("story.NewManager: %v", err)
	}
	c, err := character.NewManager(filepath.Join(dir, "memory.json"))
	if err != nil {
		t.Fatalf("character.NewManager: %v", err)
	}

	e := &mock.Engine{}
	return &fixture{
		engine:     e,
		world:      w,
		stories:    s,
		characters: c,
		facade:     compose.New(e, w, s, c, nil),
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.engine.GenerateResponse = &llm.GenerationResponse{Text: "A body in the lighthouse."}
	if err := f.characters.Add("Hale", "a dogged inspector", nil, "", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := f.facade.Generate(context.Background(), compose.Request{
		Prompt:         "who did it?",
		Genre:          "mystery",
		CharacterNames: []string{"Hale"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Response != "A body in the lighthouse." {
		t.Errorf("Response = %q", res.Response)
	}
	if res.Genre != "mystery" {
		t.Errorf("Genre = %q", res.Genre)
	}
	if !res.CharacterMemoryUsed {
		t.Error("CharacterMemoryUsed = false, want true")
	}
	if res.Model.Provider != "mock" {
		t.Errorf("Model.Provider = %q", res.Model.Provider)
	}

	if len(f.engine.GenerateCalls) != 1 {
		t.Fatalf("backend called %d times", len(f.engine.GenerateCalls))
	}
	call := f.engine.GenerateCalls[0]
	if !strings.Contains(call.Req.Prompt, "[Hale]") {
		t.Errorf("prompt missing character block:\n%s", call.Req.Prompt)
	}
	if call.Req.MaxTokens != compose.DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default", call.Req.MaxTokens)
	}
	if call.Req.Temperature != compose.DefaultTemperature {
		t.Errorf("Temperature = %f, want default", call.Req.Temperature)
	}

	// The exchange lands in the rolling transcript.
	if n := f.characters.ConversationLen(); n != 2 {
		t.Errorf("ConversationLen = %d, want 2", n)
	}
}

func TestGenerateNoCharacters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.facade.Generate(context.Background(), compose.Request{Prompt: "an opening"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.CharacterMemoryUsed {
		t.Error("CharacterMemoryUsed = true with no characters")
	}
	// The sentinel goes into the prompt verbatim.
	if !strings.Contains(f.engine.GenerateCalls[0].Req.Prompt, character.NoCharacterInfo) {
		t.Error("prompt should contain the no-character sentinel")
	}
}

func TestGenerateBackendUnavailable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.engine.ReadyErr = llm.ErrNotReady

	if _, err := f.facade.Generate(context.Background(), compose.Request{Prompt: "x"}); !errors.Is(err, compose.ErrBackendUnavailable) {
		t.Fatalf("Generate: got %v, want ErrBackendUnavailable", err)
	}
	if err := f.facade.Ready(context.Background()); !errors.Is(err, compose.ErrBackendUnavailable) {
		t.Fatalf("Ready: got %v, want ErrBackendUnavailable", err)
	}
	if len(f.engine.GenerateCalls) != 0 {
		t.Error("backend should not be called when not ready")
	}
}

func TestGenerateAdvanced(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.world.AddSetting(world.Setting{
		ID: "setting_1", Name: "The Hollow Coast", Category: world.CategoryGeography,
		Description: "a storm-carved shoreline",
	}); err != nil {
		t.Fatalf("AddSetting: %v", err)
	}
	storyID, err := f.stories.CreateStory("The Glass Orchard", "fantasy", "", 50000)
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if _, err := f.stories.AddChapter(storyID, "Seeds", "", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if _, err := f.stories.AddScene(storyID, 1, story.Scene{Name: "Opening", Content: "Rain."}); err != nil {
		t.Fatalf("AddScene: %v", err)
	}
	if err := f.characters.Add("Elara", "a mage", nil, "", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := f.facade.GenerateAdvanced(context.Background(), compose.AdvancedRequest{
		Prompt:             "write the next scene",
		StoryID:            storyID,
		IncludeChapter:     true,
		UseWorldContext:    true,
		UseCharacterMemory: true,
	})
	if err != nil {
		t.Fatalf("GenerateAdvanced: %v", err)
	}
	want := compose.ContextUsage{World: true, Story: true, Chapter: true, CharacterMemory: true}
	if res.ContextUsed != want {
		t.Errorf("ContextUsed = %+v, want %+v", res.ContextUsed, want)
	}

	prompt := f.engine.GenerateCalls[0].Req.Prompt
	for _, section := range []string{
		"The Hollow Coast",
		"=== Story: The Glass Orchard ===",
		"=== Character Information ===",
		"[Elara]",
		"=== Writing Instructions ===",
		"write the next scene",
	} {
		if !strings.Contains(prompt, section) {
			t.Errorf("prompt missing %q:\n%s", section, prompt)
		}
	}
	if f.engine.GenerateCalls[0].Req.MaxTokens != compose.AdvancedMaxTokens {
		t.Errorf("MaxTokens = %d, want advanced default", f.engine.GenerateCalls[0].Req.MaxTokens)
	}
}

func TestGenerateAdvancedOmitsEmptyBlocks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.facade.GenerateAdvanced(context.Background(), compose.AdvancedRequest{
		Prompt:             "write an opening",
		StoryID:            "missing",
		IncludeChapter:     true,
		UseWorldContext:    true,
		UseCharacterMemory: true,
	})
	if err != nil {
		t.Fatalf("GenerateAdvanced: %v", err)
	}
	if res.ContextUsed != (compose.ContextUsage{}) {
		t.Errorf("ContextUsed = %+v, want all false", res.ContextUsed)
	}

	prompt := f.engine.GenerateCalls[0].Req.Prompt
	if strings.Contains(prompt, "=== Character Information ===") {
		t.Error("empty character block should be omitted")
	}
	if !strings.HasPrefix(prompt, "=== Writing Instructions ===") {
		t.Errorf("prompt should start with the instructions header:\n%s", prompt)
	}
}

func TestGenerateVariations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	got, err := f.facade.GenerateVariations(context.Background(), compose.Request{Prompt: "a heist"}, 3)
	if err != nil {
		t.Fatalf("GenerateVariations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d variations, want 3", len(got))
	}
	for i, v := range got {
		if v.Variation != i+1 {
			t.Errorf("variation %d numbered %d", i, v.Variation)
		}
		wantTemp := 0.6 + 0.1*float64(i)
		if math.Abs(v.Temperature-wantTemp) > 1e-9 {
			t.Errorf("variation %d temperature = %f, want %f", i+1, v.Temperature, wantTemp)
		}
	}
	for i, call := range f.engine.GenerateCalls {
		if call.Req.MaxTokens != 400 {
			t.Errorf("call %d MaxTokens = %d, want 400", i, call.Req.MaxTokens)
		}
		if want := "(variation " + string(rune('1'+i)) + ")"; !strings.Contains(call.Req.Prompt, want) {
			t.Errorf("call %d prompt missing %q", i, want)
		}
	}
}

func TestGenerateVariationsAbortsOnFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.engine.GenerateErr = errors.New("backend exploded")

	if _, err := f.facade.GenerateVariations(context.Background(), compose.Request{Prompt: "x"}, 3); err == nil {
		t.Fatal("expected error")
	} else if !strings.Contains(err.Error(), "variation 1") {
		t.Errorf("error should name the failed variation: %v", err)
	}
	if len(f.engine.GenerateCalls) != 1 {
		t.Errorf("backend called %d times after first failure, want 1", len(f.engine.GenerateCalls))
	}
}
