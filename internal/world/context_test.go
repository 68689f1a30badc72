package world_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TETEnot/plotweaver/internal/world"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func populatedManager(t *testing.T) *world.Manager {
	t.Helper()
	m, err := world.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	settings := []world.Setting{
		{ID: "setting_1", Name: "Vel Harbour", Category: world.CategoryGeography,
			Description: "A fog-bound port city.",
			Details:     map[string]string{"population": "40000", "climate": "maritime"}},
		{ID: "setting_2", Name: "The Accord", Category: world.CategoryPolitics,
			Description: "An uneasy treaty between the five houses."},
	}
	for _, s := range settings {
		if err := m.AddSetting(s); err != nil {
			t.Fatalf("AddSetting: %v", err)
		}
	}

	events := []world.Event{
		{ID: "event_1", Name: "The Drowning", Description: "The old quarter sank.", Year: 412, Importance: 5,
			RelatedCharacters: []string{"Mara"}},
		{ID: "event_2", Name: "Minor Festival", Description: "A street fair.", Year: 430, Importance: 1},
		{ID: "event_3", Name: "The Severing", Description: "Magic stopped working for a year.", Year: 401, Importance: 4},
	}
	for _, e := range events {
		if err := m.AddEvent(e); err != nil {
			t.Fatalf("AddEvent: %v", err)
		}
	}

	threads := []world.Thread{
		{ID: "plot_1", Name: "The Missing Heir", Description: "Nobody has seen the heir since the Drowning.",
			Status: world.ThreadActive, RelatedCharacters: []string{"Mara"}},
		{ID: "plot_2", Name: "The Old Debt", Description: "Paid in full.", Status: world.ThreadResolved},
	}
	for _, th := range threads {
		if err := m.AddThread(th); err != nil {
			t.Fatalf("AddThread: %v", err)
		}
	}
	return m
}

func TestWorldContext(t *testing.T) {
	t.Parallel()

	ctx := populatedManager(t).WorldContext()

	for _, want := range []string{
		"## World Settings",
		"### Vel Harbour (geography)",
		"- climate: maritime",
		"## Key History",
		"## Active Plot Threads",
		"### The Missing Heir",
	} {
		if !strings.Contains(ctx, want) {
			t.Errorf("WorldContext: missing %q in:\n%s", want, ctx)
		}
	}

	// Importance < 3 events stay out; resolved threads stay out.
	if strings.Contains(ctx, "Minor Festival") {
		t.Error("WorldContext: importance-1 event should be excluded")
	}
	if strings.Contains(ctx, "The Old Debt") {
		t.Error("WorldContext: resolved thread should be excluded")
	}

	// Important events appear in year order.
	if strings.Index(ctx, "The Severing") > strings.Index(ctx, "The Drowning") {
		t.Error("WorldContext: events should be sorted by year ascending")
	}
}

func TestWorldContextCategoryFilter(t *testing.T) {
	t.Parallel()

	ctx := populatedManager(t).WorldContext(world.CategoryPolitics)
	if strings.Contains(ctx, "Vel Harbour") {
		t.Error("WorldContext: geography setting should be filtered out")
	}
	if !strings.Contains(ctx, "The Accord") {
		t.Error("WorldContext: politics setting should be included")
	}
}

func TestWorldContextEmpty(t *testing.T) {
	t.Parallel()

	m, err := world.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if got := m.WorldContext(); got != "" {
		t.Fatalf("WorldContext: expected empty string for empty world, got %q", got)
	}
}

func TestCharacterRelevantContext(t *testing.T) {
	t.Parallel()

	m := populatedManager(t)

	ctx := m.CharacterRelevantContext([]string{"Mara"})
	if !strings.Contains(ctx, "The Drowning") {
		t.Errorf("CharacterRelevantContext: missing related event in:\n%s", ctx)
	}
	if !strings.Contains(ctx, "The Missing Heir") {
		t.Errorf("CharacterRelevantContext: missing related thread in:\n%s", ctx)
	}
	if strings.Contains(ctx, "Minor Festival") {
		t.Error("CharacterRelevantContext: unrelated event should be excluded")
	}

	if got := m.CharacterRelevantContext([]string{"Nobody"}); got != "" {
		t.Fatalf("CharacterRelevantContext: expected empty for unknown name, got %q", got)
	}
}
