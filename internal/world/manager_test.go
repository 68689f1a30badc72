package world_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/TETEnot/plotweaver/internal/world"
)

func newSetting(id, name string, cat world.SettingCategory) world.Setting {
	return world.Setting{ID: id, Name: name, Category: cat, Description: name + " description"}
}

func TestAddSettingPersistsAcrossRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := world.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	for i := 1; i <= 12; i++ {
		s := newSetting(fmt.Sprintf("setting_%d", i), fmt.Sprintf("Place %d", i), world.CategoryGeography)
		if err := m.AddSetting(s); err != nil {
			t.Fatalf("AddSetting %d: %v", i, err)
		}
	}

	reloaded, err := world.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	got := reloaded.Settings()
	if len(got) != 12 {
		t.Fatalf("Settings after reload: got %d, want 12", len(got))
	}
	// Ordinal order must survive the reload: setting_2 before setting_10.
	for i, s := range got {
		want := fmt.Sprintf("setting_%d", i+1)
		if s.ID != want {
			t.Fatalf("Settings[%d]: got ID %q, want %q", i, s.ID, want)
		}
	}
}

func TestEventsByYear(t *testing.T) {
	t.Parallel()

	m, err := world.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	years := []int{500, 100, 300}
	for i, y := range years {
		e := world.Event{
			ID:         fmt.Sprintf("event_%d", i+1),
			Name:       fmt.Sprintf("Event %d", i+1),
			Year:       y,
			Importance: 1,
		}
		if err := m.AddEvent(e); err != nil {
			t.Fatalf("AddEvent: %v", err)
		}
	}

	got := m.EventsByYear()
	wantYears := []int{100, 300, 500}
	for i, e := range got {
		if e.Year != wantYears[i] {
			t.Fatalf("EventsByYear[%d]: got year %d, want %d", i, e.Year, wantYears[i])
		}
	}
}

func TestCheckConsistency(t *testing.T) {
	t.Parallel()

	m, err := world.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	threads := []world.Thread{
		{ID: "plot_1", Name: "The Lost Crown", Status: world.ThreadActive},
		{ID: "plot_2", Name: "The Debt", Status: world.ThreadActive, PayoffEvents: []string{"event_9"}},
		{ID: "plot_3", Name: "Old Feud", Status: world.ThreadResolved},
	}
	for _, th := range threads {
		if err := m.AddThread(th); err != nil {
			t.Fatalf("AddThread: %v", err)
		}
	}

	issues := m.CheckConsistency()
	if len(issues) != 1 {
		t.Fatalf("CheckConsistency: got %d issues, want 1: %v", len(issues), issues)
	}
	if !strings.Contains(issues[0], "The Lost Crown") {
		t.Fatalf("CheckConsistency: issue should name the thread, got %q", issues[0])
	}
}

func TestStrictEnumRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := world.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.AddSetting(newSetting("setting_1", "Harbour", world.CategoryGeography)); err != nil {
		t.Fatalf("AddSetting: %v", err)
	}

	// Unknown category values in the stored file must fail the reload
	// instead of silently defaulting.
	corrupt := `{"setting_1": {"id": "setting_1", "name": "Harbour", "category": "weather", "description": ""}}`
	writeFile(t, dir, "world_settings.json", corrupt)

	if _, err := world.NewManager(dir); err == nil {
		t.Fatal("NewManager: expected error for unrecognised category")
	}
}

func TestActiveThreadCount(t *testing.T) {
	t.Parallel()

	m, err := world.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	for i, st := range []world.ThreadStatus{world.ThreadActive, world.ThreadAbandoned, world.ThreadActive} {
		th := world.Thread{ID: fmt.Sprintf("plot_%d", i+1), Name: fmt.Sprintf("T%d", i+1), Status: st}
		if err := m.AddThread(th); err != nil {
			t.Fatalf("AddThread: %v", err)
		}
	}
	if got := m.ActiveThreadCount(); got != 2 {
		t.Fatalf("ActiveThreadCount: got %d, want 2", got)
	}
}
