package story_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/TETEnot/plotweaver/internal/story"
)

func newStory(t *testing.T, m *story.Manager) string {
	t.Helper()
	id, err := m.CreateStory("The Glass Orchard", "fantasy", "A gardener grows memories.", 50000)
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	return id
}

func TestCreateStory(t *testing.T) {
	t.Parallel()

	m, err := story.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	id := newStory(t, m)
	if !strings.HasPrefix(id, "story_1_") {
		t.Fatalf("CreateStory: ID %q should carry the sequence prefix story_1_", id)
	}

	st, err := m.Story(id)
	if err != nil {
		t.Fatalf("Story: %v", err)
	}
	if st.Status != "planning" {
		t.Fatalf("Story: initial status %q, want planning", st.Status)
	}
	if st.CurrentWordCount != 0 {
		t.Fatalf("Story: initial word count %d, want 0", st.CurrentWordCount)
	}
}

func TestAddChapterNumbersSequentially(t *testing.T) {
	t.Parallel()

	m, err := story.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	id := newStory(t, m)

	ch1, err := m.AddChapter(id, "Seeds", "", 3000)
	if err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	ch2, err := m.AddChapter(id, "Roots", "", 3000)
	if err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	if want := id + "_chapter_1"; ch1 != want {
		t.Fatalf("AddChapter: first ID %q, want %q", ch1, want)
	}
	if want := id + "_chapter_2"; ch2 != want {
		t.Fatalf("AddChapter: second ID %q, want %q", ch2, want)
	}

	st, _ := m.Story(id)
	if st.Chapters[0].Status != story.StatusPlanned {
		t.Fatalf("AddChapter: initial status %q, want planned", st.Chapters[0].Status)
	}
}

func TestAddSceneAddressesChapterByNumber(t *testing.T) {
	t.Parallel()

	m, err := story.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	id := newStory(t, m)
	if _, err := m.AddChapter(id, "Seeds", "", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if _, err := m.AddChapter(id, "Roots", "", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	scID, err := m.AddScene(id, 2, story.Scene{Name: "Digging"})
	if err != nil {
		t.Fatalf("AddScene: %v", err)
	}
	if want := id + "_chapter_2_scene_1"; scID != want {
		t.Fatalf("AddScene: scene ID %q, want %q", scID, want)
	}

	if _, err := m.AddScene(id, 3, story.Scene{Name: "s"}); !errors.Is(err, story.ErrChapterNotFound) {
		t.Fatalf("AddScene: expected ErrChapterNotFound for chapter 3, got %v", err)
	}
}

func TestUpdateSceneContentCascadesWordCounts(t *testing.T) {
	t.Parallel()

	m, err := story.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	id := newStory(t, m)
	if _, err := m.AddChapter(id, "Seeds", "", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	if _, err := m.AddScene(id, 1, story.Scene{Name: "Opening", Location: "the orchard"}); err != nil {
		t.Fatalf("AddScene: %v", err)
	}

	// Multi-byte content: the count is runes, not bytes or words.
	content := "霧の朝、庭師は目を覚ました。"
	if err := m.UpdateSceneContent(id, 1, 0, content); err != nil {
		t.Fatalf("UpdateSceneContent: %v", err)
	}

	st, _ := m.Story(id)
	sc := st.Chapters[0].Scenes[0]
	if sc.WordCount != 14 {
		t.Fatalf("scene WordCount: got %d, want 14 (rune count)", sc.WordCount)
	}
	if st.Chapters[0].ActualWordCount != 14 {
		t.Fatalf("chapter ActualWordCount: got %d, want 14", st.Chapters[0].ActualWordCount)
	}
	if st.CurrentWordCount != 14 {
		t.Fatalf("story CurrentWordCount: got %d, want 14", st.CurrentWordCount)
	}
}

func TestUpdateSceneContentBounds(t *testing.T) {
	t.Parallel()

	m, err := story.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	id := newStory(t, m)
	if _, err := m.AddChapter(id, "Seeds", "", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	if err := m.UpdateSceneContent(id, 1, 0, "x"); !errors.Is(err, story.ErrSceneNotFound) {
		t.Fatalf("UpdateSceneContent: expected ErrSceneNotFound, got %v", err)
	}
	if err := m.UpdateSceneContent(id, 0, 0, "x"); !errors.Is(err, story.ErrChapterNotFound) {
		t.Fatalf("UpdateSceneContent: expected ErrChapterNotFound for chapter 0, got %v", err)
	}
	if err := m.UpdateSceneContent(id, 2, 0, "x"); !errors.Is(err, story.ErrChapterNotFound) {
		t.Fatalf("UpdateSceneContent: expected ErrChapterNotFound for chapter 2, got %v", err)
	}
	if err := m.UpdateSceneContent("nope", 1, 0, "x"); !errors.Is(err, story.ErrStoryNotFound) {
		t.Fatalf("UpdateSceneContent: expected ErrStoryNotFound, got %v", err)
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := story.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	id := newStory(t, m)
	if _, err := m.AddChapter(id, "Seeds", "sprouting", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	if _, err := m.AddScene(id, 1, story.Scene{Name: "Opening", Content: "hello"}); err != nil {
		t.Fatalf("AddScene: %v", err)
	}

	reloaded, err := story.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	st, err := reloaded.Story(id)
	if err != nil {
		t.Fatalf("Story after reload: %v", err)
	}
	if len(st.Chapters) != 1 || len(st.Chapters[0].Scenes) != 1 {
		t.Fatalf("reload: got %d chapters, want 1 with 1 scene", len(st.Chapters))
	}
	if st.CurrentWordCount != 5 {
		t.Fatalf("reload: CurrentWordCount %d, want 5", st.CurrentWordCount)
	}
}

func TestSetChapterStatus(t *testing.T) {
	t.Parallel()

	m, err := story.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	id := newStory(t, m)
	if _, err := m.AddChapter(id, "Seeds", "", 3000); err != nil {
		t.Fatalf("AddChapter: %v", err)
	}

	if err := m.SetChapterStatus(id, 1, story.StatusDrafting); err != nil {
		t.Fatalf("SetChapterStatus: %v", err)
	}
	st, _ := m.Story(id)
	if st.Chapters[0].Status != story.StatusDrafting {
		t.Fatalf("SetChapterStatus: got %q, want drafting", st.Chapters[0].Status)
	}

	if err := m.SetChapterStatus(id, 1, "finished"); err == nil {
		t.Fatal("SetChapterStatus: expected error for unrecognised status")
	}
	if err := m.SetChapterStatus(id, 2, story.StatusDrafting); !errors.Is(err, story.ErrChapterNotFound) {
		t.Fatalf("SetChapterStatus: expected ErrChapterNotFound for chapter 2, got %v", err)
	}
}
