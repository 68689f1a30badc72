package story

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TETEnot/plotweaver/internal/storage"
)

var (
	// ErrStoryNotFound is returned when a story ID resolves to nothing.
	ErrStoryNotFound = errors.New("story: story not found")

	// ErrChapterNotFound is returned when a chapter number resolves to
	// nothing within its story.
	ErrChapterNotFound = errors.New("story: chapter not found")

	// ErrSceneNotFound is returned when a scene index is out of range.
	ErrSceneNotFound = errors.New("story: scene not found")
)

const storiesFile = "stories.json"

// Manager owns all stories and persists them to a single JSON file. Every
// mutation rewrites the whole file; there is no partial update.
type Manager struct {
	mu   sync.RWMutex
	file string

	stories map[string]*Story
	order   []string
}

// NewManager loads existing stories from dir, creating the directory on the
// first save if it does not exist yet.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{
		file:    filepath.Join(dir, storiesFile),
		stories: make(map[string]*Story),
	}

	var raw map[string]*Story
	if _, err := storage.Load(m.file, &raw); err != nil {
		return nil, fmt.Errorf("story: loading %s: %w", storiesFile, err)
	}
	for id, s := range raw {
		m.stories[id] = s
		m.order = append(m.order, id)
	}
	sortStoryIDs(m.order)
	return m, nil
}

// sortStoryIDs orders story IDs by their embedded sequence number
// (story_N_UNIXTS), falling back to lexicographic order for anything that
// does not match the shape.
func sortStoryIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aok := storyOrdinal(ids[i])
		b, bok := storyOrdinal(ids[j])
		if aok && bok && a != b {
			return a < b
		}
		if aok != bok {
			return aok
		}
		return ids[i] < ids[j]
	})
}

func storyOrdinal(id string) (int, bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0] != "story" {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// save writes the full story map. Callers must hold the write lock.
func (m *Manager) save() error {
	if err := storage.Save(m.file, m.stories); err != nil {
		return fmt.Errorf("story: saving %s: %w", storiesFile, err)
	}
	return nil
}

// CreateStory registers a new story and returns its generated ID.
func (m *Manager) CreateStory(title, genre, summary string, targetWords int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := fmt.Sprintf("story_%d_%d", len(m.stories)+1, time.Now().Unix())
	now := time.Now()
	m.stories[id] = &Story{
		ID:              id,
		Title:           title,
		Genre:           genre,
		Summary:         summary,
		Chapters:        []Chapter{},
		TargetWordCount: targetWords,
		Status:          "planning",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.order = append(m.order, id)
	if err := m.save(); err != nil {
		return "", err
	}
	return id, nil
}

// AddChapter appends a chapter to the story and returns the chapter ID.
// The chapter number is the current chapter count plus one.
func (m *Manager) AddChapter(storyID, title, summary string, targetWords int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stories[storyID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	num := len(s.Chapters) + 1
	now := time.Now()
	ch := Chapter{
		ID:              fmt.Sprintf("%s_chapter_%d", storyID, num),
		Number:          num,
		Title:           title,
		Summary:         summary,
		Scenes:          []Scene{},
		Status:          StatusPlanned,
		TargetWordCount: targetWords,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Chapters = append(s.Chapters, ch)
	s.UpdatedAt = now
	if err := m.save(); err != nil {
		return "", err
	}
	return ch.ID, nil
}

// AddScene appends a scene to the chapter addressed by its 1-based number
// and returns the scene ID.
func (m *Manager) AddScene(storyID string, chapterNumber int, sc Scene) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stories[storyID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}
	ch := chapterByNumber(s, chapterNumber)
	if ch == nil {
		return "", fmt.Errorf("%w: chapter %d in %s", ErrChapterNotFound, chapterNumber, storyID)
	}

	sc.ID = fmt.Sprintf("%s_scene_%d", ch.ID, len(ch.Scenes)+1)
	sc.WordCount = countContent(sc.Content)
	ch.Scenes = append(ch.Scenes, sc)
	ch.recountWords()
	s.recountWords()
	now := time.Now()
	ch.UpdatedAt = now
	s.UpdatedAt = now
	if err := m.save(); err != nil {
		return "", err
	}
	return sc.ID, nil
}

// UpdateSceneContent replaces the content of the scene at the 0-based index
// within the chapter addressed by its 1-based number, and recomputes word
// counts up the chain.
func (m *Manager) UpdateSceneContent(storyID string, chapterNumber, sceneIndex int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stories[storyID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}
	ch := chapterByNumber(s, chapterNumber)
	if ch == nil {
		return fmt.Errorf("%w: chapter %d in %s", ErrChapterNotFound, chapterNumber, storyID)
	}
	if sceneIndex < 0 || sceneIndex >= len(ch.Scenes) {
		return fmt.Errorf("%w: index %d in %s", ErrSceneNotFound, sceneIndex, ch.ID)
	}

	sc := &ch.Scenes[sceneIndex]
	sc.Content = content
	sc.WordCount = countContent(content)
	ch.recountWords()
	s.recountWords()
	now := time.Now()
	ch.UpdatedAt = now
	s.UpdatedAt = now
	return m.save()
}

// SetChapterStatus moves a chapter to a new lifecycle state. The chapter is
// addressed by its 1-based number.
func (m *Manager) SetChapterStatus(storyID string, chapterNumber int, status ChapterStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !status.IsValid() {
		return fmt.Errorf("story: unrecognised chapter status %q", status)
	}
	s, ok := m.stories[storyID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}
	ch := chapterByNumber(s, chapterNumber)
	if ch == nil {
		return fmt.Errorf("%w: chapter %d in %s", ErrChapterNotFound, chapterNumber, storyID)
	}
	ch.Status = status
	now := time.Now()
	ch.UpdatedAt = now
	s.UpdatedAt = now
	return m.save()
}

// Story returns a deep copy of the story, or ErrStoryNotFound.
func (m *Manager) Story(storyID string) (*Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stories[storyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}
	return copyStory(s), nil
}

// Stories returns deep copies of all stories in creation order.
func (m *Manager) Stories() []*Story {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Story, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyStory(m.stories[id]))
	}
	return out
}

// StoryCount reports the number of stories.
func (m *Manager) StoryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stories)
}

// ChapterCount reports the total number of chapters across all stories.
func (m *Manager) ChapterCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, s := range m.stories {
		total += len(s.Chapters)
	}
	return total
}

// TotalWordCount reports the sum of current word counts across all stories.
func (m *Manager) TotalWordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, s := range m.stories {
		total += s.CurrentWordCount
	}
	return total
}

// chapterByNumber resolves a 1-based chapter ordinal, or nil when out of
// range.
func chapterByNumber(s *Story, n int) *Chapter {
	if n < 1 || n > len(s.Chapters) {
		return nil
	}
	return &s.Chapters[n-1]
}

func copyStory(s *Story) *Story {
	cp := *s
	cp.Chapters = make([]Chapter, len(s.Chapters))
	for i, ch := range s.Chapters {
		cc := ch
		cc.Scenes = append([]Scene(nil), ch.Scenes...)
		cp.Chapters[i] = cc
	}
	return &cp
}
