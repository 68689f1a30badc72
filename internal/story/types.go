// Package story manages the writing side of PlotWeaver: stories, their
// ordered chapters, and the scenes within each chapter.
//
// Word counts are derived bottom-up: a scene's count is the rune count of
// its content (the original data model calls this "word_count" — the naming
// mismatch is preserved deliberately, since all progress thresholds are
// calibrated against it), a chapter's count is the sum of its scenes, and a
// story's count is the sum of its chapters. Counts are recomputed on every
// mutation.
package story

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// ChapterStatus is the drafting lifecycle state of a chapter.
type ChapterStatus string

const (
	// StatusPlanned marks a chapter that exists only as an idea.
	StatusPlanned ChapterStatus = "planned"

	// StatusOutline marks a chapter with a completed outline.
	StatusOutline ChapterStatus = "outline"

	// StatusDrafting marks a chapter being actively written.
	StatusDrafting ChapterStatus = "drafting"

	// StatusDraft marks a chapter with a finished first draft.
	StatusDraft ChapterStatus = "draft"

	// StatusRevision marks a chapter under revision.
	StatusRevision ChapterStatus = "revision"

	// StatusCompleted marks a finished chapter.
	StatusCompleted ChapterStatus = "completed"
)

// IsValid reports whether s is a recognised chapter status.
func (s ChapterStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusOutline, StatusDrafting, StatusDraft,
		StatusRevision, StatusCompleted:
		return true
	}
	return false
}

// UnmarshalJSON decodes the status from its string value and rejects
// unrecognised values so a corrupted file fails the load instead of
// silently defaulting.
func (s *ChapterStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st := ChapterStatus(raw)
	if !st.IsValid() {
		return fmt.Errorf("story: unrecognised chapter status %q", raw)
	}
	*s = st
	return nil
}

// Scene is a single dramatic unit within a chapter.
type Scene struct {
	// ID is the generated identifier ({chapterID}_scene_N).
	ID string `json:"id"`

	// Name is the scene's display name.
	Name string `json:"name"`

	// Description summarises what happens.
	Description string `json:"description"`

	// Location names where the scene takes place.
	Location string `json:"location"`

	// Characters lists the character names appearing in the scene. Free
	// text; no referential integrity with the character store.
	Characters []string `json:"characters,omitempty"`

	// Purpose states what the scene accomplishes for the story.
	Purpose string `json:"purpose"`

	// Content is the drafted prose, empty until written.
	Content string `json:"content"`

	// WordCount is the rune count of Content, recomputed whenever the
	// content is set.
	WordCount int `json:"word_count"`

	// Notes is free-text authorial notes.
	Notes string `json:"notes,omitempty"`

	// PlotThreads references related plot-thread IDs. Unvalidated.
	PlotThreads []string `json:"plot_threads,omitempty"`
}

// Chapter is an ordered group of scenes inside a story.
type Chapter struct {
	// ID is the generated identifier ({storyID}_chapter_N).
	ID string `json:"id"`

	// Number is the 1-based ordinal, assigned as chapter count + 1 at
	// insert time. It is not renumbered afterwards.
	Number int `json:"number"`

	Title   string `json:"title"`
	Summary string `json:"summary"`

	// Scenes is the ordered scene list.
	Scenes []Scene `json:"scenes"`

	// Status is the drafting lifecycle state.
	Status ChapterStatus `json:"status"`

	// TargetWordCount is the authorial goal for this chapter.
	TargetWordCount int `json:"target_word_count"`

	// ActualWordCount is the sum of all scene word counts, recomputed on
	// every mutation.
	ActualWordCount int `json:"actual_word_count"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// recountWords recomputes ActualWordCount from the chapter's scenes.
func (c *Chapter) recountWords() {
	total := 0
	for _, s := range c.Scenes {
		total += s.WordCount
	}
	c.ActualWordCount = total
}

// Story is a complete work with ordered chapters.
type Story struct {
	// ID is the generated identifier (story_N_UNIXTS).
	ID string `json:"id"`

	Title string `json:"title"`

	// Genre is a free string. It is validated only against the display
	// list in the API surface, not here.
	Genre string `json:"genre"`

	Summary string `json:"summary"`

	// Chapters is the ordered chapter list.
	Chapters []Chapter `json:"chapters"`

	// TargetWordCount is the authorial goal for the whole story.
	TargetWordCount int `json:"target_word_count"`

	// CurrentWordCount is the sum of chapter actual word counts,
	// recomputed on every mutation.
	CurrentWordCount int `json:"current_word_count"`

	// Status is a free string, default "planning". Deliberately open,
	// unlike ChapterStatus.
	Status string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// recountWords recomputes CurrentWordCount from the story's chapters.
func (s *Story) recountWords() {
	total := 0
	for _, c := range s.Chapters {
		total += c.ActualWordCount
	}
	s.CurrentWordCount = total
}

// countContent is the canonical content-length measure: a rune count, not
// a word-boundary count.
func countContent(content string) int {
	return utf8.RuneCountInString(content)
}
