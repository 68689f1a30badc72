package story

import (
	"fmt"
	"strings"
)

// StoryContext renders the story's structure as a text block for prompt
// injection: title, genre, summary and overall progress, then every
// chapter with its status, progress and scene list. Scene content itself
// is not included — only the word count once content exists.
//
// An unknown story ID yields "".
func (m *Manager) StoryContext(storyID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stories[storyID]
	if !ok {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Story: %s ===\n", s.Title)
	fmt.Fprintf(&sb, "Genre: %s\n", s.Genre)
	fmt.Fprintf(&sb, "Summary: %s\n", s.Summary)
	fmt.Fprintf(&sb, "Progress: %d/%d characters\n\n", s.CurrentWordCount, s.TargetWordCount)

	sb.WriteString("=== Chapters ===\n")
	for _, ch := range s.Chapters {
		fmt.Fprintf(&sb, "Chapter %d: %s\n", ch.Number, ch.Title)
		fmt.Fprintf(&sb, "  Summary: %s\n", ch.Summary)
		fmt.Fprintf(&sb, "  Status: %s\n", ch.Status)
		fmt.Fprintf(&sb, "  Progress: %d/%d characters\n", ch.ActualWordCount, ch.TargetWordCount)
		if len(ch.Scenes) > 0 {
			sb.WriteString("  Scenes:\n")
			for i, sc := range ch.Scenes {
				fmt.Fprintf(&sb, "    %d. %s (%s)\n", i+1, sc.Name, sc.Location)
				fmt.Fprintf(&sb, "       Purpose: %s\n", sc.Purpose)
				if sc.Content != "" {
					fmt.Fprintf(&sb, "       Length: %d\n", sc.WordCount)
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// CurrentChapterContext renders the chapter currently being written, with
// full scene content. The current chapter is the first one with status
// drafting or outline in collection order, falling back to the last
// chapter. A story without chapters (or an unknown ID) yields "".
func (m *Manager) CurrentChapterContext(storyID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stories[storyID]
	if !ok {
		return ""
	}

	var cur *Chapter
	for i := range s.Chapters {
		if st := s.Chapters[i].Status; st == StatusDrafting || st == StatusOutline {
			cur = &s.Chapters[i]
			break
		}
	}
	if cur == nil && len(s.Chapters) > 0 {
		cur = &s.Chapters[len(s.Chapters)-1]
	}
	if cur == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Current Chapter: Chapter %d %s ===\n", cur.Number, cur.Title)
	fmt.Fprintf(&sb, "Summary: %s\n\n", cur.Summary)

	for i, sc := range cur.Scenes {
		fmt.Fprintf(&sb, "[Scene %d: %s]\n", i+1, sc.Name)
		fmt.Fprintf(&sb, "Location: %s\n", sc.Location)
		fmt.Fprintf(&sb, "Characters: %s\n", strings.Join(sc.Characters, ", "))
		fmt.Fprintf(&sb, "Purpose: %s\n", sc.Purpose)
		if sc.Content != "" {
			sb.WriteString("Content:\n")
			sb.WriteString(sc.Content)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
