package story

import "fmt"

// WritingSuggestions produces advice for the next writing session: one
// progress-tier suggestion based on how close the story is to its target
// length, plus one suggestion per chapter that is still planned or only
// outlined. An unknown story ID returns ErrStoryNotFound.
func (m *Manager) WritingSuggestions(storyID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stories[storyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	var suggestions []string

	target := float64(s.TargetWordCount)
	cur := float64(s.CurrentWordCount)
	switch {
	case cur < target*0.1:
		suggestions = append(suggestions, "Flesh out the opening: set the scene and hook the reader")
	case cur < target*0.5:
		suggestions = append(suggestions, "Deepen the relationships between your characters")
	case cur < target*0.8:
		suggestions = append(suggestions, "Raise the tension as the story builds toward its climax")
	default:
		suggestions = append(suggestions, "Start resolving your open threads as the ending approaches")
	}

	for _, ch := range s.Chapters {
		switch ch.Status {
		case StatusPlanned:
			suggestions = append(suggestions, fmt.Sprintf("Draft an outline for chapter %d", ch.Number))
		case StatusOutline:
			suggestions = append(suggestions, fmt.Sprintf("Start drafting chapter %d", ch.Number))
		}
	}

	return suggestions, nil
}
