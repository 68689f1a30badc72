package character

import (
	"fmt"
	"strings"
)

// speaker labels a conversation turn.
type speaker string

const (
	speakerUser speaker = "User"
	speakerAI   speaker = "AI"
)

// turn is a single utterance in the transcript.
type turn struct {
	who  speaker
	text string
}

// conversation is a rolling in-memory transcript. It is deliberately not
// persisted; the transcript only informs prompts within one process
// lifetime. Access is guarded by the owning Manager's lock.
type conversation struct {
	turns []turn
}

// AddConversation appends one exchange — the user's input followed by the
// assistant's response — to the transcript.
func (m *Manager) AddConversation(userInput, aiResponse string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conv.turns = append(m.conv.turns,
		turn{who: speakerUser, text: userInput},
		turn{who: speakerAI, text: aiResponse},
	)
}

// RecentConversation renders the last n turns oldest-first, one
// "Speaker: text" line each. Fewer stored turns than n returns them all.
func (m *Manager) RecentConversation(n int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.conv.turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.who, t.text))
	}
	return strings.Join(lines, "\n")
}

// ClearConversation drops the whole transcript.
func (m *Manager) ClearConversation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conv.turns = nil
}

// ConversationLen reports the number of stored turns.
func (m *Manager) ConversationLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conv.turns)
}
