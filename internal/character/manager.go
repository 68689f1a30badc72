package character

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/TETEnot/plotweaver/internal/storage"
)

// ErrNotFound is returned when a character name resolves to nothing.
var ErrNotFound = errors.New("character: not found")

// NoCharacterInfo is the sentinel returned by [Manager.MemoryString] when
// there is nothing to report. Callers compare against it to decide whether
// to include a character block in a prompt.
const NoCharacterInfo = "no character information available"

// memoryFile is the persisted shape of the store.
type memoryFile struct {
	Characters  map[string]*Profile `json:"characters"`
	LastUpdated time.Time           `json:"last_updated"`
}

// Manager owns all character profiles and persists them to a single JSON
// file. Every mutation rewrites the whole file.
type Manager struct {
	mu   sync.RWMutex
	file string

	characters map[string]*Profile

	conv conversation
}

// NewManager loads existing profiles from path, starting empty when the
// file does not exist yet.
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		file:       path,
		characters: make(map[string]*Profile),
	}

	var raw memoryFile
	if _, err := storage.Load(path, &raw); err != nil {
		return nil, fmt.Errorf("character: loading memory: %w", err)
	}
	if raw.Characters != nil {
		m.characters = raw.Characters
	}
	return m, nil
}

// save writes the full store. Callers must hold the write lock.
func (m *Manager) save() error {
	data := memoryFile{Characters: m.characters, LastUpdated: time.Now()}
	if err := storage.Save(m.file, data); err != nil {
		return fmt.Errorf("character: saving memory: %w", err)
	}
	return nil
}

// Add registers a character profile under name, replacing any existing
// profile with the same name.
func (m *Manager) Add(name, description string, traits []string, background string, relationships map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if traits == nil {
		traits = []string{}
	}
	if relationships == nil {
		relationships = map[string]string{}
	}
	m.characters[name] = &Profile{
		Description:      description,
		Traits:           traits,
		Background:       background,
		Relationships:    relationships,
		StoryAppearances: []Appearance{},
		DevelopmentNotes: []DevelopmentNote{},
		CreatedAt:        time.Now(),
	}
	return m.save()
}

// Update applies a partial update to an existing profile. Nil fields in
// upd keep their current value.
func (m *Manager) Update(name string, upd ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.characters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Traits != nil {
		p.Traits = upd.Traits
	}
	if upd.Background != nil {
		p.Background = *upd.Background
	}
	if upd.Relationships != nil {
		p.Relationships = upd.Relationships
	}
	now := time.Now()
	p.UpdatedAt = &now
	return m.save()
}

// Get returns a copy of the named profile, or ErrNotFound.
func (m *Manager) Get(name string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.characters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return copyProfile(p), nil
}

// All returns copies of every profile keyed by name.
func (m *Manager) All() map[string]*Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*Profile, len(m.characters))
	for name, p := range m.characters {
		out[name] = copyProfile(p)
	}
	return out
}

// Names returns all character names sorted alphabetically.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.characters))
	for name := range m.characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove deletes the named profile, or returns ErrNotFound.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.characters[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.characters, name)
	return m.save()
}

// Count reports the number of stored characters.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.characters)
}

// MemoryString renders the requested characters as a prompt block: one
// section per known name with description, traits, background and
// relationships. Unknown names are skipped. When names is empty or nothing
// matches, the NoCharacterInfo sentinel is returned instead of an empty
// string.
func (m *Manager) MemoryString(names []string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(names) == 0 {
		return NoCharacterInfo
	}

	var parts []string
	for _, name := range names {
		p, ok := m.characters[name]
		if !ok {
			continue
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "[%s]\n", name)
		fmt.Fprintf(&sb, "Description: %s\n", p.Description)
		if len(p.Traits) > 0 {
			fmt.Fprintf(&sb, "Traits: %s\n", strings.Join(p.Traits, ", "))
		}
		if p.Background != "" {
			fmt.Fprintf(&sb, "Background: %s\n", p.Background)
		}
		if len(p.Relationships) > 0 {
			keys := make([]string, 0, len(p.Relationships))
			for k := range p.Relationships {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			rels := make([]string, 0, len(keys))
			for _, k := range keys {
				rels = append(rels, fmt.Sprintf("%s: %s", k, p.Relationships[k]))
			}
			fmt.Fprintf(&sb, "Relationships: %s\n", strings.Join(rels, ", "))
		}
		parts = append(parts, sb.String())
	}

	if len(parts) == 0 {
		return NoCharacterInfo
	}
	return strings.Join(parts, "\n")
}

// AddAppearance records a story appearance for the named character.
func (m *Manager) AddAppearance(name, storyTitle, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.characters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	p.StoryAppearances = append(p.StoryAppearances, Appearance{
		StoryTitle: storyTitle,
		Role:       role,
		Date:       time.Now(),
	})
	return m.save()
}

// AddDevelopment records a growth note for the named character.
func (m *Manager) AddDevelopment(name, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.characters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	p.DevelopmentNotes = append(p.DevelopmentNotes, DevelopmentNote{
		Note: note,
		Date: time.Now(),
	})
	return m.save()
}

// AddRelationship records a relationship from name to related.
func (m *Manager) AddRelationship(name, related, relationship string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.characters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if p.Relationships == nil {
		p.Relationships = map[string]string{}
	}
	p.Relationships[related] = relationship
	return m.save()
}

// SearchByTrait returns, sorted alphabetically, the names of all
// characters carrying the given trait. Matching is case-insensitive.
func (m *Manager) SearchByTrait(trait string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := strings.ToLower(trait)
	var names []string
	for name, p := range m.characters {
		for _, t := range p.Traits {
			if strings.ToLower(t) == want {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// Statistics summarises the store: totals, the five most common traits
// and how many characters have at least one relationship.
func (m *Manager) Statistics() Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Statistics{TotalCharacters: len(m.characters)}

	traitCounts := make(map[string]int)
	for _, p := range m.characters {
		stats.TotalStoryAppearances += len(p.StoryAppearances)
		if len(p.Relationships) > 0 {
			stats.CharactersWithRelationship++
		}
		for _, t := range p.Traits {
			traitCounts[t]++
		}
	}

	counts := make([]TraitCount, 0, len(traitCounts))
	for t, n := range traitCounts {
		counts = append(counts, TraitCount{Trait: t, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Trait < counts[j].Trait
	})
	if len(counts) > 5 {
		counts = counts[:5]
	}
	stats.MostCommonTraits = counts
	return stats
}

func copyProfile(p *Profile) *Profile {
	cp := *p
	cp.Traits = append([]string(nil), p.Traits...)
	cp.Relationships = make(map[string]string, len(p.Relationships))
	for k, v := range p.Relationships {
		cp.Relationships[k] = v
	}
	cp.StoryAppearances = append([]Appearance(nil), p.StoryAppearances...)
	cp.DevelopmentNotes = append([]DevelopmentNote(nil), p.DevelopmentNotes...)
	return &cp
}
