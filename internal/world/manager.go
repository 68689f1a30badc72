package world

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/TETEnot/plotweaver/internal/storage"
)

// Manager owns the three world collections (settings, timeline, plot
// threads) and is their sole mutator. It loads all three JSON files at
// construction and rewrites all three on every mutation, matching the
// flat-file persistence model used throughout PlotWeaver.
type Manager struct {
	mu sync.RWMutex

	settingsFile string
	timelineFile string
	threadsFile  string

	settings map[string]Setting
	events   map[string]Event
	threads  map[string]Thread

	// Insertion order per collection. Rebuilt from ID ordinals on load so
	// that iteration order survives a restart.
	settingOrder []string
	eventOrder   []string
	threadOrder  []string
}

// NewManager loads the world collections from dir (creating nothing until
// the first mutation). Returns an error when a stored file cannot be
// decoded — including any entity carrying an unrecognised enum value.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{
		settingsFile: filepath.Join(dir, "world_settings.json"),
		timelineFile: filepath.Join(dir, "timeline.json"),
		threadsFile:  filepath.Join(dir, "plot_threads.json"),
		settings:     make(map[string]Setting),
		events:       make(map[string]Event),
		threads:      make(map[string]Thread),
	}

	if _, err := storage.Load(m.settingsFile, &m.settings); err != nil {
		return nil, fmt.Errorf("world: load settings: %w", err)
	}
	if _, err := storage.Load(m.timelineFile, &m.events); err != nil {
		return nil, fmt.Errorf("world: load timeline: %w", err)
	}
	if _, err := storage.Load(m.threadsFile, &m.threads); err != nil {
		return nil, fmt.Errorf("world: load plot threads: %w", err)
	}

	m.settingOrder = orderedIDs(m.settings)
	m.eventOrder = orderedIDs(m.events)
	m.threadOrder = orderedIDs(m.threads)

	return m, nil
}

// AddSetting inserts s into the settings collection and persists all three
// collections. The caller assigns the ID; an existing entry with the same
// ID is replaced.
func (m *Manager) AddSetting(s Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.settings[s.ID]; !exists {
		m.settingOrder = append(m.settingOrder, s.ID)
	}
	m.settings[s.ID] = s
	return m.saveAll()
}

// AddEvent inserts e into the timeline and persists all three collections.
func (m *Manager) AddEvent(e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[e.ID]; !exists {
		m.eventOrder = append(m.eventOrder, e.ID)
	}
	m.events[e.ID] = e
	return m.saveAll()
}

// AddThread inserts t into the plot-thread collection and persists all
// three collections.
func (m *Manager) AddThread(t Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.threads[t.ID]; !exists {
		m.threadOrder = append(m.threadOrder, t.ID)
	}
	m.threads[t.ID] = t
	return m.saveAll()
}

// Settings returns all settings in insertion order.
func (m *Manager) Settings() []Setting {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Setting, 0, len(m.settingOrder))
	for _, id := range m.settingOrder {
		out = append(out, m.settings[id])
	}
	return out
}

// Events returns all timeline events in insertion order.
func (m *Manager) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, 0, len(m.eventOrder))
	for _, id := range m.eventOrder {
		out = append(out, m.events[id])
	}
	return out
}

// EventsByYear returns all timeline events sorted by year ascending.
// Events in the same year keep their insertion order.
func (m *Manager) EventsByYear() []Event {
	out := m.Events()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Threads returns all plot threads in insertion order.
func (m *Manager) Threads() []Thread {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Thread, 0, len(m.threadOrder))
	for _, id := range m.threadOrder {
		out = append(out, m.threads[id])
	}
	return out
}

// SettingCount returns the number of stored settings.
func (m *Manager) SettingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.settings)
}

// EventCount returns the number of stored timeline events.
func (m *Manager) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// ThreadCount returns the number of stored plot threads.
func (m *Manager) ThreadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.threads)
}

// ActiveThreadCount returns the number of plot threads with status active.
func (m *Manager) ActiveThreadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, t := range m.threads {
		if t.Status == ThreadActive {
			n++
		}
	}
	return n
}

// CheckConsistency returns one diagnostic per active plot thread that has
// no payoff events. This is the entire consistency-checking surface; no
// cross-entity or timeline-contradiction detection is attempted.
func (m *Manager) CheckConsistency() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var issues []string
	for _, id := range m.threadOrder {
		t := m.threads[id]
		if t.Status == ThreadActive && len(t.PayoffEvents) == 0 {
			issues = append(issues, fmt.Sprintf("plot thread %q has no payoff events yet", t.Name))
		}
	}
	return issues
}

// saveAll rewrites all three collection files unconditionally, even when
// only one collection changed. Callers must hold the write lock.
func (m *Manager) saveAll() error {
	if err := storage.Save(m.settingsFile, m.settings); err != nil {
		return fmt.Errorf("world: save settings: %w", err)
	}
	if err := storage.Save(m.timelineFile, m.events); err != nil {
		return fmt.Errorf("world: save timeline: %w", err)
	}
	if err := storage.Save(m.threadsFile, m.threads); err != nil {
		return fmt.Errorf("world: save plot threads: %w", err)
	}
	return nil
}

// identified is satisfied by all world entity types.
type identified interface {
	Setting | Event | Thread
}

// orderedIDs reconstructs insertion order for a loaded collection by
// sorting the generated IDs on their numeric ordinal suffix ("setting_2"
// before "setting_10"), falling back to lexicographic order for IDs
// without one.
func orderedIDs[T identified](coll map[string]T) []string {
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, iOK := ordinalSuffix(ids[i])
		nj, jOK := ordinalSuffix(ids[j])
		if iOK && jOK && ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ordinalSuffix extracts the trailing "_N" ordinal from a generated ID.
func ordinalSuffix(id string) (int, bool) {
	idx := strings.LastIndexByte(id, '_')
	if idx < 0 || idx == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
