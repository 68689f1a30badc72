package world

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// contextImportanceMin is the minimum importance rating for a timeline
// event to be summarised into the world context.
const contextImportanceMin = 3

// WorldContext renders the stored world state as a text block for prompt
// injection: all settings (optionally filtered by category), then timeline
// events with importance >= 3 sorted by year ascending, then active plot
// threads in insertion order.
//
// Sections with no content are omitted entirely; an empty world yields "".
// The block is rebuilt on every call — there is no caching.
func (m *Manager) WorldContext(categories ...SettingCategory) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder

	// ── Settings section ─────────────────────────────────────────────────────
	var settingLines []string
	for _, id := range m.settingOrder {
		s := m.settings[id]
		if len(categories) > 0 && !slices.Contains(categories, s.Category) {
			continue
		}
		settingLines = append(settingLines, formatSetting(s))
	}
	if len(settingLines) > 0 {
		sb.WriteString("## World Settings\n")
		sb.WriteString(strings.Join(settingLines, "\n"))
	}

	// ── Key history section ──────────────────────────────────────────────────
	var important []Event
	for _, id := range m.eventOrder {
		if e := m.events[id]; e.Importance >= contextImportanceMin {
			important = append(important, e)
		}
	}
	sort.SliceStable(important, func(i, j int) bool { return important[i].Year < important[j].Year })
	if len(important) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## Key History\n")
		for _, e := range important {
			fmt.Fprintf(&sb, "Year %d: %s\n%s\n", e.Year, e.Name, e.Description)
		}
	}

	// ── Active plot threads section ──────────────────────────────────────────
	var active []Thread
	for _, id := range m.threadOrder {
		if t := m.threads[id]; t.Status == ThreadActive {
			active = append(active, t)
		}
	}
	if len(active) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## Active Plot Threads\n")
		for _, t := range active {
			fmt.Fprintf(&sb, "### %s\n%s\n", t.Name, t.Description)
		}
	}

	return sb.String()
}

// CharacterRelevantContext renders the timeline events and plot threads
// whose related-character names overlap names. Event matches are sorted by
// year ascending; thread matches keep insertion order. Returns "" when
// nothing matches.
func (m *Manager) CharacterRelevantContext(names []string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sb strings.Builder

	var relevant []Event
	for _, id := range m.eventOrder {
		if e := m.events[id]; overlaps(e.RelatedCharacters, names) {
			relevant = append(relevant, e)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool { return relevant[i].Year < relevant[j].Year })
	if len(relevant) > 0 {
		sb.WriteString("## Related Historical Events\n")
		for _, e := range relevant {
			fmt.Fprintf(&sb, "Year %d: %s\n%s\n", e.Year, e.Name, e.Description)
		}
	}

	var threads []Thread
	for _, id := range m.threadOrder {
		if t := m.threads[id]; overlaps(t.RelatedCharacters, names) {
			threads = append(threads, t)
		}
	}
	if len(threads) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("## Related Plot Threads\n")
		for _, t := range threads {
			fmt.Fprintf(&sb, "### %s (%s)\n%s\n", t.Name, t.Status, t.Description)
		}
	}

	return sb.String()
}

// formatSetting renders one setting with its detail map, detail keys
// sorted for stable output.
func formatSetting(s Setting) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s (%s)\n%s\n", s.Name, s.Category, s.Description)

	keys := make([]string, 0, len(s.Details))
	for k := range s.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %s\n", k, s.Details[k])
	}
	return sb.String()
}

// overlaps reports whether any entry of have appears in want.
func overlaps(have, want []string) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}
