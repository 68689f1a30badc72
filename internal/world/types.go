// Package world manages the fictional-world knowledge base: named settings,
// a dated timeline, and tracked plot threads.
//
// The writer uses this package to record lore before and during drafting.
// Stored entries are flattened into text context blocks for generation
// prompts via [Manager.WorldContext] and [Manager.CharacterRelevantContext].
//
// All manager operations are safe for concurrent use within a single
// process; persistence is a whole-file JSON rewrite on every mutation.
package world

import (
	"encoding/json"
	"fmt"
	"time"
)

// SettingCategory classifies a world setting into one of eight fixed areas
// of lore.
type SettingCategory string

const (
	// CategoryGeography covers places, regions, and terrain.
	CategoryGeography SettingCategory = "geography"

	// CategoryHistory covers past eras and their records.
	CategoryHistory SettingCategory = "history"

	// CategoryCulture covers customs, languages, and daily life.
	CategoryCulture SettingCategory = "culture"

	// CategoryMagic covers magic systems and their rules.
	CategoryMagic SettingCategory = "magic"

	// CategoryTechnology covers tools, machines, and inventions.
	CategoryTechnology SettingCategory = "technology"

	// CategoryPolitics covers states, factions, and power structures.
	CategoryPolitics SettingCategory = "politics"

	// CategoryReligion covers faiths, deities, and rites.
	CategoryReligion SettingCategory = "religion"

	// CategoryEconomy covers trade, currency, and resources.
	CategoryEconomy SettingCategory = "economy"
)

// IsValid reports whether c is a recognised setting category.
func (c SettingCategory) IsValid() bool {
	switch c {
	case CategoryGeography, CategoryHistory, CategoryCulture, CategoryMagic,
		CategoryTechnology, CategoryPolitics, CategoryReligion, CategoryEconomy:
		return true
	}
	return false
}

// UnmarshalJSON decodes the category from its string value and rejects
// unrecognised values so that a corrupted file fails the load instead of
// silently defaulting.
func (c *SettingCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	cat := SettingCategory(s)
	if !cat.IsValid() {
		return fmt.Errorf("world: unrecognised setting category %q", s)
	}
	*c = cat
	return nil
}

// ThreadStatus is the lifecycle state of a plot thread.
type ThreadStatus string

const (
	// ThreadActive marks a thread whose payoff is still pending.
	ThreadActive ThreadStatus = "active"

	// ThreadResolved marks a thread whose payoff has been written.
	ThreadResolved ThreadStatus = "resolved"

	// ThreadAbandoned marks a thread the writer dropped.
	ThreadAbandoned ThreadStatus = "abandoned"
)

// IsValid reports whether s is a recognised thread status.
func (s ThreadStatus) IsValid() bool {
	switch s {
	case ThreadActive, ThreadResolved, ThreadAbandoned:
		return true
	}
	return false
}

// UnmarshalJSON decodes the status from its string value, rejecting
// unrecognised values on load.
func (s *ThreadStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st := ThreadStatus(raw)
	if !st.IsValid() {
		return fmt.Errorf("world: unrecognised thread status %q", raw)
	}
	*s = st
	return nil
}

// Setting is a named piece of fictional-world lore tagged with one of the
// eight fixed categories.
type Setting struct {
	// ID is the caller-assigned identifier (prefix + running count).
	ID string `json:"id"`

	// Name is the setting's display name.
	Name string `json:"name"`

	// Category classifies the setting.
	Category SettingCategory `json:"category"`

	// Description is a free-text description.
	Description string `json:"description"`

	// Details holds arbitrary key-value lore facts.
	Details map[string]string `json:"details,omitempty"`

	// RelatedSettings lists IDs of related settings. References are not
	// validated; dangling IDs are tolerated.
	RelatedSettings []string `json:"related_settings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a dated occurrence on the world timeline. Importance (1-5)
// decides whether an event is summarised into generation context.
type Event struct {
	// ID is the caller-assigned identifier (prefix + running count).
	ID string `json:"id"`

	// Name is the event's display name.
	Name string `json:"name"`

	// Description is a free-text description.
	Description string `json:"description"`

	// Year is the in-world year. Required; display order is year ascending.
	Year int `json:"year"`

	// Month and Day optionally refine the date. Zero means unset.
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`

	// Importance rates the event 1-5. Events rated >= 3 are included in
	// the world context. The range is not enforced.
	Importance int `json:"importance"`

	// RelatedCharacters lists character names by free text. There is no
	// referential integrity with the character store.
	RelatedCharacters []string `json:"related_characters,omitempty"`

	// RelatedSettings lists setting IDs. Unvalidated.
	RelatedSettings []string `json:"related_settings,omitempty"`

	// Consequences lists free-text outcomes of the event.
	Consequences []string `json:"consequences,omitempty"`
}

// Thread is a tracked narrative setup/payoff pair used to flag unresolved
// foreshadowing.
type Thread struct {
	// ID is the caller-assigned identifier (prefix + running count).
	ID string `json:"id"`

	// Name is the thread's display name.
	Name string `json:"name"`

	// Description is a free-text description.
	Description string `json:"description"`

	// SetupEvents references the events that plant the thread.
	SetupEvents []string `json:"setup_events,omitempty"`

	// PayoffEvents references the events that resolve it. An active thread
	// with no payoff events is reported by [Manager.CheckConsistency].
	PayoffEvents []string `json:"payoff_events,omitempty"`

	// Status is the thread lifecycle state.
	Status ThreadStatus `json:"status"`

	// Importance rates the thread 1-5. Unenforced.
	Importance int `json:"importance"`

	// RelatedCharacters lists character names by free text.
	RelatedCharacters []string `json:"related_characters,omitempty"`
}
