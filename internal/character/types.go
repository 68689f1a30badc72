// Package character keeps long-lived character memory: profiles keyed by
// name, persisted to a single JSON file, plus a rolling in-memory
// conversation transcript.
package character

import "time"

// Appearance records that a character appeared in a story.
type Appearance struct {
	StoryTitle string    `json:"story_title"`
	Role       string    `json:"role,omitempty"`
	Date       time.Time `json:"date"`
}

// DevelopmentNote records a point of character growth.
type DevelopmentNote struct {
	Note string    `json:"note"`
	Date time.Time `json:"date"`
}

// Profile is everything remembered about one character. Profiles are keyed
// by name in the store; the name itself is not part of the persisted value.
type Profile struct {
	Description string `json:"description"`

	// Traits is a free-text trait list ("brave", "stubborn", ...).
	Traits []string `json:"traits"`

	Background string `json:"background"`

	// Relationships maps another character's name to a description of the
	// relationship. The key is free text; no referential integrity.
	Relationships map[string]string `json:"relationships"`

	StoryAppearances []Appearance      `json:"story_appearances"`
	DevelopmentNotes []DevelopmentNote `json:"development_notes"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ProfileUpdate is a partial update: nil fields are left untouched.
type ProfileUpdate struct {
	Description   *string
	Traits        []string
	Background    *string
	Relationships map[string]string
}

// Statistics summarises the whole character store.
type Statistics struct {
	TotalCharacters            int          `json:"total_characters"`
	TotalStoryAppearances      int          `json:"total_story_appearances"`
	MostCommonTraits           []TraitCount `json:"most_common_traits"`
	CharactersWithRelationship int          `json:"characters_with_relationships"`
}

// TraitCount pairs a trait with the number of characters carrying it.
type TraitCount struct {
	Trait string `json:"trait"`
	Count int    `json:"count"`
}
