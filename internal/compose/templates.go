// Package compose turns stored world, story and character state into
// prompts and drives the generation backend: genre-templated plot
// generation, context-integrated drafting, and multi-variation brainstorms.
package compose

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultGenre is used when a request names no genre or an unknown one.
const DefaultGenre = "fantasy"

// Template is a genre-specific prompt skeleton.
type Template struct {
	// Key is the machine name ("sci_fi").
	Key string

	// DisplayName is the human-readable genre name ("Science Fiction").
	DisplayName string

	// guidance is the genre-specific instruction block injected above the
	// user's request.
	guidance string
}

// Render produces the full prompt: genre guidance, the known character
// information, then the user's request. characterMemory is inserted
// verbatim, sentinel included — the model copes with "no character
// information available" better than with a dangling header.
func (t Template) Render(userInput, characterMemory string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are plotting a %s story.\n", t.DisplayName)
	sb.WriteString(t.guidance)
	sb.WriteString("\n\n=== Character Information ===\n")
	sb.WriteString(characterMemory)
	sb.WriteString("\n\n=== Request ===\n")
	sb.WriteString(userInput)
	sb.WriteString("\n\nWrite a compelling plot outline that matches the genre and stays consistent with the character information above.")
	return sb.String()
}

var templates = map[string]Template{
	"fantasy": {
		Key:         "fantasy",
		DisplayName: "Fantasy",
		guidance: "Lean into wonder: magic systems with costs, old prophecies, " +
			"and a world that feels larger than the story. Keep the stakes personal even when the fate of kingdoms is involved.",
	},
	"romance": {
		Key:         "romance",
		DisplayName: "Romance",
		guidance: "Centre the emotional arc between the leads. Give them " +
			"believable reasons to be apart and earn every step toward each other.",
	},
	"mystery": {
		Key:         "mystery",
		DisplayName: "Mystery",
		guidance: "Plant clues fairly and misdirect without cheating. The " +
			"solution should feel inevitable in hindsight.",
	},
	"sci_fi": {
		Key:         "sci_fi",
		DisplayName: "Science Fiction",
		guidance: "Build the speculative premise rigorously and explore its " +
			"human consequences. One big idea, followed honestly, beats ten half-explored ones.",
	},
	"horror": {
		Key:         "horror",
		DisplayName: "Horror",
		guidance: "Dread before shock. Let the reader's imagination do the " +
			"heavy lifting, and make the threat violate something the characters thought was safe.",
	},
	"slice_of_life": {
		Key:         "slice_of_life",
		DisplayName: "Slice of Life",
		guidance: "Small moments, closely observed. Conflict stays quiet and " +
			"interior; the texture of daily life carries the story.",
	},
	"adventure": {
		Key:         "adventure",
		DisplayName: "Adventure",
		guidance: "Keep the momentum up: a clear goal, escalating obstacles, " +
			"and set pieces the characters solve with wit as often as force.",
	},
}

// TemplateFor returns the template for the genre key, falling back to
// [DefaultGenre] for unknown keys.
func TemplateFor(genre string) Template {
	if t, ok := templates[genre]; ok {
		return t
	}
	return templates[DefaultGenre]
}

// Genres returns all genre keys sorted alphabetically.
func Genres() []string {
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GenreDisplayNames maps each genre key to its display name.
func GenreDisplayNames() map[string]string {
	names := make(map[string]string, len(templates))
	for k, t := range templates {
		names[k] = t.DisplayName
	}
	return names
}
