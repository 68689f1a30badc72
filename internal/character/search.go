package character

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// searchThreshold is the minimum Jaro-Winkler score for a name to count as
// a match when it also overlaps phonetically with the query.
const searchThreshold = 0.70

// fuzzyThreshold is the stricter minimum applied to names with no phonetic
// overlap at all.
const fuzzyThreshold = 0.85

// NameMatch is one ranked result of a fuzzy name search.
type NameMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SearchName finds stored characters whose names sound like or closely
// resemble query, ranked best-first. Matching runs in two stages: Double
// Metaphone codes gate candidates, then Jaro-Winkler similarity on the
// lowercased strings ranks them. Names with no phonetic overlap still
// qualify above the stricter fuzzy threshold, so plain misspellings
// ("Elara" vs "Ellara") are caught too.
func (m *Manager) SearchName(query string) []NameMatch {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	qCodes := metaphoneCodes(strings.Fields(q))

	var matches []NameMatch
	for name := range m.characters {
		nl := strings.ToLower(name)
		score := bestSimilarity(q, nl)

		threshold := fuzzyThreshold
		if codesOverlap(qCodes, metaphoneCodes(strings.Fields(nl))) {
			threshold = searchThreshold
		}
		if score >= threshold {
			matches = append(matches, NameMatch{Name: name, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})
	return matches
}

// metaphoneCodes returns the union of Double Metaphone codes for the given
// tokens, excluding empty codes.
func metaphoneCodes(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// bestSimilarity takes the higher of the full-string and space-stripped
// Jaro-Winkler scores, so "mira vale" still matches "Miravale".
func bestSimilarity(a, b string) float64 {
	score := matchr.JaroWinkler(a, b, false)
	if strings.ContainsRune(a, ' ') || strings.ContainsRune(b, ' ') {
		sa := strings.ReplaceAll(a, " ", "")
		sb := strings.ReplaceAll(b, " ", "")
		if s := matchr.JaroWinkler(sa, sb, false); s > score {
			score = s
		}
	}
	return score
}
