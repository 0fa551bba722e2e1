package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// CorrectSpelling resolves a Portuguese word to the closest vocabulary word.
// An exact normalized match wins outright. Otherwise every vocabulary key is
// scanned in sorted order and the first key at minimum edit distance is
// taken, accepted when the distance is at most 2 for inputs of up to five
// runes and at most 3 beyond that. Unmatched words come back lowercased,
// never as an error.
func (ix *Indexes) CorrectSpelling(word string) string {
	norm := domain.NormalizePT(word)
	if canonical, ok := ix.spellVocab[norm]; ok {
		return canonical
	}

	bestKey := ""
	bestDist := -1
	for _, key := range ix.spellKeys {
		d := levenshtein.ComputeDistance(norm, key)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestKey = key
		}
	}
	if bestKey == "" {
		return strings.ToLower(word)
	}

	maxAllowed := 3
	if utf8.RuneCountInString(norm) <= 5 {
		maxAllowed = 2
	}
	if bestDist <= maxAllowed {
		return ix.spellVocab[bestKey]
	}
	return strings.ToLower(word)
}
