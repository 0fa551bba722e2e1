package engine

import (
	"slices"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// LookupPTToEmakua resolves one Portuguese token, applying spelling
// correction first. Pronoun translations rank before lexicon ones; the
// combined list is deduplicated and capped at maxCandidates.
func (ix *Indexes) LookupPTToEmakua(word string) domain.Lookup {
	corrected := ix.CorrectSpelling(word)
	norm := domain.NormalizePT(corrected)

	candidates := make([]string, 0, maxCandidates)
	candidates = append(candidates, ix.pronounPT[norm]...)
	for _, form := range ix.lexiconPT[norm] {
		if !slices.Contains(candidates, form) {
			candidates = append(candidates, form)
		}
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	return domain.Lookup{
		Source:     word,
		Normalized: norm,
		Candidates: candidates,
		Found:      len(candidates) > 0,
	}
}

// LookupEmakuaToPT resolves one Emakua token. No spelling correction is
// applied on this side; the key is simply the trimmed lowercased token.
func (ix *Indexes) LookupEmakuaToPT(word string) domain.Lookup {
	key := domain.NormalizeEmakua(word)

	candidates := make([]string, 0, maxCandidates)
	candidates = append(candidates, ix.pronounEm[key]...)
	for _, ptWord := range ix.lexiconEm[key] {
		if !slices.Contains(candidates, ptWord) {
			candidates = append(candidates, ptWord)
		}
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	return domain.Lookup{
		Source:     word,
		Normalized: key,
		Candidates: candidates,
		Found:      len(candidates) > 0,
	}
}
