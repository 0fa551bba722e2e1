package engine

import "github.com/heartmarshall/emakua-backend/internal/domain"

// DetectDirection guesses the translation direction of a token sequence by
// counting how many tokens each side recognizes. Lookups are by plain index
// presence, without spelling correction, so near-misses do not distort the
// vote. A token known to both sides counts for both. Ties and all-unknown
// input fall back to Portuguese -> Emakua, the common case.
func (ix *Indexes) DetectDirection(tokens []string) domain.Direction {
	var ptCount, emCount int
	for _, tok := range tokens {
		if IsPunctuation(tok) {
			continue
		}
		normPT := domain.NormalizePT(tok)
		emKey := domain.NormalizeEmakua(tok)

		if _, ok := ix.lexiconPT[normPT]; ok {
			ptCount++
		} else if _, ok := ix.pronounPT[normPT]; ok {
			ptCount++
		}
		if _, ok := ix.lexiconEm[emKey]; ok {
			emCount++
		} else if _, ok := ix.pronounEm[emKey]; ok {
			emCount++
		}
	}
	if emCount > ptCount {
		return domain.DirectionEmakuaToPT
	}
	return domain.DirectionPTToEmakua
}
