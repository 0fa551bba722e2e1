// Package engine implements the word-level Portuguese <-> Emakua translation
// pipeline: index construction from a resource bundle, light spelling
// correction on the Portuguese side, per-token bidirectional lookup,
// direction detection and sentence assembly.
//
// Everything in this package is pure. Indexes derive fresh from the bundle
// handed to BuildIndexes, are read-only afterwards and safe for concurrent
// use; no state survives between translation calls.
package engine

import (
	"sort"
	"strings"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// maxCandidates caps the translations returned for a single word.
const maxCandidates = 4

// Indexes are the five lookup structures derived from one resource bundle.
type Indexes struct {
	lexiconPT  map[string][]string // normalized PT word -> Emakua forms
	pronounPT  map[string][]string // normalized PT pronoun -> Emakua forms
	lexiconEm  map[string][]string // lowercased Emakua form -> PT words
	pronounEm  map[string][]string // lowercased Emakua form -> PT pronouns
	spellVocab map[string]string   // normalized PT -> canonical original-cased word
	spellKeys  []string            // sorted vocabulary keys for deterministic scans
}

// BuildIndexes derives the lookup structures from a bundle. Maps are iterated
// in sorted key order so that first-occurrence rules (spell vocabulary, value
// ordering) are reproducible across runs.
func BuildIndexes(bundle domain.ResourceBundle) *Indexes {
	ix := &Indexes{
		lexiconPT:  make(map[string][]string, len(bundle.Lexicon)),
		pronounPT:  make(map[string][]string),
		lexiconEm:  make(map[string][]string, len(bundle.Lexicon)),
		pronounEm:  make(map[string][]string),
		spellVocab: make(map[string]string, len(bundle.Lexicon)),
	}

	for _, ptWord := range sortedKeys(bundle.Lexicon) {
		norm := domain.NormalizePT(ptWord)
		if _, ok := ix.spellVocab[norm]; !ok {
			ix.spellVocab[norm] = ptWord
		}

		cleaned := make([]string, 0, len(bundle.Lexicon[ptWord]))
		for _, form := range bundle.Lexicon[ptWord] {
			if s := strings.TrimSpace(form); s != "" {
				cleaned = append(cleaned, s)
			}
		}
		if len(cleaned) == 0 {
			// The word still participates in spelling correction, it just
			// has nothing to translate to.
			continue
		}

		for _, form := range cleaned {
			appendUnique(ix.lexiconPT, norm, form)
		}
		for _, form := range cleaned {
			emKey := domain.NormalizeEmakua(form)
			if emKey == "" {
				continue
			}
			appendUnique(ix.lexiconEm, emKey, ptWord)
		}
	}

	// Personal merged with possessive, possessive winning on a shared raw
	// key. The forward direction indexes only the merged winner; the reverse
	// direction accumulates the forms of both categories, so a pronoun
	// shadowed forward stays reachable backward.
	merged := make(map[string][]string, len(bundle.Pronouns.Personal)+len(bundle.Pronouns.Possessive))
	for pron, forms := range bundle.Pronouns.Personal {
		merged[pron] = forms
	}
	for pron, forms := range bundle.Pronouns.Possessive {
		merged[pron] = forms
	}

	for _, pron := range sortedKeys(merged) {
		trimmed := trimForms(merged[pron])
		if len(trimmed) == 0 {
			continue
		}
		norm := domain.NormalizePT(pron)
		if _, ok := ix.spellVocab[norm]; !ok {
			ix.spellVocab[norm] = pron
		}
		for _, form := range trimmed {
			appendUnique(ix.pronounPT, norm, form)
		}
	}

	for _, group := range []map[string][]string{bundle.Pronouns.Personal, bundle.Pronouns.Possessive} {
		for _, pron := range sortedKeys(group) {
			for _, form := range trimForms(group[pron]) {
				emKey := domain.NormalizeEmakua(form)
				if emKey == "" {
					continue
				}
				appendUnique(ix.pronounEm, emKey, pron)
			}
		}
	}

	ix.spellKeys = make([]string, 0, len(ix.spellVocab))
	for key := range ix.spellVocab {
		ix.spellKeys = append(ix.spellKeys, key)
	}
	sort.Strings(ix.spellKeys)

	return ix
}

// trimForms trims every form but keeps blanks: a blank pronoun form is a
// legitimate forward candidate, it just never becomes a reverse key.
func trimForms(forms []string) []string {
	trimmed := make([]string, 0, len(forms))
	for _, form := range forms {
		trimmed = append(trimmed, strings.TrimSpace(form))
	}
	return trimmed
}

func appendUnique(m map[string][]string, key, val string) {
	for _, existing := range m[key] {
		if existing == val {
			return
		}
	}
	m[key] = append(m[key], val)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
