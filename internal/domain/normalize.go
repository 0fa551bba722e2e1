package domain

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ptChainPool hands out fresh NFD + mark-removal chains. The transformers are
// stateful, so concurrent NormalizePT calls must not share one.
var ptChainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
		)
	},
}

// NormalizePT produces the canonical key form of a Portuguese word:
// lowercase, Unicode-decomposed, with all combining marks stripped
// ("Coração" -> "coracao"). Idempotent.
func NormalizePT(word string) string {
	if word == "" {
		return ""
	}
	word = strings.ToLower(word)

	tr := ptChainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, word)
	tr.Reset()
	ptChainPool.Put(tr)
	if err != nil {
		// Malformed input passes through lowercased rather than failing
		// the whole translation.
		return word
	}
	return out
}

// NormalizeEmakua produces the canonical key form of an Emakua word: trimmed
// and lowercased. Emakua orthography carries no diacritics in our sources, so
// no decomposition is applied.
func NormalizeEmakua(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
