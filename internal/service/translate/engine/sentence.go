package engine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

var spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)

// BuildSentence translates a token sequence in the given concrete direction
// and reassembles it into output text. The returned lookups, one per word
// token, let the caller extract words that resolved to nothing.
//
// A single word token is answered with all its known translations joined by
// ", "; an unknown single word comes back untouched. In sentences, each word
// is replaced by its first candidate (unknown words pass through), spaces
// before punctuation are removed and the first rune is uppercased.
func (ix *Indexes) BuildSentence(tokens []string, dir domain.Direction) (string, []domain.Lookup) {
	lookup := ix.LookupPTToEmakua
	if dir == domain.DirectionEmakuaToPT {
		lookup = ix.LookupEmakuaToPT
	}

	if len(tokens) == 1 && !IsPunctuation(tokens[0]) {
		info := lookup(tokens[0])
		if !info.Found {
			return tokens[0], []domain.Lookup{info}
		}
		return upperFirst(strings.Join(info.Candidates, ", ")), []domain.Lookup{info}
	}

	lookups := make([]domain.Lookup, 0, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsPunctuation(tok) {
			out = append(out, tok)
			continue
		}
		info := lookup(tok)
		lookups = append(lookups, info)
		if info.Found {
			out = append(out, info.Candidates[0])
		} else {
			out = append(out, tok)
		}
	}

	sentence := strings.Join(out, " ")
	sentence = spaceBeforePunct.ReplaceAllString(sentence, "$1")
	return upperFirst(sentence), lookups
}

// upperFirst uppercases only the first rune, leaving the rest untouched.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
