package engine

import "strings"

// punctMarks are the marks the tokenizer isolates into standalone tokens.
const punctMarks = ".,!?;:"

// Tokenize splits text into word and punctuation tokens: each punctuation
// mark is padded with spaces so it survives as its own token, then the text
// splits on whitespace.
func Tokenize(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(punctMarks, r) {
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// IsPunctuation reports whether tok consists solely of tokenizer punctuation
// marks. Punctuation tokens pass through translation verbatim and are never
// corrected or looked up.
func IsPunctuation(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !strings.ContainsRune(punctMarks, r) {
			return false
		}
	}
	return true
}
