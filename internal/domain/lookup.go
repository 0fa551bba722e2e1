package domain

// Lookup is the resolution of a single word token in one direction.
type Lookup struct {
	// Source is the token exactly as it appeared in the input.
	Source string
	// Normalized is the key the indexes were probed with (after spelling
	// correction, for the Portuguese side).
	Normalized string
	// Candidates are the possible translations in preference order,
	// deduplicated and capped at four.
	Candidates []string
	// Found is true when at least one candidate exists.
	Found bool
}
