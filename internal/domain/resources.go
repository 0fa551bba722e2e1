package domain

import "encoding/json"

// ResourceBundle is an immutable snapshot of the raw translation resources,
// obtained whole from the resource provider on every translation call. The
// pipeline derives its lookup indexes from it and never mutates it.
type ResourceBundle struct {
	// Lexicon maps a Portuguese word to its Emakua forms, in source order.
	// Values may still contain duplicates and blank strings; index
	// construction filters them.
	Lexicon map[string][]string

	// Pronouns holds the personal and possessive pronoun tables.
	Pronouns PronounTable

	// Grammar is opaque structured data carried through for future use.
	// Nothing in the pipeline reads it.
	Grammar json.RawMessage
}

// PronounTable groups the two pronoun categories. A pronoun may appear in
// both; the merge rules live in the translation engine.
type PronounTable struct {
	Personal   map[string][]string
	Possessive map[string][]string
}
