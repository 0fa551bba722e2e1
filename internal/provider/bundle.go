// Package provider holds the wire contract shared by the resource provider
// implementations (Supabase REST and direct Postgres): the named resources
// and the decoding of their stored JSON into the domain bundle.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// Names of the resource rows in the emakua_ml_resources table.
const (
	ResourceGrammar  = "emakua_grammar.json"
	ResourcePronouns = "emakua_pronouns.json"
	ResourceLexicon  = "pt_emakua_lexicon.json"
)

// ResourceNames lists every resource a provider must supply.
var ResourceNames = []string{ResourceGrammar, ResourcePronouns, ResourceLexicon}

// RawBundle carries the three resource documents exactly as stored.
type RawBundle struct {
	Grammar  json.RawMessage
	Pronouns json.RawMessage
	Lexicon  json.RawMessage
}

// formList accepts either a single string or an array; non-string array
// elements are dropped. The stored lexicon mixes both shapes.
type formList []string

func (f *formList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = formList{single}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// Null, number or object: treat as no usable forms.
		*f = nil
		return nil
	}
	out := make(formList, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	*f = out
	return nil
}

// Decode converts the raw documents into a domain.ResourceBundle. A missing
// document behaves like an empty one. Entries keep their keys even when every
// form was filtered out: the index builder decides what a formless entry
// means (lexicon keys still feed the spelling vocabulary, and an empty
// possessive entry still shadows its personal counterpart during the pronoun
// merge). Grammar passes through untouched.
func (rb RawBundle) Decode() (domain.ResourceBundle, error) {
	var rawLexicon map[string]formList
	if len(rb.Lexicon) > 0 {
		if err := json.Unmarshal(rb.Lexicon, &rawLexicon); err != nil {
			return domain.ResourceBundle{}, fmt.Errorf("decode %s: %w", ResourceLexicon, err)
		}
	}
	lexicon := make(map[string][]string, len(rawLexicon))
	for word, forms := range rawLexicon {
		lexicon[word] = forms
	}

	var rawPronouns struct {
		Personal   map[string]formList `json:"personal"`
		Possessive map[string]formList `json:"possessive"`
	}
	if len(rb.Pronouns) > 0 {
		if err := json.Unmarshal(rb.Pronouns, &rawPronouns); err != nil {
			return domain.ResourceBundle{}, fmt.Errorf("decode %s: %w", ResourcePronouns, err)
		}
	}

	return domain.ResourceBundle{
		Lexicon: lexicon,
		Pronouns: domain.PronounTable{
			Personal:   pronounGroup(rawPronouns.Personal),
			Possessive: pronounGroup(rawPronouns.Possessive),
		},
		Grammar: rb.Grammar,
	}, nil
}

func pronounGroup(raw map[string]formList) map[string][]string {
	group := make(map[string][]string, len(raw))
	for pronoun, forms := range raw {
		group[pronoun] = forms
	}
	return group
}
