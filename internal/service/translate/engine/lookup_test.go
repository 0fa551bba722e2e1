package engine

import (
	"reflect"
	"testing"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

func TestLookupPTToEmakua(t *testing.T) {
	t.Parallel()

	ix := BuildIndexes(domain.ResourceBundle{
		Lexicon: map[string][]string{
			"casa": {"nyumba", "empa"},
		},
		Pronouns: domain.PronounTable{
			Personal: map[string][]string{"eu": {"miyo"}},
		},
	})

	got := ix.LookupPTToEmakua("casa")
	if !got.Found {
		t.Fatal("casa should be found")
	}
	if got.Source != "casa" || got.Normalized != "casa" {
		t.Errorf("unexpected source/normalized: %+v", got)
	}
	if !reflect.DeepEqual(got.Candidates, []string{"nyumba", "empa"}) {
		t.Errorf("candidates = %v", got.Candidates)
	}

	// Misspelled input is corrected before lookup; Source keeps the raw token.
	got = ix.LookupPTToEmakua("caza")
	if !got.Found || got.Candidates[0] != "nyumba" {
		t.Errorf("corrected lookup failed: %+v", got)
	}
	if got.Source != "caza" {
		t.Errorf("Source must keep the raw token, got %q", got.Source)
	}

	got = ix.LookupPTToEmakua("inexistente")
	if got.Found || len(got.Candidates) != 0 {
		t.Errorf("unknown word must not be found: %+v", got)
	}
}

func TestLookupPTToEmakua_PronounsRankFirst(t *testing.T) {
	t.Parallel()

	ix := BuildIndexes(domain.ResourceBundle{
		Lexicon: map[string][]string{
			"eu": {"lexical", "miyo"},
		},
		Pronouns: domain.PronounTable{
			Personal: map[string][]string{"eu": {"miyo"}},
		},
	})

	got := ix.LookupPTToEmakua("eu")
	// Pronoun candidate first; the lexicon's duplicate "miyo" collapses.
	if !reflect.DeepEqual(got.Candidates, []string{"miyo", "lexical"}) {
		t.Errorf("candidates = %v, want pronoun first and deduplicated", got.Candidates)
	}
}

func TestLookup_CapsAtFour(t *testing.T) {
	t.Parallel()

	ix := BuildIndexes(domain.ResourceBundle{
		Lexicon: map[string][]string{
			"muito": {"um", "dois", "tres", "quatro", "cinco", "seis"},
		},
	})

	got := ix.LookupPTToEmakua("muito")
	if len(got.Candidates) != 4 {
		t.Fatalf("candidates must cap at 4, got %d", len(got.Candidates))
	}
	if !reflect.DeepEqual(got.Candidates, []string{"um", "dois", "tres", "quatro"}) {
		t.Errorf("cap must preserve order: %v", got.Candidates)
	}

	seen := map[string]bool{}
	for _, c := range got.Candidates {
		if seen[c] {
			t.Errorf("duplicate candidate %q", c)
		}
		seen[c] = true
	}
}

func TestLookupEmakuaToPT(t *testing.T) {
	t.Parallel()

	ix := BuildIndexes(domain.ResourceBundle{
		Lexicon: map[string][]string{
			"casa": {"nyumba"},
			"lar":  {"nyumba"},
		},
		Pronouns: domain.PronounTable{
			Personal: map[string][]string{"eu": {"miyo"}},
		},
	})

	got := ix.LookupEmakuaToPT("  Nyumba ")
	if !got.Found {
		t.Fatal("nyumba should be found")
	}
	if got.Normalized != "nyumba" {
		t.Errorf("Normalized = %q", got.Normalized)
	}
	if !reflect.DeepEqual(got.Candidates, []string{"casa", "lar"}) {
		t.Errorf("candidates = %v", got.Candidates)
	}

	got = ix.LookupEmakuaToPT("miyo")
	if !got.Found || got.Candidates[0] != "eu" {
		t.Errorf("pronoun reverse lookup failed: %+v", got)
	}

	// No spelling correction on the Emakua side: one letter off stays unknown.
	got = ix.LookupEmakuaToPT("nyumbaa")
	if got.Found {
		t.Errorf("Emakua lookup must not correct spelling: %+v", got)
	}
}
