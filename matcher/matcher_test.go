package matcher

import (
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Robert Smith Jr.", "robert smith"},
		{"JANE   DOE", "jane doe"},
		{"Henry Ford III", "henry ford"},
		{"Smith, John", "smith john"},
		{"  Ada Lovelace  ", "ada lovelace"},
		{"Gregory House MD", "gregory house"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripMiddleNames(t *testing.T) {
	if got := StripMiddleNames("john quincy adams"); got != "john adams" {
		t.Errorf("got %q, want %q", got, "john adams")
	}
	if got := StripMiddleNames("john adams"); got != "john adams" {
		t.Errorf("two tokens should be untouched, got %q", got)
	}
	if got := StripMiddleNames("cher"); got != "cher" {
		t.Errorf("single token should be untouched, got %q", got)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"jon carter", "john carter", 1},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		// Multibyte substitutions cost one edit, not one per byte.
		{"rené", "renó", 1},
		{"josé", "jose", 1},
	}

	for _, tc := range cases {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFindMatchesSuffixYieldsNormalizedNotExact(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Robert", LastName: "Smith Jr."}
	pool := []Contact{{ID: 10, FirstName: "robert", LastName: "smith"}}

	matches := FindMatches(needle, pool)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	// The suffix keeps this out of the exact pass; the stripped forms agree,
	// so the normalized pass claims it.
	if matches[0].Confidence != 90 || matches[0].MatchType != MatchNormalized {
		t.Fatalf("got %+v, want normalized at 90", matches[0])
	}
}

func TestFindMatchesMiddleNameInsensitive(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Mary Beth", LastName: "Harrison"}
	pool := []Contact{{ID: 7, FirstName: "Mary", LastName: "Harrison"}}

	matches := FindMatches(needle, pool)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Confidence != 90 || matches[0].MatchType != MatchNormalized {
		t.Errorf("got confidence %d type %s, want 90 %s",
			matches[0].Confidence, matches[0].MatchType, MatchNormalized)
	}
}

func TestFindMatchesExactBeatsNormalized(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Robert", LastName: "Smith"}
	pool := []Contact{{ID: 10, FirstName: "Robert", LastName: "Smith"}}

	matches := FindMatches(needle, pool)
	if len(matches) != 1 || matches[0].Confidence != 100 || matches[0].MatchType != MatchExact {
		t.Fatalf("expected single exact match at 100, got %+v", matches)
	}
}

func TestFindMatchesInitialPass(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Jennifer", LastName: "Walsh"}
	pool := []Contact{{ID: 3, FirstName: "Jenny", LastName: "Walsh"}}

	matches := FindMatches(needle, pool)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchType != MatchInitial || matches[0].Confidence != 70 {
		t.Errorf("got %+v, want initial at 70", matches[0])
	}
}

func TestFindMatchesInitialPassComparesRunes(t *testing.T) {
	// É and Ó share a UTF-8 lead byte; byte-indexed initials would call
	// these a first-initial match.
	needle := Contact{ID: 1, FirstName: "Émile", LastName: "Zola"}
	pool := []Contact{{ID: 2, FirstName: "Ólafur", LastName: "Zola"}}

	if matches := FindMatches(needle, pool); len(matches) != 0 {
		t.Errorf("distinct accented initials must not match, got %+v", matches)
	}

	// Same accented initial still qualifies.
	needle = Contact{ID: 1, FirstName: "Édouard", LastName: "Manet"}
	pool = []Contact{{ID: 3, FirstName: "Émile", LastName: "Manet"}}

	matches := FindMatches(needle, pool)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchType != MatchInitial || matches[0].Confidence != 70 {
		t.Errorf("got %+v, want initial at 70", matches[0])
	}
}

func TestFindMatchesFuzzyBoundaries(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Jon", LastName: "Carter"}

	matches := FindMatches(needle, []Contact{{ID: 2, FirstName: "John", LastName: "Carter"}})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchType != MatchFuzzy || matches[0].Confidence != 60 {
		t.Errorf("got %+v, want fuzzy at 60", matches[0])
	}

	// Different last name forces the fuzzy pass.
	matches = FindMatches(needle, []Contact{{ID: 3, FirstName: "Jon", LastName: "Carted"}})
	if len(matches) != 1 || matches[0].MatchType != MatchFuzzy || matches[0].Confidence != 60 {
		t.Fatalf("expected fuzzy at 60, got %+v", matches)
	}

	// Distance beyond 3 is no match at all.
	matches = FindMatches(needle, []Contact{{ID: 4, FirstName: "Benedict", LastName: "Wong"}})
	if len(matches) != 0 {
		t.Errorf("expected no match for distant name, got %+v", matches)
	}
}

func TestFindMatchesFuzzyDistanceScores(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Marta", LastName: "Keller"}
	cases := []struct {
		pool Contact
		want int
	}{
		{Contact{ID: 2, FirstName: "Marta", LastName: "Kellers"}, 60},
		{Contact{ID: 3, FirstName: "Martha", LastName: "Kellers"}, 50},
		{Contact{ID: 4, FirstName: "Marta", LastName: "Kellerson"}, 40},
	}

	for _, tc := range cases {
		matches := FindMatches(needle, []Contact{tc.pool})
		if len(matches) != 1 || matches[0].Confidence != tc.want {
			t.Errorf("pool %q %q: got %+v, want confidence %d",
				tc.pool.FirstName, tc.pool.LastName, matches, tc.want)
		}
	}
}

func TestFindMatchesOneResultPerEntry(t *testing.T) {
	// Entry qualifies for pass 2 (stripped forms equal) and would also sit
	// within fuzzy range; it must appear once, with the pass-2 confidence.
	needle := Contact{ID: 1, FirstName: "Anna Lee", LastName: "Brown"}
	pool := []Contact{{ID: 5, FirstName: "Anna", LastName: "Brown"}}

	matches := FindMatches(needle, pool)
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(matches))
	}
	if matches[0].Confidence != 90 {
		t.Errorf("got confidence %d, want 90", matches[0].Confidence)
	}
}

func TestFindMatchesEmptyNames(t *testing.T) {
	empty := Contact{ID: 1}
	pool := []Contact{{ID: 2, FirstName: "Carla", LastName: "Mendez"}}
	if matches := FindMatches(empty, pool); len(matches) != 0 {
		t.Errorf("empty needle must match nothing, got %+v", matches)
	}

	needle := Contact{ID: 1, FirstName: "Carla", LastName: "Mendez"}
	if matches := FindMatches(needle, []Contact{{ID: 3}}); len(matches) != 0 {
		t.Errorf("empty pool entry must be skipped, got %+v", matches)
	}
}

func TestFindMatchesSortedByConfidence(t *testing.T) {
	needle := Contact{ID: 1, FirstName: "Sam", LastName: "Porter"}
	pool := []Contact{
		{ID: 2, FirstName: "Sam", LastName: "Porters"}, // fuzzy 60
		{ID: 3, FirstName: "Sam", LastName: "Porter"},  // exact 100
		{ID: 4, FirstName: "Sally", LastName: "Porter"}, // initial 70
	}

	matches := FindMatches(needle, pool)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Confidence > matches[i-1].Confidence {
			t.Fatalf("matches not sorted: %+v", matches)
		}
	}
	if matches[0].ContactID != 3 {
		t.Errorf("best match should be the exact one, got %+v", matches[0])
	}
}

func TestMatchAllPreservesOrder(t *testing.T) {
	needles := []Contact{
		{ID: 1, FirstName: "Ana", LastName: "Silva"},
		{ID: 2, FirstName: "Ben", LastName: "King"},
		{ID: 3}, // empty, no matches
	}
	pool := []Contact{
		{ID: 10, FirstName: "Ana", LastName: "Silva"},
		{ID: 11, FirstName: "Ben", LastName: "King"},
	}

	results := MatchAll(needles, pool)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, needle := range needles {
		if results[i].ContactID != needle.ID {
			t.Errorf("result %d is for contact %d, want %d", i, results[i].ContactID, needle.ID)
		}
	}
	if len(results[0].Matches) != 1 || results[0].Matches[0].ContactID != 10 {
		t.Errorf("unexpected matches for first needle: %+v", results[0].Matches)
	}
	if len(results[2].Matches) != 0 {
		t.Errorf("empty needle should have no matches, got %+v", results[2].Matches)
	}
}
