// Package matcher implements the four-pass name matching used to reconcile
// imported contacts against existing records. It is stateless: both inputs
// are read-only and the engine is safe to call concurrently with different
// inputs.
package matcher

import (
	"regexp"
	"sort"
	"strings"
)

// Match types, in pass order.
const (
	MatchExact      = "exact"
	MatchNormalized = "normalized"
	MatchInitial    = "initial"
	MatchFuzzy      = "fuzzy"
)

var (
	suffixRe     = regexp.MustCompile(`\b(jr\.?|sr\.?|ii|iii|iv|v|esq\.?|phd|md)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRepl    = strings.NewReplacer(".", "", ",", "")
)

// Contact is the minimal shape the engine needs. FullName is only consulted
// when both name parts are empty.
type Contact struct {
	ID        uint
	FirstName string
	LastName  string
	FullName  string
}

// Match is one ranked candidate for a needle.
type Match struct {
	ContactID  uint   `json:"contact_id"`
	Confidence int    `json:"confidence"`
	MatchType  string `json:"match_type"`
}

// Result pairs a needle with its ranked candidates.
type Result struct {
	ContactID uint    `json:"contact_id"`
	Matches   []Match `json:"matches"`
}

// NormalizeName lowercases a name, strips honorific/generational suffixes,
// drops periods and commas, and collapses whitespace.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(name)
	s = suffixRe.ReplaceAllString(s, "")
	s = punctRepl.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// plainName is the exact-pass form: lowercased and depunctuated but with
// suffixes intact, so "robert smith jr" never counts as an exact match for
// "robert smith". Suffix insensitivity belongs to the stripped form.
func plainName(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(name)
	s = punctRepl.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripMiddleNames reduces a multi-token name to its first and last token.
func StripMiddleNames(name string) string {
	parts := strings.Fields(name)
	if len(parts) <= 2 {
		return name
	}
	return parts[0] + " " + parts[len(parts)-1]
}

// Levenshtein computes the classic edit distance (insert/delete/substitute
// all cost 1) over runes, so a multibyte substitution costs one edit, not
// one per byte. Inputs are expected to be normalized already.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for j := 0; j <= len(ar); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(br); i++ {
		curr[0] = i
		for j := 1; j <= len(ar); j++ {
			cost := 1
			if br[i-1] == ar[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(ar)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// firstRune returns the first character of a name, 0 for the empty string.
// Byte indexing would compare UTF-8 lead bytes instead.
func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func fullName(c Contact) string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return c.FullName
	}
	return name
}

// FindMatches runs the four passes for a single needle against the pool and
// returns candidates sorted by confidence descending. Each pool entry appears
// at most once, from the highest pass it qualifies for.
func FindMatches(needle Contact, pool []Contact) []Match {
	needlePlain := plainName(fullName(needle))
	needleNorm := NormalizeName(fullName(needle))
	needleStripped := StripMiddleNames(needleNorm)
	needleLast := NormalizeName(needle.LastName)
	needleInitial := firstRune(needleNorm)

	var matches []Match
	for _, entry := range pool {
		entryPlain := plainName(fullName(entry))
		entryNorm := NormalizeName(fullName(entry))

		// Pass 1: exact, suffix-sensitive.
		if needlePlain != "" && entryPlain != "" && needlePlain == entryPlain {
			matches = append(matches, Match{ContactID: entry.ID, Confidence: 100, MatchType: MatchExact})
			continue
		}

		// Pass 2: suffix- and middle-name-insensitive.
		entryStripped := StripMiddleNames(entryNorm)
		if needleStripped != "" && entryStripped != "" && needleStripped == entryStripped {
			matches = append(matches, Match{ContactID: entry.ID, Confidence: 90, MatchType: MatchNormalized})
			continue
		}

		// Pass 3: last name plus first initial. A single-edit pair is a typo,
		// not an initial-style variant; those are classified by the fuzzy pass.
		entryLast := NormalizeName(entry.LastName)
		if needleLast != "" && entryLast != "" && needleLast == entryLast &&
			needleInitial != 0 && needleInitial == firstRune(entryNorm) &&
			Levenshtein(needleStripped, entryStripped) != 1 {
			matches = append(matches, Match{ContactID: entry.ID, Confidence: 70, MatchType: MatchInitial})
			continue
		}

		// Pass 4: fuzzy, edit distance 1-3 on stripped forms. Distance 0
		// cannot occur here (pass 2 would have claimed the entry).
		if needleStripped != "" && entryStripped != "" {
			if dist := Levenshtein(needleStripped, entryStripped); dist >= 1 && dist <= 3 {
				conf := 40
				switch dist {
				case 1:
					conf = 60
				case 2:
					conf = 50
				}
				matches = append(matches, Match{ContactID: entry.ID, Confidence: conf, MatchType: MatchFuzzy})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// MatchAll runs FindMatches independently for every needle, preserving needle
// input order.
func MatchAll(needles, pool []Contact) []Result {
	results := make([]Result, 0, len(needles))
	for _, needle := range needles {
		results = append(results, Result{
			ContactID: needle.ID,
			Matches:   FindMatches(needle, pool),
		})
	}
	return results
}
