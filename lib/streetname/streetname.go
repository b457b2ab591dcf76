// Package streetname canonicalizes the street names served by the
// Abfallkalender form. The site is inconsistent about casing and
// abbreviations ("HAUPTSTR." vs "Hauptstraße"), and downstream consumers
// key on the street string, so the same physical street must always map to
// the same output name.
package streetname

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var titleCaser = cases.Title(language.German)

// suffix expansions applied to each lowercased word, longest match first.
var suffixes = [][2]string{
	{"strasse", "straße"},
	{"str.", "straße"},
	{"str", "straße"},
	{"pl.", "platz"},
}

// Normalize returns the canonical form of a raw street name: whitespace
// collapsed, street type abbreviations expanded and German title casing
// applied. It is total and idempotent; input that matches no expansion
// rule still comes back trimmed and cased.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = strings.ToLower(s)

	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = expand(w)
	}
	s = strings.Join(words, " ")

	return titleCaser.String(s)
}

func expand(word string) string {
	for _, sub := range suffixes {
		abbr, full := sub[0], sub[1]
		if !strings.HasSuffix(word, abbr) {
			continue
		}
		stem := word[:len(word)-len(abbr)]
		// "str" without a dot is only expanded as a suffix of a longer
		// word, a standalone "str" is left alone.
		if abbr == "str" && stem == "" {
			return word
		}
		if stem != "" && !endsInLetter(stem) {
			continue
		}
		return stem + full
	}
	return word
}

func endsInLetter(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '-' || unicode.IsLetter(r)
}

// foldKey is the comparison form used for near-duplicate detection:
// lowercase with all whitespace removed.
func foldKey(name string) string {
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// NearDuplicates flags pairs of distinct normalized names that are likely
// the same street in disguise (threshold on Jaro-Winkler similarity). It is
// a diagnostic for the end-of-run summary, never an automatic merge.
func NearDuplicates(names []string) [][2]string {
	const threshold = 0.95

	var pairs [][2]string
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			if a == b {
				continue
			}
			if matchr.JaroWinkler(foldKey(a), foldKey(b), false) >= threshold {
				pairs = append(pairs, [2]string{a, b})
			}
		}
	}
	return pairs
}
