// Package houserange models the house number ranges the Abfallkalender
// attaches to street entries ("3-7", "12-Ende", ...). A range is a pair of
// inclusive bounds plus a parity class: the site lists the odd and the even
// side of a street as separate entries, so "3-7" covers 3, 5 and 7 but
// never 4 or 6.
package houserange

import (
	"fmt"
	"strings"
	"unicode"
)

// Unbounded is the sentinel bound meaning "no restriction on this side".
// It is kept as a literal 0 all the way into the CSV output.
const Unbounded = 0

type Parity int

const (
	ParityAny Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	}
	return "any"
}

// Range is a contiguous, parity restricted span of house numbers on one
// street. Start and End are inclusive; either may be Unbounded.
type Range struct {
	Start  int
	End    int
	Parity Parity
}

// Contains reports whether house number n falls into the range. The bounds
// alone are not a complete membership test, the parity class restricts
// which numbers inside [Start, End] are actually covered.
func (r Range) Contains(n int) bool {
	if r.Start != Unbounded && n < r.Start {
		return false
	}
	if r.End != Unbounded && n > r.End {
		return false
	}
	switch r.Parity {
	case ParityOdd:
		return n%2 == 1
	case ParityEven:
		return n%2 == 0
	}
	return true
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d] %s", r.Start, r.End, r.Parity)
}

type ErrorKind int

const (
	// Unrecognized means the text did not match the two-bound shape at all.
	Unrecognized ErrorKind = iota
	// MixedParity means both bounds were explicit but one was odd and the
	// other even, which the site never produces for a valid entry.
	MixedParity
)

func (k ErrorKind) String() string {
	if k == MixedParity {
		return "mixed parity"
	}
	return "unrecognized"
}

type ParseError struct {
	Kind ErrorKind
	Raw  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse house range %q: %s", e.Raw, e.Kind)
}

// Parse turns the free text range annotation of one street entry into a
// Range. The lexical shape is a boundary contract with the website and is
// kept apart from the parity semantics so the token grammar can change
// without touching the model:
//
//   - two bounds separated by "-", "–" or ","
//   - a bound is a non-negative integer, optionally with a letter suffix
//     ("25a") which is ignored, or the word "Ende" for the open upper end
//   - a single bound n is the degenerate range (n, n)
//   - the empty string means the whole street, i.e. (0, 0)
//
// 0 on either side is the Unbounded sentinel. A fully unbounded range
// covers both parities; explicit bounds of differing parity are rejected
// with MixedParity.
func Parse(raw string) (Range, error) {
	lo, hi, err := scanBounds(raw)
	if err != nil {
		return Range{}, err
	}

	if lo != Unbounded && hi != Unbounded && lo > hi {
		return Range{}, &ParseError{Kind: Unrecognized, Raw: raw}
	}

	parity, err := classify(raw, lo, hi)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: lo, End: hi, Parity: parity}, nil
}

func classify(raw string, lo, hi int) (Parity, error) {
	// A sentinel on either side leaves the parity class undetermined, such
	// ranges match both sides of the street.
	if lo == Unbounded || hi == Unbounded {
		return ParityAny, nil
	}
	if lo%2 != hi%2 {
		return ParityAny, &ParseError{Kind: MixedParity, Raw: raw}
	}
	if lo%2 == 1 {
		return ParityOdd, nil
	}
	return ParityEven, nil
}

func scanBounds(raw string) (int, int, error) {
	text := stripSpace(raw)
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")

	if text == "" {
		return Unbounded, Unbounded, nil
	}

	parts := splitBounds(text)
	if len(parts) > 2 {
		return 0, 0, &ParseError{Kind: Unrecognized, Raw: raw}
	}

	lo, ok := parseBound(parts[0], false)
	if !ok {
		return 0, 0, &ParseError{Kind: Unrecognized, Raw: raw}
	}
	if len(parts) == 1 {
		return lo, lo, nil
	}

	hi, ok := parseBound(parts[1], true)
	if !ok {
		return 0, 0, &ParseError{Kind: Unrecognized, Raw: raw}
	}
	return lo, hi, nil
}

func splitBounds(text string) []string {
	for _, sep := range []string{"-", "–", ","} {
		if strings.Contains(text, sep) {
			return strings.Split(text, sep)
		}
	}
	return []string{text}
}

// parseBound scans a single bound token. "Ende" is only meaningful as the
// upper bound, where it maps to the Unbounded sentinel.
func parseBound(token string, upper bool) (int, bool) {
	if upper && strings.EqualFold(token, "ende") {
		return Unbounded, true
	}

	digits := 0
	n := 0
	for _, r := range token {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}

	// The rest of the token may only be a letter suffix like the "a" in
	// "25a", which does not affect the numeric bound.
	for _, r := range token[digits:] {
		if !unicode.IsLetter(r) {
			return 0, false
		}
	}
	return n, true
}

func stripSpace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
