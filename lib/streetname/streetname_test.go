package streetname

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{raw: "HAUPTSTR.", expected: "Hauptstraße"},
		{raw: "Hauptstraße", expected: "Hauptstraße"},
		{raw: "hauptstrasse", expected: "Hauptstraße"},
		{raw: "  Karl-Friedrich-Str. ", expected: "Karl-Friedrich-Straße"},
		{raw: "KAISERSTR", expected: "Kaiserstraße"},
		{raw: "marktpl.", expected: "Marktplatz"},
		{raw: "An  der\tTagweide", expected: "An Der Tagweide"},
		{raw: "Alter   Brauhof", expected: "Alter Brauhof"},
		{raw: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.expected, Normalize(tc.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"HAUPTSTR.",
		"hauptstrasse",
		"Karl-Friedrich-Str.",
		"An der Tagweide",
		"weird   in put\t42",
		"Straße",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

// Inputs differing only in case and whitespace must collapse to one key.
func TestNormalizeCaseWhitespaceInvariant(t *testing.T) {
	variants := []string{
		"Hauptstraße",
		"HAUPTSTRASSE",
		" hauptstraße ",
		"HauptStrasse",
	}
	want := Normalize(variants[0])
	for _, v := range variants {
		require.Equal(t, want, Normalize(v), "input %q", v)
	}
}

func TestNearDuplicates(t *testing.T) {
	pairs := NearDuplicates([]string{
		"Hauptstraße",
		"Haupstraße", // typo, one letter off
		"Marktplatz",
	})
	require.Len(t, pairs, 1)
	require.Equal(t, [2]string{"Hauptstraße", "Haupstraße"}, pairs[0])

	require.Empty(t, NearDuplicates([]string{"Hauptstraße", "Marktplatz"}))
	require.Empty(t, NearDuplicates(nil))
}
