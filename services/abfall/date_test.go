package abfall

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractDate(t *testing.T) {
	testCases := []struct {
		text     string
		expected time.Time
	}{
		{
			text:     "Dienstag, 14.05.2024",
			expected: time.Date(2024, time.May, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			text:     "1.2.2024",
			expected: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// the impossible first candidate is skipped, not fatal
			text:     "31.02.2024 oder 10.03.2024",
			expected: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			text:     "Abholung am 07.10.2024, 8 Uhr",
			expected: time.Date(2024, time.October, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			text:     "2024-05-10",
			expected: time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := ExtractDate(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestExtractDateErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"keine Abholung",
		"31.02.2024",
		"14.05.24",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ExtractDate(text)
			require.Error(t, err)
		})
	}
}
