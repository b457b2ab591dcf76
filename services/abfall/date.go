package abfall

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var germanDateRegex = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
var isoDateRegex = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)

// ExtractDate finds the first thing in s that looks like a date and
// actually exists on the calendar. The site renders German d.m.yyyy dates;
// ISO yyyy-mm-dd is accepted as well. Candidates like 31.02. are skipped,
// not rejected, since a cell can contain more than one date-shaped token.
func ExtractDate(s string) (time.Time, error) {
	for _, groups := range germanDateRegex.FindAllStringSubmatch(s, -1) {
		if t, ok := civilDate(groups[3], groups[2], groups[1]); ok {
			return t, nil
		}
	}
	for _, groups := range isoDateRegex.FindAllStringSubmatch(s, -1) {
		if t, ok := civilDate(groups[1], groups[2], groups[3]); ok {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("extract date from %q: no valid date found", s)
}

func civilDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
