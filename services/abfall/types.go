// Package abfall turns the raw schedule data scraped from the Karlsruhe
// Abfallkalender into two relational tables: a catalog of collection
// services and the per-street collection dates.
package abfall

import (
	"time"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/houserange"
)

// Service is one kind of waste collection, e.g. weekly organic waste.
type Service struct {
	ID    string
	Title string
}

// Unit is one (service, street) pair to visit during a scrape. Ref is an
// opaque reference a Source may use to find the unit's rows again; the
// assembler never looks at it.
type Unit struct {
	ServiceID    string
	ServiceTitle string
	Street       string
	Ref          string
}

// RawRow is one unparsed schedule row as served by the site.
type RawRow struct {
	RangeText string
	DateText  string
}

// ScheduleEntry is one collection date assignment for a house number range
// on one street. Entries are immutable once emitted.
type ScheduleEntry struct {
	City      string
	Street    string
	Range     houserange.Range
	ServiceID string
	Date      time.Time
}
