package abfall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/houserange"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/streetname"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/abfall")

// Source supplies the externally fetched data for one run: the enumeration
// of (service, street) units and, per unit, the raw schedule rows. Fetch
// failures are returned from Rows and cause the whole unit to be skipped.
type Source interface {
	Units(ctx context.Context) ([]Unit, error)
	Rows(ctx context.Context, unit Unit) ([]RawRow, error)
}

// Stats counts what a run skipped. The counts are surfaced to the caller
// at the end of the run, row and unit failures never abort it.
type Stats struct {
	Units        int
	SkippedUnits int
	Rows         int
	SkippedRows  int
}

type Result struct {
	Services []Service
	Entries  []ScheduleEntry
	Stats    Stats
}

// Assembler drives one full extraction pass. City is stamped into every
// emitted entry.
type Assembler struct {
	City string
}

// Run walks every unit of src in order and accumulates schedule entries.
// Entry order is deterministic for a given source snapshot: unit visit
// order, then row order within a unit. The only fatal conditions are a
// failed unit enumeration and a service id conflict.
func (a Assembler) Run(ctx context.Context, src Source) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	units, err := src.Units(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to enumerate units")
		return Result{}, fmt.Errorf("enumerate units: %w", err)
	}

	catalog := NewCatalog()
	var entries []ScheduleEntry
	var stats Stats

	for _, unit := range units {
		stats.Units++

		if err := catalog.Register(unit.ServiceID, unit.ServiceTitle); err != nil {
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				span.SetStatus(codes.Error, "service catalog conflict")
				return Result{}, err
			}
			return Result{}, err
		}

		street := streetname.Normalize(unit.Street)

		rows, err := src.Rows(ctx, unit)
		if err != nil {
			stats.SkippedUnits++
			slog.WarnContext(ctx, "skipping unit",
				"service", unit.ServiceID,
				"street", street,
				"err", err,
			)
			continue
		}

		for _, row := range rows {
			stats.Rows++

			entry, err := a.buildEntry(street, unit.ServiceID, row)
			if err != nil {
				stats.SkippedRows++
				slog.WarnContext(ctx, "skipping row",
					"service", unit.ServiceID,
					"street", street,
					"err", err,
				)
				continue
			}
			entries = append(entries, entry)
		}
	}

	span.SetAttributes(
		attribute.Int("units", stats.Units),
		attribute.Int("skipped_units", stats.SkippedUnits),
		attribute.Int("entries", len(entries)),
		attribute.Int("skipped_rows", stats.SkippedRows),
	)

	return Result{
		Services: catalog.All(),
		Entries:  entries,
		Stats:    stats,
	}, nil
}

func (a Assembler) buildEntry(street, serviceID string, row RawRow) (ScheduleEntry, error) {
	rng, err := houserange.Parse(row.RangeText)
	if err != nil {
		return ScheduleEntry{}, err
	}
	date, err := ExtractDate(row.DateText)
	if err != nil {
		return ScheduleEntry{}, err
	}
	return ScheduleEntry{
		City:      a.City,
		Street:    street,
		Range:     rng,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
