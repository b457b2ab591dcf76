package abfall

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/houserange"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/telemetry"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	units    []Unit
	rows     map[string][]RawRow
	failRefs map[string]bool
}

func (f fakeSource) Units(ctx context.Context) ([]Unit, error) {
	return f.units, nil
}

func (f fakeSource) Rows(ctx context.Context, unit Unit) ([]RawRow, error) {
	if f.failRefs[unit.Ref] {
		return nil, fmt.Errorf("connection refused")
	}
	return f.rows[unit.Ref], nil
}

type failingSource struct{}

func (failingSource) Units(ctx context.Context) ([]Unit, error) {
	return nil, fmt.Errorf("street list unreachable")
}

func (failingSource) Rows(ctx context.Context, unit Unit) ([]RawRow, error) {
	return nil, nil
}

func TestRunSingleUnit(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/abfall")
	defer cleanup()

	src := fakeSource{
		units: []Unit{
			{
				ServiceID:    "ka-bio-7",
				ServiceTitle: "Biomüll (wöchentlich)",
				Street:       "Hauptstraße",
				Ref:          "u1",
			},
		},
		rows: map[string][]RawRow{
			"u1": {
				{RangeText: "3,7", DateText: "2024-05-10"},
				{RangeText: "garbage", DateText: "2024-05-11"},
			},
		},
	}

	res, err := Assembler{City: "Karlsruhe"}.Run(context.Background(), src)
	require.NoError(t, err)

	require.Equal(t, []Service{{ID: "ka-bio-7", Title: "Biomüll (wöchentlich)"}}, res.Services)

	expected := []ScheduleEntry{
		{
			City:      "Karlsruhe",
			Street:    "Hauptstraße",
			Range:     houserange.Range{Start: 3, End: 7, Parity: houserange.ParityOdd},
			ServiceID: "ka-bio-7",
			Date:      time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(expected, res.Entries); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}

	require.Equal(t, 1, res.Stats.SkippedRows)
	require.Equal(t, 0, res.Stats.SkippedUnits)

	var services bytes.Buffer
	require.NoError(t, WriteServicesCSV(&services, res.Services))
	require.Equal(t, "id,title\nka-bio-7,Biomüll (wöchentlich)\n", services.String())

	var dates bytes.Buffer
	require.NoError(t, WriteDatesCSV(&dates, res.Entries))
	require.Equal(t,
		"city,street,range_start,range_end,service_id,date\n"+
			"Karlsruhe,Hauptstraße,3,7,ka-bio-7,2024-05-10\n",
		dates.String(),
	)
}

func TestRunSkipsFailedUnits(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/abfall")
	defer cleanup()

	src := fakeSource{
		units: []Unit{
			{ServiceID: "ka-bio-7", ServiceTitle: "Biomüll (wöchentlich)", Street: "Hauptstraße", Ref: "u1"},
			{ServiceID: "ka-bio-7", ServiceTitle: "Biomüll (wöchentlich)", Street: "Marktplatz", Ref: "u2"},
		},
		rows: map[string][]RawRow{
			"u2": {{RangeText: "", DateText: "10.05.2024"}},
		},
		failRefs: map[string]bool{"u1": true},
	}

	res, err := Assembler{City: "Karlsruhe"}.Run(context.Background(), src)
	require.NoError(t, err)

	require.Equal(t, 1, res.Stats.SkippedUnits)
	require.Len(t, res.Entries, 1)

	// an option without a number annotation covers the whole street
	entry := res.Entries[0]
	require.Equal(t, "Marktplatz", entry.Street)
	require.Equal(t, houserange.Range{Start: 0, End: 0, Parity: houserange.ParityAny}, entry.Range)

	// the failed unit's service is still in the catalog
	require.Equal(t, []Service{{ID: "ka-bio-7", Title: "Biomüll (wöchentlich)"}}, res.Services)
}

func TestRunAbortsOnConflict(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/abfall")
	defer cleanup()

	src := fakeSource{
		units: []Unit{
			{ServiceID: "ka-bio-7", ServiceTitle: "Biomüll (wöchentlich)", Street: "Hauptstraße", Ref: "u1"},
			{ServiceID: "ka-bio-7", ServiceTitle: "Bioabfall", Street: "Marktplatz", Ref: "u2"},
		},
	}

	_, err := Assembler{City: "Karlsruhe"}.Run(context.Background(), src)
	require.Error(t, err)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, "ka-bio-7", conflict.ID)
}

func TestRunFailsOnEnumeration(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/abfall")
	defer cleanup()

	_, err := Assembler{City: "Karlsruhe"}.Run(context.Background(), failingSource{})
	require.Error(t, err)
}

// The entry sequence must be stable for a given snapshot: unit visit
// order, then row order within a unit.
func TestRunDeterministicOrder(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/abfall")
	defer cleanup()

	src := fakeSource{
		units: []Unit{
			{ServiceID: "ka-rest-14", ServiceTitle: "Restmüll (14-täglich)", Street: "Bstraße", Ref: "u1"},
			{ServiceID: "ka-rest-14", ServiceTitle: "Restmüll (14-täglich)", Street: "Astraße", Ref: "u2"},
		},
		rows: map[string][]RawRow{
			"u1": {
				{RangeText: "1-9", DateText: "02.05.2024"},
				{RangeText: "2-10", DateText: "03.05.2024"},
			},
			"u2": {{RangeText: "", DateText: "04.05.2024"}},
		},
	}

	first, err := Assembler{City: "Karlsruhe"}.Run(context.Background(), src)
	require.NoError(t, err)
	second, err := Assembler{City: "Karlsruhe"}.Run(context.Background(), src)
	require.NoError(t, err)

	require.Equal(t, first.Entries, second.Entries)

	var streets []string
	for _, e := range first.Entries {
		streets = append(streets, e.Street)
	}
	require.Equal(t, []string{"Bstraße", "Bstraße", "Astraße"}, streets)
}
