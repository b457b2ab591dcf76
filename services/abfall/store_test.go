package abfall

import (
	"context"
	"testing"
	"time"

	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/houserange"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/lib/sqliteutil"
	"github.com/CodeforKarlsruhe/abfallkalender-scraper/services/abfall/db"
	"github.com/stretchr/testify/require"
)

func TestSaveResult(t *testing.T) {
	conn, err := sqliteutil.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	res := Result{
		Services: []Service{
			{ID: "ka-bio-7", Title: "Biomüll (wöchentlich)"},
		},
		Entries: []ScheduleEntry{
			{
				City:      "Karlsruhe",
				Street:    "Hauptstraße",
				Range:     houserange.Range{Start: 3, End: 7, Parity: houserange.ParityOdd},
				ServiceID: "ka-bio-7",
				Date:      time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			},
			{
				City:      "Karlsruhe",
				Street:    "Marktplatz",
				Range:     houserange.Range{},
				ServiceID: "ka-bio-7",
				Date:      time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	ctx := context.Background()
	require.NoError(t, SaveResult(ctx, conn, res))

	var serviceCount int
	require.NoError(t, conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM services").Scan(&serviceCount))
	require.Equal(t, 1, serviceCount)

	var street, parity, date string
	var rangeStart, rangeEnd int
	require.NoError(t, conn.QueryRowContext(ctx, `
		SELECT street, range_start, range_end, parity, date
		FROM dates WHERE street = 'Hauptstraße'
	`).Scan(&street, &rangeStart, &rangeEnd, &parity, &date))
	require.Equal(t, 3, rangeStart)
	require.Equal(t, 7, rangeEnd)
	require.Equal(t, "odd", parity)
	require.Equal(t, "2024-05-10", date)

	// saving again replaces the previous snapshot's dates
	require.NoError(t, SaveResult(ctx, conn, res))
	var dateCount int
	require.NoError(t, conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dates").Scan(&dateCount))
	require.Equal(t, 2, dateCount)
}
