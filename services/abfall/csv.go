package abfall

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteServicesCSV writes the service catalog as `id,title` rows in
// first-registration order.
func WriteServicesCSV(w io.Writer, services []Service) error {
	out := csv.NewWriter(w)

	if err := out.Write([]string{"id", "title"}); err != nil {
		return fmt.Errorf("write services.csv: %w", err)
	}
	for _, s := range services {
		if err := out.Write([]string{s.ID, s.Title}); err != nil {
			return fmt.Errorf("write services.csv: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}

// WriteDatesCSV writes the schedule entries. Unbounded range ends
// serialize as a literal 0, dates as YYYY-MM-DD.
func WriteDatesCSV(w io.Writer, entries []ScheduleEntry) error {
	out := csv.NewWriter(w)

	header := []string{"city", "street", "range_start", "range_end", "service_id", "date"}
	if err := out.Write(header); err != nil {
		return fmt.Errorf("write dates.csv: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.City,
			e.Street,
			strconv.Itoa(e.Range.Start),
			strconv.Itoa(e.Range.End),
			e.ServiceID,
			e.Date.Format("2006-01-02"),
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("write dates.csv: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}
