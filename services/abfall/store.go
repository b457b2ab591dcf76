package abfall

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveResult snapshots a run into the sqlite database. The dates table
// additionally records the parity class, which the CSV output cannot
// carry. Earlier snapshots of the same services are replaced, dates
// accumulate per run and are cleared first.
func SaveResult(ctx context.Context, db *sql.DB, res Result) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM dates"); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	for _, s := range res.Services {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO services (id, title) VALUES (?, ?)",
			s.ID, s.Title,
		)
		if err != nil {
			return fmt.Errorf("save service %s: %w", s.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dates (city, street, range_start, range_end, parity, service_id, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	defer stmt.Close()

	for _, e := range res.Entries {
		_, err := stmt.ExecContext(ctx,
			e.City,
			e.Street,
			e.Range.Start,
			e.Range.End,
			e.Range.Parity.String(),
			e.ServiceID,
			e.Date.Format("2006-01-02"),
		)
		if err != nil {
			return fmt.Errorf("save date row: %w", err)
		}
	}

	return tx.Commit()
}
