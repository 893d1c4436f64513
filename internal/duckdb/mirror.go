package duckdb

import (
	"context"
	"fmt"
	"time"

	"github.com/tinytelemetry/secdash/internal/model"
)

// ReplaceRecords swaps the logs table contents for records in a single
// transaction. On failure the previous contents remain.
func (s *Store) ReplaceRecords(records []model.LogRecord) error {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replaceTx(ctx, records); err != nil {
		return fmt.Errorf("duckdb: replacing %d records: %w", len(records), err)
	}
	return nil
}

func (s *Store) replaceTx(ctx context.Context, records []model.LogRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM logs"); err != nil {
		return fmt.Errorf("clearing logs: %w", err)
	}

	if len(records) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO logs (seq, raw_timestamp, ts_local, event_type, source, message, severity, severity_class) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, r := range records {
			if _, err := stmt.ExecContext(ctx,
				int64(i), r.Timestamp, s.wallClock(r.Timestamp),
				r.Type, r.Source, r.Message, r.Severity, s.classifier.Fold(r.Severity),
			); err != nil {
				return fmt.Errorf("record %d insert: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// wallClock returns the display-location wall time as a zone-less
// TIMESTAMP value, or nil when the timestamp cannot be parsed.
func (s *Store) wallClock(raw string) any {
	t, ok := s.parser.Parse(raw)
	if !ok {
		return nil
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
