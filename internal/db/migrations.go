package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS slots (
		id               TEXT PRIMARY KEY,
		slot_date        TEXT NOT NULL,
		position         INTEGER NOT NULL,
		start_time       TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK(duration_minutes > 0),
		all_day          INTEGER NOT NULL DEFAULT 0,
		installer_count  INTEGER NOT NULL DEFAULT 1 CHECK(installer_count >= 1),
		title            TEXT NOT NULL,
		category         TEXT NOT NULL CHECK(category IN ('installation', 'maintenance', 'repair', 'consultation')),
		color_token      TEXT NOT NULL DEFAULT '',
		available        INTEGER NOT NULL DEFAULT 1,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_slots_date ON slots(slot_date, position);
	`,
	`
	ALTER TABLE slots ADD COLUMN updated_at DATETIME;
	`,
}

// migrate runs database migrations.
func (s *SQLite) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}

// SchemaVersion returns the number of applied migrations.
func (s *SQLite) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}
