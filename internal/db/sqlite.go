// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// ErrSlotNotFound is returned when updating a slot that is not stored.
var ErrSlotNotFound = errors.New("slot not found")

// SQLite implements slot.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ slot.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if missing.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const selectSlots = `
	SELECT id, slot_date, start_time, duration_minutes, all_day, installer_count,
	       title, category, color_token, available
	FROM slots
`

// LoadGroups returns the slots dated within [from, to] grouped by date.
func (s *SQLite) LoadGroups(ctx context.Context, from, to time.Time) ([]slot.DaySlotGroup, error) {
	query := selectSlots + `
		WHERE slot_date >= ? AND slot_date <= ?
		ORDER BY slot_date, position
	`
	return s.queryGroups(ctx, query, dateutil.Format(from), dateutil.Format(to))
}

// LoadAllGroups returns every stored slot grouped by date.
func (s *SQLite) LoadAllGroups(ctx context.Context) ([]slot.DaySlotGroup, error) {
	return s.queryGroups(ctx, selectSlots+` ORDER BY slot_date, position`)
}

// GetSlot retrieves a slot by id. It returns false when the slot is not stored.
func (s *SQLite) GetSlot(ctx context.Context, id string) (time.Time, slot.TimeSlot, bool, error) {
	row := s.db.QueryRowContext(ctx, selectSlots+` WHERE id = ?`, id)
	date, sl, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, slot.TimeSlot{}, false, nil
	}
	if err != nil {
		return time.Time{}, slot.TimeSlot{}, false, fmt.Errorf("querying slot: %w", err)
	}
	return date, sl, true, nil
}

// InsertSlot appends sl after the existing slots of date.
func (s *SQLite) InsertSlot(ctx context.Context, date time.Time, sl slot.TimeSlot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := dateutil.Format(date)
	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM slots WHERE slot_date = ?`, day,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("computing slot position: %w", err)
	}

	query := `
		INSERT INTO slots (
			id, slot_date, position, start_time, duration_minutes, all_day,
			installer_count, title, category, color_token, available
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		sl.ID,
		day,
		position,
		sl.StartTime,
		sl.DurationMinutes,
		sl.IsAllDay,
		sl.InstallerCount,
		sl.Title,
		string(sl.Category),
		sl.ColorToken,
		sl.Available,
	)
	if err != nil {
		return fmt.Errorf("inserting slot %s: %w", sl.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpdateSlot overwrites every field of the slot with the same id.
func (s *SQLite) UpdateSlot(ctx context.Context, date time.Time, sl slot.TimeSlot) error {
	query := `
		UPDATE slots
		SET slot_date = ?, start_time = ?, duration_minutes = ?, all_day = ?,
		    installer_count = ?, title = ?, category = ?, color_token = ?,
		    available = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		dateutil.Format(date),
		sl.StartTime,
		sl.DurationMinutes,
		sl.IsAllDay,
		sl.InstallerCount,
		sl.Title,
		string(sl.Category),
		sl.ColorToken,
		sl.Available,
		time.Now().UTC().Format(time.RFC3339),
		sl.ID,
	)
	if err != nil {
		return fmt.Errorf("updating slot %s: %w", sl.ID, err)
	}
	return requireRow(result, sl.ID)
}

// UpdateDuration changes the duration of a slot.
func (s *SQLite) UpdateDuration(ctx context.Context, id string, durationMinutes int) error {
	query := `UPDATE slots SET duration_minutes = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, durationMinutes, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating slot duration: %w", err)
	}
	return requireRow(result, id)
}

// DeleteSlot removes a slot. Deleting a missing slot is not an error.
func (s *SQLite) DeleteSlot(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting slot %s: %w", id, err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) queryGroups(ctx context.Context, query string, args ...any) ([]slot.DaySlotGroup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []slot.DaySlotGroup
	for rows.Next() {
		date, sl, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		// Rows arrive ordered by date, so a new date always starts a new group.
		if n := len(groups); n == 0 || !dateutil.SameDay(groups[n-1].Date, date) {
			groups = append(groups, slot.DaySlotGroup{Date: date})
		}
		last := &groups[len(groups)-1]
		last.Slots = append(last.Slots, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}
	return groups, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(row scanner) (time.Time, slot.TimeSlot, error) {
	var (
		sl       slot.TimeSlot
		slotDate string
		category string
	)
	err := row.Scan(
		&sl.ID,
		&slotDate,
		&sl.StartTime,
		&sl.DurationMinutes,
		&sl.IsAllDay,
		&sl.InstallerCount,
		&sl.Title,
		&category,
		&sl.ColorToken,
		&sl.Available,
	)
	if err != nil {
		return time.Time{}, slot.TimeSlot{}, err
	}
	sl.Category = slot.Category(category)

	date, err := parseDate(slotDate)
	if err != nil {
		return time.Time{}, slot.TimeSlot{}, fmt.Errorf("parsing slot date: %w", err)
	}
	return date, sl, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	return nil
}

// parseDate parses a date string in the formats SQLite might return and
// normalises it to a calendar date.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		dateutil.DateLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return dateutil.Date(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
