package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/slot"
)

// newTestRepo creates a temporary SQLite repository for testing.
func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func sampleSlot(id, start string, duration int) slot.TimeSlot {
	return slot.TimeSlot{
		ID:              id,
		StartTime:       start,
		DurationMinutes: duration,
		InstallerCount:  2,
		Title:           "Heat pump install",
		Category:        slot.CategoryInstallation,
		ColorToken:      "blue",
		Available:       true,
	}
}

func TestNew_RunsMigrations(t *testing.T) {
	repo := newTestRepo(t)

	version, err := repo.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("expected schema version %d, got %d", len(migrations), version)
	}
}

func TestNew_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "slots.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	date := dateutil.MustParseDate("2025-04-15")
	if err := repo.InsertSlot(ctx, date, sampleSlot("2025-04-15-1", "08:00", 120)); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}
	_ = repo.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	groups, err := reopened.LoadAllGroups(ctx)
	if err != nil {
		t.Fatalf("LoadAllGroups failed: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Slots) != 1 {
		t.Errorf("expected one stored slot after reopen, got %+v", groups)
	}
}

func TestInsertSlot_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	want := sampleSlot("2025-04-15-1", "08:00", 120)
	if err := repo.InsertSlot(ctx, date, want); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}

	gotDate, got, ok, err := repo.GetSlot(ctx, want.ID)
	if err != nil || !ok {
		t.Fatalf("GetSlot: ok=%v err=%v", ok, err)
	}
	if dateutil.Format(gotDate) != "2025-04-15" {
		t.Errorf("expected date 2025-04-15, got %s", dateutil.Format(gotDate))
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInsertSlot_AllDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	allDay := slot.TimeSlot{
		ID:              "2025-04-15-1",
		StartTime:       slot.AllDayStart,
		DurationMinutes: slot.AllDayDuration,
		IsAllDay:        true,
		InstallerCount:  1,
		Title:           "Training day",
		Category:        slot.CategoryConsultation,
	}
	if err := repo.InsertSlot(ctx, date, allDay); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}

	_, got, _, err := repo.GetSlot(ctx, allDay.ID)
	if err != nil {
		t.Fatalf("GetSlot failed: %v", err)
	}
	if !got.IsAllDay || got.Available {
		t.Errorf("flags not preserved: %+v", got)
	}
}

func TestInsertSlot_DuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	if err := repo.InsertSlot(ctx, date, sampleSlot("x", "08:00", 60)); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}
	if err := repo.InsertSlot(ctx, date, sampleSlot("x", "09:00", 60)); err == nil {
		t.Error("expected primary key violation")
	}
}

func TestInsertSlot_RejectsUnknownCategory(t *testing.T) {
	repo := newTestRepo(t)
	bad := sampleSlot("x", "08:00", 60)
	bad.Category = "gardening"

	if err := repo.InsertSlot(context.Background(), dateutil.MustParseDate("2025-04-15"), bad); err == nil {
		t.Error("expected CHECK constraint violation")
	}
}

func TestLoadGroups_OrderAndRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inserts := []struct {
		date string
		slot slot.TimeSlot
	}{
		{"2025-04-16", sampleSlot("b1", "09:00", 60)},
		{"2025-04-15", sampleSlot("a1", "11:00", 60)},
		{"2025-04-15", sampleSlot("a2", "08:00", 60)}, // earlier time, inserted later
		{"2025-04-20", sampleSlot("c1", "08:00", 60)},
		{"2025-05-01", sampleSlot("d1", "08:00", 60)},
	}
	for _, in := range inserts {
		if err := repo.InsertSlot(ctx, dateutil.MustParseDate(in.date), in.slot); err != nil {
			t.Fatalf("InsertSlot(%s) failed: %v", in.slot.ID, err)
		}
	}

	groups, err := repo.LoadGroups(ctx, dateutil.MustParseDate("2025-04-14"), dateutil.MustParseDate("2025-04-20"))
	if err != nil {
		t.Fatalf("LoadGroups failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	wantDates := []string{"2025-04-15", "2025-04-16", "2025-04-20"}
	for i, g := range groups {
		if g.Key() != wantDates[i] {
			t.Errorf("group %d: expected %s, got %s", i, wantDates[i], g.Key())
		}
	}
	// Insertion order, not time order.
	if groups[0].Slots[0].ID != "a1" || groups[0].Slots[1].ID != "a2" {
		t.Errorf("expected insertion order [a1 a2], got %+v", groups[0].Slots)
	}
}

func TestLoadGroups_Empty(t *testing.T) {
	repo := newTestRepo(t)
	groups, err := repo.LoadGroups(context.Background(), dateutil.MustParseDate("2025-04-14"), dateutil.MustParseDate("2025-04-20"))
	if err != nil {
		t.Fatalf("LoadGroups failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestUpdateSlot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	s := sampleSlot("a", "08:00", 60)
	if err := repo.InsertSlot(ctx, date, s); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}

	s.StartTime = "10:30"
	s.Title = "Boiler service"
	s.Category = slot.CategoryMaintenance
	s.Available = false
	if err := repo.UpdateSlot(ctx, date, s); err != nil {
		t.Fatalf("UpdateSlot failed: %v", err)
	}

	_, got, _, _ := repo.GetSlot(ctx, "a")
	if got != s {
		t.Errorf("got %+v, want %+v", got, s)
	}
}

func TestUpdateSlot_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.UpdateSlot(context.Background(), dateutil.MustParseDate("2025-04-15"), sampleSlot("missing", "08:00", 60))
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected %v, got %v", ErrSlotNotFound, err)
	}
}

func TestUpdateDuration(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	if err := repo.InsertSlot(ctx, date, sampleSlot("a", "08:00", 120)); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}
	if err := repo.UpdateDuration(ctx, "a", 90); err != nil {
		t.Fatalf("UpdateDuration failed: %v", err)
	}
	_, got, _, _ := repo.GetSlot(ctx, "a")
	if got.DurationMinutes != 90 {
		t.Errorf("expected duration 90, got %d", got.DurationMinutes)
	}

	if err := repo.UpdateDuration(ctx, "missing", 90); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("expected %v, got %v", ErrSlotNotFound, err)
	}
}

func TestDeleteSlot_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	if err := repo.InsertSlot(ctx, date, sampleSlot("a", "08:00", 60)); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}
	if err := repo.DeleteSlot(ctx, "a"); err != nil {
		t.Fatalf("DeleteSlot failed: %v", err)
	}
	if err := repo.DeleteSlot(ctx, "a"); err != nil {
		t.Errorf("second DeleteSlot should be a no-op, got %v", err)
	}
	if _, _, ok, _ := repo.GetSlot(ctx, "a"); ok {
		t.Error("slot still stored after delete")
	}
}

func TestInsertSlot_PositionAfterDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	date := dateutil.MustParseDate("2025-04-15")

	for _, id := range []string{"a", "b"} {
		if err := repo.InsertSlot(ctx, date, sampleSlot(id, "08:00", 60)); err != nil {
			t.Fatalf("InsertSlot failed: %v", err)
		}
	}
	_ = repo.DeleteSlot(ctx, "a")
	if err := repo.InsertSlot(ctx, date, sampleSlot("c", "07:00", 60)); err != nil {
		t.Fatalf("InsertSlot failed: %v", err)
	}

	groups, _ := repo.LoadAllGroups(ctx)
	if len(groups) != 1 || groups[0].Slots[0].ID != "b" || groups[0].Slots[1].ID != "c" {
		t.Errorf("expected [b c], got %+v", groups)
	}
}

func TestParseDate_AllFormats(t *testing.T) {
	for _, in := range []string{
		"2025-04-15",
		"2025-04-15T00:00:00Z",
		"2025-04-15 00:00:00",
	} {
		got, err := parseDate(in)
		if err != nil {
			t.Errorf("parseDate(%q) failed: %v", in, err)
			continue
		}
		if dateutil.Format(got) != "2025-04-15" {
			t.Errorf("parseDate(%q) = %s", in, dateutil.Format(got))
		}
	}
	if _, err := parseDate("15/04/2025"); err == nil {
		t.Error("expected error for unknown format")
	}
}
