package scheduling

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/slotboard/internal/config"
	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/db"
	"github.com/javiermolinar/slotboard/internal/grid"
	"github.com/javiermolinar/slotboard/internal/slot"
)

var (
	day   = dateutil.MustParseDate("2025-04-15")
	clock = func() time.Time { return time.Date(2025, 4, 15, 9, 0, 0, 0, time.UTC) }
)

func newTestRepo(t *testing.T) *db.SQLite {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNew_UsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.StartHour = 7
	cfg.Grid.MaxDuration = 240

	s := New(cfg, WithClock(clock))
	defer func() { _ = s.Close() }()

	if s.Mapper().Config().StartHour != 7 {
		t.Errorf("mapper start hour: got %d", s.Mapper().Config().StartHour)
	}
	if s.Service().Bounds().Max != 240 {
		t.Errorf("service bounds: got %+v", s.Service().Bounds())
	}
	if !s.View().IsToday(day) {
		t.Error("view should use the session clock")
	}
}

func TestNew_NilConfig(t *testing.T) {
	s := New(nil)
	defer func() { _ = s.Close() }()
	if s.Config().Grid.StartHour != grid.DefaultStartHour {
		t.Errorf("expected default config, got %+v", s.Config().Grid)
	}
}

func TestSession_ResizeRoundTrip(t *testing.T) {
	s := New(nil, WithClock(clock))
	defer func() { _ = s.Close() }()

	created, err := s.Service().Create(day, slot.Fields{StartTime: "08:00", DurationMinutes: 120})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rs, err := s.BeginResize(day, created.ID, 120)
	if err != nil {
		t.Fatalf("BeginResize: %v", err)
	}
	if _, err := s.BeginResize(day, created.ID, 120); !errors.Is(err, ErrResizeInProgress) {
		t.Errorf("second drag: got %v, want %v", err, ErrResizeInProgress)
	}
	if active, ok := s.ActiveResize(); !ok || active != rs {
		t.Error("ActiveResize should return the live session")
	}

	s.Bus().Move(at(150))
	s.Bus().Release(at(90))

	if got := s.Store().Slots(day)[0].DurationMinutes; got != 90 {
		t.Errorf("duration after drag: got %d, want 90", got)
	}
	if s.Bus().Len() != 0 {
		t.Error("pointer listener leaked")
	}
	if _, ok := s.ActiveResize(); ok {
		t.Error("no drag should be live after release")
	}

	if _, err := s.BeginResize(day, "missing", 0); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("missing slot: got %v, want %v", err, ErrSlotNotFound)
	}
}

func TestSession_CloseAbortsDrag(t *testing.T) {
	s := New(nil, WithClock(clock))
	created, _ := s.Service().Create(day, slot.Fields{StartTime: "08:00", DurationMinutes: 120})

	rs, err := s.BeginResize(day, created.ID, 120)
	if err != nil {
		t.Fatalf("BeginResize: %v", err)
	}
	s.Bus().Move(at(300))

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.Bus().Len() != 0 {
		t.Error("Close must release the pointer listener")
	}
	if rs.State() != grid.SessionAborted {
		t.Errorf("drag state after Close: %v", rs.State())
	}
	if got := s.Store().Slots(day)[0].DurationMinutes; got != 120 {
		t.Errorf("aborted drag changed duration to %d", got)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := s.BeginResize(day, created.ID, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginResize after Close: got %v", err)
	}
}

func TestSession_SelectionClearedOnDelete(t *testing.T) {
	s := New(nil, WithClock(clock))
	defer func() { _ = s.Close() }()

	created, _ := s.Service().Create(day, slot.Fields{StartTime: "08:00", DurationMinutes: 60})
	s.View().SelectSlot(day, created.ID)
	s.Service().Delete(day, created.ID)

	if s.View().Selection().HasSlot() {
		t.Error("selection should be cleared when its slot is deleted")
	}
}

func TestSession_OnSlotSelected(t *testing.T) {
	var got []string
	s := New(nil, WithClock(clock), OnSlotSelected(func(date time.Time, at string, sl slot.TimeSlot) {
		got = append(got, dateutil.Format(date)+" "+at+" "+sl.ID)
	}))
	defer func() { _ = s.Close() }()

	created, err := s.Service().Create(day, slot.Fields{StartTime: "10:00", DurationMinutes: 60})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.View().SelectSlot(day, created.ID)

	if len(got) != 1 || got[0] != "2025-04-15 10:00 "+created.ID {
		t.Errorf("notifications = %q", got)
	}
}

func TestSession_LoadAndSync(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seed := slot.TimeSlot{
		ID: "2025-04-15-1", StartTime: "08:00", DurationMinutes: 120,
		InstallerCount: 1, Title: "Installation", Category: slot.CategoryInstallation,
	}
	if err := repo.InsertSlot(ctx, day, seed); err != nil {
		t.Fatalf("InsertSlot: %v", err)
	}

	syncer := NewSyncer(repo, nil)
	s := New(nil, WithClock(clock), WithObserver(syncer))
	defer func() { _ = s.Close() }()

	if err := s.Load(ctx, repo); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Store().Len() != 1 {
		t.Fatalf("expected 1 seeded slot, got %d", s.Store().Len())
	}

	created, err := s.Service().Create(day, slot.Fields{StartTime: "11:00", DurationMinutes: 120})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "2025-04-15-2" {
		t.Errorf("expected id after seeded sequence, got %s", created.ID)
	}
	s.Service().Resize(day, seed.ID, 90)
	s.Service().Delete(day, created.ID)
	if err := syncer.Err(); err != nil {
		t.Fatalf("sync errors: %v", err)
	}

	groups, err := repo.LoadAllGroups(ctx)
	if err != nil {
		t.Fatalf("LoadAllGroups: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Slots) != 1 {
		t.Fatalf("expected one stored slot, got %+v", groups)
	}
	if got := groups[0].Slots[0]; got.ID != seed.ID || got.DurationMinutes != 90 {
		t.Errorf("stored slot: got %+v", got)
	}
}

type failingRepo struct {
	slot.Repository
}

var errDiskFull = errors.New("disk full")

func (failingRepo) InsertSlot(context.Context, time.Time, slot.TimeSlot) error { return errDiskFull }

func TestSyncer_CollectsErrors(t *testing.T) {
	syncer := NewSyncer(failingRepo{}, nil)
	s := New(nil, WithObserver(syncer))
	defer func() { _ = s.Close() }()

	if _, err := s.Service().Create(day, slot.Fields{StartTime: "08:00", DurationMinutes: 60}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Store().Len() != 1 {
		t.Error("the session stays authoritative when storage fails")
	}
	if err := syncer.Err(); !errors.Is(err, errDiskFull) {
		t.Errorf("got %v, want %v", err, errDiskFull)
	}
	if err := syncer.Err(); err != nil {
		t.Errorf("Err should reset, got %v", err)
	}
}

func TestLoad_Error(t *testing.T) {
	repo := newTestRepo(t)
	_ = repo.Close()

	s := New(nil)
	defer func() { _ = s.Close() }()
	if err := s.Load(context.Background(), repo); err == nil {
		t.Error("expected error loading from a closed repository")
	}
}

// at builds a grid point at offset y.
func at(y int) grid.Point {
	return grid.Point{Y: y}
}
