package ui

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/slotboard/internal/config"
)

// Monday 2025-04-14, 09:00.
var fixedNow = func() time.Time { return time.Date(2025, 4, 14, 9, 0, 0, 0, time.UTC) }

type testEnv struct {
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	DisableColor()
	t.Cleanup(EnableColor)

	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "slotboard.db")
	cfg.Log.Level = "error"
	cfg.Log.File = ""
	return &testEnv{cfg: cfg}
}

// run executes one command in a fresh App sharing the environment's database.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := NewApp(e.cfg)
	a.out = &out
	a.now = fixedNow
	a.root.SetOut(&out)
	a.root.SetErr(io.Discard)
	a.root.SetArgs(args)
	err := a.Execute()
	if cerr := a.Close(); cerr != nil {
		t.Fatalf("Close failed: %v", cerr)
	}
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "version")
	assertContains(t, out, "slotboard dev")
}

func TestAdd(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Heat pump", "--date=2025-04-15", "--start=09:00", "--duration=120", "--installers=2")
	assertContains(t, out, "Created slot 2025-04-15-1: Heat pump [installation] 2025-04-15 09:00-11:00 (2h)")

	out = env.mustRun(t, "add", "--date=tomorrow", "--start=13:00", "--duration=10", "--category=repair")
	assertContains(t, out, "Created slot 2025-04-15-2: Repair", "13:00-13:30", "duration clamped from 10m")

	out = env.mustRun(t, "add", "Depot", "--date=2025-04-16", "--all-day")
	assertContains(t, out, "2025-04-16-1", "all day")

	t.Run("start required", func(t *testing.T) {
		if _, err := env.run(t, "add", "x", "--date=2025-04-15"); !errors.Is(err, ErrStartRequired) {
			t.Errorf("got %v, want %v", err, ErrStartRequired)
		}
	})
	t.Run("bad category", func(t *testing.T) {
		if _, err := env.run(t, "add", "x", "--start=09:00", "--category=plumbing"); err == nil {
			t.Error("expected error for unknown category")
		}
	})
	t.Run("past date", func(t *testing.T) {
		if _, err := env.run(t, "add", "x", "--start=09:00", "--date=2025-04-01"); err == nil {
			t.Error("expected error for a past date")
		}
	})
}

func TestResize(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Job", "--date=2025-04-15", "--start=08:00", "--duration=60")
	env.mustRun(t, "add", "Depot", "--date=2025-04-15", "--all-day")

	out := env.mustRun(t, "resize", "2025-04-15-1", "1000")
	assertContains(t, out, "Resized slot 2025-04-15-1 to 12h (08:00-20:00)", "clamped from 16h40m")

	// A fresh session reads the stored duration back.
	out = env.mustRun(t, "day", "2025-04-15")
	assertContains(t, out, "08:00-20:00")

	t.Run("all day", func(t *testing.T) {
		if _, err := env.run(t, "resize", "2025-04-15-2", "90"); !errors.Is(err, ErrNotResizable) {
			t.Errorf("got %v, want %v", err, ErrNotResizable)
		}
	})
	t.Run("missing", func(t *testing.T) {
		if _, err := env.run(t, "resize", "2025-04-15-9", "90"); !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("got %v, want %v", err, ErrSlotNotFound)
		}
	})
	t.Run("bad minutes", func(t *testing.T) {
		if _, err := env.run(t, "resize", "2025-04-15-1", "long"); err == nil {
			t.Error("expected error for non-numeric minutes")
		}
	})
}

func TestEdit(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Job", "--date=2025-04-15", "--start=08:00", "--duration=60", "--installers=2")

	out := env.mustRun(t, "edit", "2025-04-15-1", "--installers=3", "--title=Bigger job")
	assertContains(t, out, "Updated slot 2025-04-15-1: Bigger job [installation] 08:00-09:00 (1h)")

	out = env.mustRun(t, "list")
	assertContains(t, out, "3 installers", "Bigger job")

	out = env.mustRun(t, "edit", "2025-04-15-1", "--all-day")
	assertContains(t, out, "all day")

	if _, err := env.run(t, "edit", "2025-04-15-1", "--all-day=false"); !errors.Is(err, ErrStartRequired) {
		t.Errorf("got %v, want %v", err, ErrStartRequired)
	}
	if _, err := env.run(t, "edit", "nope", "--installers=1"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("got %v, want %v", err, ErrSlotNotFound)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Job", "--date=2025-04-15", "--start=08:00")

	out := env.mustRun(t, "delete", "2025-04-15-1")
	assertContains(t, out, "Deleted slot 2025-04-15-1")

	out = env.mustRun(t, "delete", "2025-04-15-1")
	assertContains(t, out, "not found, nothing to delete")

	out = env.mustRun(t, "list")
	assertContains(t, out, "No slots found.")
}

func TestList_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Boiler fit", "--date=2025-04-15", "--start=08:00")
	env.mustRun(t, "add", "Boiler leak", "--date=2025-04-16", "--start=10:00", "--category=repair")
	env.mustRun(t, "add", "Survey", "--date=2025-04-17", "--start=10:00", "--category=consultation")

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all", []string{"list"}, []string{"Boiler fit", "Boiler leak", "Survey", "Slots: 3"}, nil},
		{"type", []string{"list", "--type=repair"}, []string{"Boiler leak"}, []string{"Boiler fit", "Survey"}},
		{"search", []string{"list", "--search=BOILER"}, []string{"Boiler fit", "Boiler leak"}, []string{"Survey"}},
		{"search category text", []string{"list", "--search=consult"}, []string{"Survey"}, []string{"Boiler"}},
		{"range", []string{"list", "--from=2025-04-16", "--to=2025-04-16"}, []string{"Boiler leak"}, []string{"Boiler fit", "Survey"}},
		{"combined", []string{"list", "--type=installation", "--search=leak"}, []string{"No slots found."}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := env.mustRun(t, tt.args...)
			assertContains(t, out, tt.want...)
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, out)
				}
			}
		})
	}

	if _, err := env.run(t, "list", "--from=2025-04-17", "--to=2025-04-16"); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestWeekAndMonth(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "A", "--date=2025-04-15", "--start=08:00")
	env.mustRun(t, "add", "B", "--date=2025-04-15", "--start=10:00", "--unavailable")

	out := env.mustRun(t, "week", "2025-04-16")
	assertContains(t, out, "WEEK: Mon Apr 14 - Sun Apr 20, 2025", "Mon Apr 14 (today)", "Tue Apr 15", "(day off)", "(50% bookable)")

	out = env.mustRun(t, "month", "2025-04")
	assertContains(t, out, "April 2025", "15 (2)", "Mon")

	if _, err := env.run(t, "month", "April"); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestExportImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Heat pump", "--date=2025-04-15", "--start=09:00", "--duration=90")
	env.mustRun(t, "add", "Depot", "--date=2025-04-16", "--all-day", "--category=consultation")

	out := env.mustRun(t, "export", "--out=-")
	assertContains(t, out, "BEGIN:VCALENDAR", "UID:2025-04-15-1", "SUMMARY:Heat pump", "CATEGORIES:consultation")

	path := filepath.Join(t.TempDir(), "slots.ics")
	out = env.mustRun(t, "export", "--out="+path, "--type=installation")
	assertContains(t, out, "Exported 1 slots")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	out = env.mustRun(t, "import", path)
	assertContains(t, out, "Imported 1 slots")

	out = env.mustRun(t, "day", "2025-04-15")
	assertContains(t, out, "2025-04-15-1", "2025-04-15-2")

	if _, err := env.run(t, "import", filepath.Join(t.TempDir(), "missing.ics")); err == nil {
		t.Error("expected error for a missing file")
	}
}
