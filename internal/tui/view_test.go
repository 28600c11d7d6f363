package tui

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/slotboard/internal/slot"
)

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestView_FillsTerminal(t *testing.T) {
	m, _ := newTestModel(t)
	for _, key := range []string{"1", "2", "3", "4", "5"} {
		m, _ = press(t, m, key)
		lines := strings.Split(m.View(), "\n")
		if len(lines) != m.height {
			t.Errorf("view %s: %d lines, want %d", key, len(lines), m.height)
		}
		for i, line := range lines {
			if w := lipgloss.Width(line); w != m.width {
				t.Errorf("view %s line %d: width %d, want %d", key, i, w, m.width)
				break
			}
		}
	}
}

func TestView_Day(t *testing.T) {
	m, _ := newTestModel(t)
	assertContains(t, m.View(),
		"1 Day", "5 List",
		"Tuesday 15 April 2025 (today)",
		"Depot day",
		"08:00-09:00 Heat pump install",
		"10:00-11:30 Boiler repair",
		"1 installer · 1h 30m",
		"08:00", "18:00",
		"Tue 15 Apr: 3 slots",
	)
}

func TestView_DayShowsLiveDrag(t *testing.T) {
	m, _ := newTestModel(t)
	l := m.dayLayout()
	b := blockOf(t, l, "2025-04-15-1")
	x, y := timeColW+1, l.top+b.bottom

	m, _ = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, x, y))
	m, _ = send(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, x, y+2))
	assertContains(t, m.View(), "08:00-10:00 Heat pump install", "Resizing 2025-04-15-1 to 2h")
}

func TestView_DayOutsideGrid(t *testing.T) {
	m, s := newTestModel(t)
	_, err := s.Service().Create(day, slot.Fields{StartTime: "06:00", DurationMinutes: 60, InstallerCount: 1, Title: "Early drop", Category: slot.CategoryRepair, Available: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	assertContains(t, m.View(), "outside grid: 06:00 Early drop")
}

func TestView_Week(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "2")
	assertContains(t, m.View(),
		"14 Apr - 20 Apr 2025",
		"Mon 14", "Tue 15", "Sun 20",
		"all   Depot day",
		"09:00 Annual",
		"no slots",
		"day off",
	)
}

func TestView_Month(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "3")
	assertContains(t, m.View(), "April 2025", "Mon", "Sun", "15 (3)", "17 (1)", "Depot day", "Annual service")
}

func TestView_Schedule(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "4")
	out := m.View()
	assertContains(t, out, "Schedule for April 2025", "Tue 15 Apr 2025", "Thu 17 Apr 2025", "Boiler repair", "2 installers")
	if strings.Index(out, "Depot day") > strings.Index(out, "Heat pump install") {
		t.Error("all-day slots should be listed first")
	}
}

func TestView_ListFiltered(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "5", "f")
	out := m.View()
	assertContains(t, out, "All slots", "filter: type:installation", "Heat pump install")
	if strings.Contains(out, "Boiler repair") {
		t.Error("filtered list shows other categories")
	}

	m, _ = press(t, m, "/", " zzz", "enter")
	assertContains(t, m.View(), "No slots found.")
}

func TestView_ListScrollFollowsSelection(t *testing.T) {
	m, s := newTestModel(t)
	for i := 0; i < 40; i++ {
		if _, err := s.Service().Create(thursday, slot.Fields{StartTime: "12:00", DurationMinutes: 60, InstallerCount: 1, Category: slot.CategoryRepair, Available: true}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	m, _ = press(t, m, "5")
	for i := 0; i < 44; i++ {
		m, _ = press(t, m, "j")
	}
	if m.scroll == 0 {
		t.Fatal("list should scroll to keep the selection visible")
	}
	last := m.listLine(len(m.entries()) - 1)
	if last < m.scroll || last >= m.scroll+m.bodyHeight() {
		t.Errorf("selected line %d outside window [%d, %d)", last, m.scroll, m.scroll+m.bodyHeight())
	}
}

func TestView_ConfirmDelete(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "j", "j", "d")
	assertContains(t, m.View(), "Delete 2025-04-15-1 (Heat pump install)?")
}

func TestView_SearchFooter(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "/", "type:r")
	assertContains(t, m.View(), "/type:r", "tab: type:repair")
}

func TestView_SearchHintFitsNarrowTerminal(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	m, _ = press(t, m, "/", "type:c")

	if m.search.Width >= m.width/2 {
		t.Errorf("search input width %d should follow its text", m.search.Width)
	}
	assertContains(t, m.View(), "tab: type:consultation")

	m, _ = press(t, m, "tab")
	if !strings.Contains(m.View(), "/type:consultation") {
		t.Error("completed query should stay visible")
	}
}

// bgSequence returns the truecolor SGR sequence for a "#rrggbb" background.
func bgSequence(t *testing.T, c lipgloss.Color) string {
	t.Helper()
	v, err := strconv.ParseUint(strings.TrimPrefix(string(c), "#"), 16, 32)
	if err != nil {
		t.Fatalf("parsing color %q: %v", c, err)
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff)
}

func TestView_ThemeBackground(t *testing.T) {
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})

	m, _ := newTestModel(t)
	want := bgSequence(t, m.styles.Background())
	for _, key := range []string{"1", "2", "3", "5"} {
		m, _ = press(t, m, key)
		out := m.View()
		if !strings.Contains(out, want) {
			t.Errorf("view %s: missing theme background %q", key, want)
		}
		if got := lipgloss.Width(strings.Split(out, "\n")[0]); got != m.width {
			t.Errorf("view %s: colored header width %d, want %d", key, got, m.width)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long text", 6, "too l…"},
		{"ab", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.w); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}
