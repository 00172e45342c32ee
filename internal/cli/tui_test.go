package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/record"
)

func testDashboard(t *testing.T, n int) *dashboard.Dashboard {
	t.Helper()
	rs := make([]record.Record, n)
	for i := range rs {
		rs[i] = record.Record{
			City:           fmt.Sprintf("City%02d", i),
			Country:        "Country",
			Continent:      []string{"Africa", "Asia", "Europe"}[i%3],
			Population2024: float64(1000 * (i + 1)),
			Population2023: float64(1000*(i+1) - 10*i),
			GrowthAbsolute: float64(10 * i),
			GrowthPercent:  float64(i) / 10,
		}
	}
	store, err := record.New(rs)
	if err != nil {
		t.Fatal(err)
	}
	d, err := dashboard.New(store, dashboard.Options{PageSize: 5, TopN: 4})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func press(t *testing.T, m ExploreModel, keys ...string) ExploreModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ExploreModel)
	}
	return m
}

func TestExploreModelHoversFirstRow(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 12))
	defer detach()

	sel := m.Dashboard.Selection().Selection()
	if !sel.Active || sel.City != "City00" {
		t.Fatalf("initial selection = %+v, want City00", sel)
	}
	if m.backend.draws[dashboard.ViewMap] < 2 {
		t.Errorf("map draws = %d, want initial draw plus hover", m.backend.draws[dashboard.ViewMap])
	}
}

func TestExploreModelCursorHighlights(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 12))
	defer detach()

	m = press(t, m, "down", "down")
	if m.Cursor != 2 {
		t.Fatalf("Cursor = %d, want 2", m.Cursor)
	}
	if got := m.Dashboard.Selection().Selection().City; got != "City02" {
		t.Errorf("highlighted = %q, want City02", got)
	}

	// Bars of every other city are dimmed.
	dimmed := 0
	for _, b := range m.backend.bars {
		if b.City != "City02" && b.Opacity < 1 {
			dimmed++
		}
	}
	if dimmed == 0 {
		t.Error("no bars dimmed while a city is highlighted")
	}

	m = press(t, m, "up", "up", "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want clamped at 0", m.Cursor)
	}
}

func TestExploreModelPaging(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 12))
	defer detach()

	m = press(t, m, "down", "n")
	if page := m.Dashboard.Filter().Page(); page != 2 {
		t.Fatalf("page = %d, want 2", page)
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want reset to 0", m.Cursor)
	}
	if got := m.Dashboard.Selection().Selection().City; got != "City05" {
		t.Errorf("highlighted = %q, want first row of page 2", got)
	}

	m = press(t, m, "n", "n", "n")
	if page := m.Dashboard.Filter().Page(); page != 3 {
		t.Errorf("page = %d, want last page 3", page)
	}
	m = press(t, m, "p")
	if page := m.Dashboard.Filter().Page(); page != 2 {
		t.Errorf("page = %d, want 2", page)
	}
}

func TestExploreModelSearch(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 12))
	defer detach()

	m = press(t, m, "/")
	if !m.Searching {
		t.Fatal("'/' should focus the search box")
	}
	// While searching, 'q' is text, not quit.
	m = press(t, m, "1", "1")
	if q := m.Dashboard.Filter().Query(); q != "11" {
		t.Fatalf("query = %q, want %q", q, "11")
	}
	if rows := m.backend.table.Rows; len(rows) != 1 || rows[0].City != "City11" {
		t.Fatalf("rows = %+v, want only City11", rows)
	}
	if got := m.Dashboard.Selection().Selection().City; got != "City11" {
		t.Errorf("highlighted = %q, want City11", got)
	}

	m = press(t, m, "z")
	if len(m.backend.table.Rows) != 0 {
		t.Fatalf("rows = %d, want none", len(m.backend.table.Rows))
	}
	if m.Dashboard.Selection().Selection().Active {
		t.Error("empty page should clear the highlight")
	}

	m = press(t, m, "backspace", "enter")
	if m.Searching {
		t.Error("enter should leave the search box")
	}
}

func TestExploreModelClear(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 12))
	defer detach()

	m = press(t, m, "c")
	if m.Dashboard.Selection().Selection().Active {
		t.Error("'c' should clear the highlight")
	}
	if !strings.Contains(m.View(), "No city highlighted") {
		t.Error("detail panel should report no highlight")
	}
}

func TestExploreModelQuit(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 3))
	defer detach()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("'q' should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' should quit")
	}
}

func TestExploreModelView(t *testing.T) {
	m, detach := NewExploreModel(testDashboard(t, 12))
	defer detach()

	out := m.View()
	for _, want := range []string{"City Growth Explorer", "City00", "Top 4", "Page 1 of 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Lagos", 16); got != "Lagos" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
	if got := truncate("Santiago de los Caballeros", 10); got != "Santiago …" {
		t.Errorf("truncate() = %q", got)
	}
}
