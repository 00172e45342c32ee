package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/selection"
	"github.com/matzehuels/citylink/pkg/view"
)

type recorder struct {
	calls   map[string]int
	circles []view.Circle
	bars    []view.Bar
	table   view.Table
}

func newRecorder() *recorder { return &recorder{calls: map[string]int{}} }

func (r *recorder) DrawMap(c []view.Circle)     { r.calls[ViewMap]++; r.circles = c }
func (r *recorder) DrawBars(b []view.Bar)       { r.calls[ViewBars]++; r.bars = b }
func (r *recorder) DrawScatter(c []view.Circle) { r.calls[ViewScatter]++ }
func (r *recorder) DrawTable(t view.Table)      { r.calls[ViewTable]++; r.table = t }

func (r *recorder) reset() { r.calls = map[string]int{} }

func testStore(t *testing.T, n int) *record.Store {
	t.Helper()
	rs := make([]record.Record, n)
	continents := []string{"Africa", "Asia", "Europe"}
	for i := range rs {
		rs[i] = record.Record{
			City:           fmt.Sprintf("City%02d", i),
			Country:        "Country",
			Continent:      continents[i%len(continents)],
			Population2024: float64(1000 * (i + 1)),
			GrowthAbsolute: float64(i%7) - 3,
			GrowthPercent:  float64(i%5) - 1,
		}
	}
	rs[0].City = "Lagos"
	s, err := record.New(rs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newDashboard(t *testing.T, n int, opts Options) *Dashboard {
	t.Helper()
	d, err := New(testStore(t, n), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestAttachDrawsInitialFrame(t *testing.T) {
	d := newDashboard(t, 30, Options{})
	r := newRecorder()
	d.Attach(r)

	for _, v := range []string{ViewMap, ViewBars, ViewScatter, ViewTable} {
		if r.calls[v] != 1 {
			t.Errorf("%s drawn %d times, want 1", v, r.calls[v])
		}
	}
	if len(r.circles) != 30 {
		t.Errorf("map circles = %d, want 30", len(r.circles))
	}
	if len(r.bars) != DefaultTopN {
		t.Errorf("bars = %d, want %d", len(r.bars), DefaultTopN)
	}
}

func TestSelectionRedrawsAllViews(t *testing.T) {
	d := newDashboard(t, 10, Options{})
	r := newRecorder()
	d.Attach(r)
	r.reset()

	if err := d.HoverEnter("Lagos"); err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{ViewMap, ViewBars, ViewScatter, ViewTable} {
		if r.calls[v] != 1 {
			t.Errorf("%s drawn %d times after hover, want 1", v, r.calls[v])
		}
	}
	if c := r.circles[0]; c.City != "Lagos" || c.Opacity != 1 || c.R <= c.BaseR {
		t.Errorf("highlighted bubble = %+v", c)
	}
	if row := r.table.Rows[0]; row.Background != view.RowHighlight {
		t.Errorf("highlighted row background = %s", row.Background)
	}

	r.reset()
	if err := d.HoverLeave(); err != nil {
		t.Fatal(err)
	}
	if r.calls[ViewMap] != 1 || r.calls[ViewTable] != 1 {
		t.Errorf("calls after leave = %v", r.calls)
	}
	if c := r.circles[0]; c.Opacity != 0.7 || c.R != c.BaseR {
		t.Errorf("cleared bubble = %+v", c)
	}
}

func TestFilterRedrawsOnlyTable(t *testing.T) {
	d := newDashboard(t, 120, Options{})
	r := newRecorder()
	d.Attach(r)
	r.reset()

	d.Search("city1")
	if d.NextPage() {
		t.Fatalf("NextPage() moved with PageCount() = %d", d.Filter().PageCount())
	}
	d.Search("")
	d.NextPage()
	d.PrevPage()
	d.GoToPage(3)

	if r.calls[ViewMap] != 0 || r.calls[ViewBars] != 0 || r.calls[ViewScatter] != 0 {
		t.Errorf("non-table views redrawn: %v", r.calls)
	}
	if r.calls[ViewTable] != 5 {
		t.Errorf("table drawn %d times, want 5", r.calls[ViewTable])
	}
	if r.table.Page != 3 || r.table.Label != "Page 3 of 3" {
		t.Errorf("table page = %d, label %q", r.table.Page, r.table.Label)
	}
}

func TestPagingNoopsDoNotRedraw(t *testing.T) {
	d := newDashboard(t, 3, Options{})
	r := newRecorder()
	d.Attach(r)
	r.reset()

	if d.PrevPage() || d.NextPage() {
		t.Error("paging moved on a single page")
	}
	d.GoToPage(1)
	if r.calls[ViewTable] != 0 {
		t.Errorf("table redrawn %d times on no-op paging", r.calls[ViewTable])
	}
}

func TestDetach(t *testing.T) {
	d := newDashboard(t, 5, Options{})
	r := newRecorder()
	detach := d.Attach(r)
	detach()
	r.reset()

	_ = d.HoverEnter("Lagos")
	d.Search("x")
	if len(r.calls) != 0 {
		t.Errorf("detached backend drawn: %v", r.calls)
	}
}

func TestMultipleBackends(t *testing.T) {
	d := newDashboard(t, 5, Options{})
	a, b := newRecorder(), newRecorder()
	d.Attach(a)
	d.Attach(b)

	_ = d.HoverEnter("Lagos")
	if a.calls[ViewMap] != 2 || b.calls[ViewMap] != 2 {
		t.Errorf("map draws a=%d b=%d, want 2 each", a.calls[ViewMap], b.calls[ViewMap])
	}
}

func TestReentrantBackendReturnsError(t *testing.T) {
	d := newDashboard(t, 5, Options{})
	r := &loopBackend{recorder: newRecorder(), d: d}
	d.Attach(r)

	err := d.HoverEnter("Lagos")
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Fatalf("HoverEnter() error = %v, want %s", err, errors.ErrCodeInternal)
	}
}

// loopBackend re-highlights from inside every map redraw.
type loopBackend struct {
	*recorder
	d *Dashboard
}

func (l *loopBackend) DrawMap(c []view.Circle) {
	l.recorder.DrawMap(c)
	if city, ok := l.d.Selection().Current(); ok {
		_ = l.d.HoverEnter(city)
	}
}

func TestRankField(t *testing.T) {
	d := newDashboard(t, 10, Options{TopN: 3, RankField: record.Population2024})
	got := d.Ranked()
	if len(got) != 3 || got[0].City != "City09" {
		t.Errorf("Ranked() = %v", got)
	}
}

func TestFrame(t *testing.T) {
	d := newDashboard(t, 12, Options{PageSize: 5})
	_ = d.HoverEnter("Lagos")
	d.Search("city")

	f := d.Frame()
	if !f.Selection.Highlights("Lagos") {
		t.Errorf("Selection = %+v", f.Selection)
	}
	if f.Table.Matches != 11 || f.Table.PageCount != 3 {
		t.Errorf("table matches=%d pages=%d, want 11, 3", f.Table.Matches, f.Table.PageCount)
	}
	if len(f.Legends.Continents) != 3 {
		t.Errorf("continent legend = %v", f.Legends.Continents)
	}
	if len(f.Axes.BarLabels) != len(f.Bars) {
		t.Errorf("bar labels = %d, bars = %d", len(f.Axes.BarLabels), len(f.Bars))
	}

	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Selection selection.Selection `json:"selection"`
		Map       []json.RawMessage   `json:"map"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("frame JSON invalid: %v", err)
	}
	if decoded.Selection.City != "Lagos" || len(decoded.Map) != 12 {
		t.Errorf("decoded frame = %+v, %d circles", decoded.Selection, len(decoded.Map))
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"page size too large", Options{PageSize: MaxPageSize + 1}, true},
		{"negative top n", Options{TopN: -1}, true},
		{"narrow bars", Options{BarWidth: 100}, true},
		{"negative map", Options{MapWidth: -5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			o.SetDefaults()
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %v", errors.GetCode(err))
			}
		})
	}

	o := DefaultOptions()
	if o.PageSize != 50 || o.TopN != 20 || o.RankField != record.GrowthAbsolute {
		t.Errorf("DefaultOptions() = %+v", o)
	}
	if o.Scales.PopulationRange != [2]float64{60, 760} || o.Scales.GrowthRange != [2]float64{360, 40} {
		t.Errorf("scale ranges = %v, %v", o.Scales.PopulationRange, o.Scales.GrowthRange)
	}
}
