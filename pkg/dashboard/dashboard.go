// Package dashboard coordinates the four linked views of a city dataset.
//
// A [Dashboard] owns one selection model and one filter state over a shared,
// read-only record store. Backends attach to it and are told to redraw only
// the views an event affects: selection changes redraw every view, search
// and paging redraw only the table.
//
// # Usage
//
//	d, err := dashboard.New(store, dashboard.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	detach := d.Attach(canvas)
//	defer detach()
//
//	d.HoverEnter("Lagos")
//	d.Search("la")
//
// A Dashboard is not safe for concurrent use; callers serialize events.
package dashboard

import (
	"github.com/matzehuels/citylink/pkg/filter"
	"github.com/matzehuels/citylink/pkg/observability"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
	"github.com/matzehuels/citylink/pkg/selection"
	"github.com/matzehuels/citylink/pkg/view"
)

// View names used in hooks and logs.
const (
	ViewMap     = "map"
	ViewBars    = "bars"
	ViewScatter = "scatter"
	ViewTable   = "table"
)

// Backend draws the views of a dashboard.
type Backend interface {
	DrawMap([]view.Circle)
	DrawBars([]view.Bar)
	DrawScatter([]view.Circle)
	DrawTable(view.Table)
}

// Dashboard is the linked-view coordinator.
type Dashboard struct {
	store  *record.Store
	opts   Options
	scales *scale.Set
	sel    *selection.Model
	filter *filter.State
	ranked []record.Record

	mapView view.MapView
	bars    view.BarView
	scatter view.ScatterView
	table   view.TableView

	attached []*attachment
}

type attachment struct {
	backend Backend
}

// New builds a dashboard over store. Zero option fields take defaults.
func New(store *record.Store, opts Options, selOpts ...selection.Option) (*Dashboard, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	reg, err := scale.NewRegistry(opts.Scales)
	if err != nil {
		return nil, err
	}
	return NewWithRegistry(store, opts, reg, selOpts...), nil
}

// NewWithRegistry builds a dashboard whose scales come from reg. Dashboards
// sharing a registry and store share one scale set. opts must already be
// defaulted and valid.
func NewWithRegistry(store *record.Store, opts Options, reg *scale.Registry, selOpts ...selection.Option) *Dashboard {
	set := reg.Build(store)
	d := &Dashboard{
		store:  store,
		opts:   opts,
		scales: set,
		sel:    selection.New(selOpts...),
		filter: filter.New(store, opts.PageSize),
		mapView: view.MapView{
			Projector: opts.Projector,
			Size:      set.Size,
		},
		bars: view.BarView{
			N:      opts.TopN,
			RankBy: opts.RankField,
			Width:  opts.BarWidth,
			Height: opts.BarHeight,
		},
		scatter: view.ScatterView{
			Population: set.Population,
			Growth:     set.Growth,
			Color:      set.Color,
		},
	}
	d.ranked = d.bars.Rank(store.All())
	return d
}

// Attach subscribes b to selection changes and table changes and draws the
// initial frame. The returned function detaches b.
func (d *Dashboard) Attach(b Backend) (detach func()) {
	unsubs := []func(){
		d.sel.Subscribe(func(s selection.Selection) { d.drawMap(b, s) }),
		d.sel.Subscribe(func(s selection.Selection) { d.drawBars(b, s) }),
		d.sel.Subscribe(func(s selection.Selection) { d.drawScatter(b, s) }),
		d.sel.Subscribe(func(s selection.Selection) { d.drawTable(b, s) }),
	}
	a := &attachment{backend: b}
	d.attached = append(d.attached, a)

	s := d.sel.Selection()
	d.drawMap(b, s)
	d.drawBars(b, s)
	d.drawScatter(b, s)
	d.drawTable(b, s)

	return func() {
		for _, u := range unsubs {
			u()
		}
		for i, t := range d.attached {
			if t == a {
				d.attached = append(d.attached[:i:i], d.attached[i+1:]...)
				break
			}
		}
	}
}

// =============================================================================
// Events
// =============================================================================

// HoverEnter highlights city in every view.
func (d *Dashboard) HoverEnter(city string) error {
	return d.sel.SetHighlighted(city)
}

// HoverLeave clears the highlight.
func (d *Dashboard) HoverLeave() error {
	return d.sel.Clear()
}

// Search sets the table query and returns to page 1.
func (d *Dashboard) Search(query string) {
	d.filter.SetQuery(query)
	d.redrawTables()
}

// NextPage advances the table. It reports whether the page changed.
func (d *Dashboard) NextPage() bool {
	if !d.filter.NextPage() {
		return false
	}
	d.redrawTables()
	return true
}

// PrevPage moves the table back. It reports whether the page changed.
func (d *Dashboard) PrevPage() bool {
	if !d.filter.PrevPage() {
		return false
	}
	d.redrawTables()
	return true
}

// GoToPage jumps to page n, clamped to the valid range.
func (d *Dashboard) GoToPage(n int) {
	before := d.filter.Page()
	d.filter.SetPage(n)
	if d.filter.Page() != before {
		d.redrawTables()
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Store returns the dataset.
func (d *Dashboard) Store() *record.Store { return d.store }

// Options returns the effective options.
func (d *Dashboard) Options() Options { return d.opts }

// Scales returns the scale set.
func (d *Dashboard) Scales() *scale.Set { return d.scales }

// Selection returns the selection model.
func (d *Dashboard) Selection() *selection.Model { return d.sel }

// Filter returns the table filter state.
func (d *Dashboard) Filter() *filter.State { return d.filter }

// Ranked returns the records shown in the bar chart.
func (d *Dashboard) Ranked() []record.Record { return d.ranked }

// =============================================================================
// Drawing
// =============================================================================

func (d *Dashboard) mapCircles(s selection.Selection) []view.Circle {
	return d.mapView.Circles(d.store.All(), s)
}

func (d *Dashboard) barList(s selection.Selection) []view.Bar {
	return d.bars.Bars(d.ranked, s)
}

func (d *Dashboard) scatterCircles(s selection.Selection) []view.Circle {
	return d.scatter.Circles(d.store.All(), s)
}

func (d *Dashboard) tableView(s selection.Selection) view.Table {
	return d.table.Table(d.filter, s)
}

func (d *Dashboard) drawMap(b Backend, s selection.Selection) {
	c := d.mapCircles(s)
	b.DrawMap(c)
	observability.Dashboard().OnRedraw(ViewMap, len(c))
}

func (d *Dashboard) drawBars(b Backend, s selection.Selection) {
	bars := d.barList(s)
	b.DrawBars(bars)
	observability.Dashboard().OnRedraw(ViewBars, len(bars))
}

func (d *Dashboard) drawScatter(b Backend, s selection.Selection) {
	c := d.scatterCircles(s)
	b.DrawScatter(c)
	observability.Dashboard().OnRedraw(ViewScatter, len(c))
}

func (d *Dashboard) drawTable(b Backend, s selection.Selection) {
	t := d.tableView(s)
	b.DrawTable(t)
	observability.Dashboard().OnRedraw(ViewTable, len(t.Rows))
}

func (d *Dashboard) redrawTables() {
	s := d.sel.Selection()
	for _, a := range d.attached {
		d.drawTable(a.backend, s)
	}
}
