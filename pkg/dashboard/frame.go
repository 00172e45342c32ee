package dashboard

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/citylink/pkg/selection"
	"github.com/matzehuels/citylink/pkg/view"
)

// Frame is a snapshot of every drawable of a dashboard.
type Frame struct {
	Selection selection.Selection `json:"selection"`
	Layout    Layout              `json:"layout"`
	Map       []view.Circle       `json:"map"`
	Bars      []view.Bar          `json:"bars"`
	Scatter   []view.Circle       `json:"scatter"`
	Table     view.Table          `json:"table"`
	Legends   Legends             `json:"legends"`
	Axes      Axes                `json:"axes"`
}

// Layout holds the panel sizes.
type Layout struct {
	MapWidth      float64 `json:"map_width"`
	MapHeight     float64 `json:"map_height"`
	BarWidth      float64 `json:"bar_width"`
	BarHeight     float64 `json:"bar_height"`
	ScatterWidth  float64 `json:"scatter_width"`
	ScatterHeight float64 `json:"scatter_height"`
}

// Legends holds the legend swatches of the map and scatter panels.
type Legends struct {
	Growth     []view.LegendItem `json:"growth"`
	Continents []view.LegendItem `json:"continents"`
}

// Axes holds axis ticks in panel coordinates. BarLabels are the band
// centers of the ranked cities.
type Axes struct {
	ScatterX  []view.Tick `json:"scatter_x"`
	ScatterY  []view.Tick `json:"scatter_y"`
	BarX      []view.Tick `json:"bar_x"`
	BarLabels []view.Tick `json:"bar_labels"`
}

// Frame returns the current frame.
func (d *Dashboard) Frame() Frame {
	s := d.sel.Selection()
	bars := d.barList(s)
	length, _ := d.bars.Scales(d.ranked)
	sx, sy := d.scatter.Axes()

	labels := make([]view.Tick, len(bars))
	for i, b := range bars {
		labels[i] = view.Tick{Pos: b.Y + b.Height/2, Label: b.City}
	}

	return Frame{
		Selection: s,
		Layout: Layout{
			MapWidth:      d.opts.MapWidth,
			MapHeight:     d.opts.MapHeight,
			BarWidth:      d.opts.BarWidth,
			BarHeight:     d.opts.BarHeight,
			ScatterWidth:  d.opts.ScatterWidth,
			ScatterHeight: d.opts.ScatterHeight,
		},
		Map:     d.mapCircles(s),
		Bars:    bars,
		Scatter: d.scatterCircles(s),
		Table:   d.tableView(s),
		Legends: Legends{
			Growth:     view.GrowthLegend(),
			Continents: view.ContinentLegend(d.scales.Color),
		},
		Axes: Axes{
			ScatterX:  sx,
			ScatterY:  sy,
			BarX:      d.bars.Axis(length),
			BarLabels: labels,
		},
	}
}

// WriteJSON encodes the current frame as indented JSON.
func (d *Dashboard) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Frame()); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}
