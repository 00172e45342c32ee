// Package svg renders a dashboard as a single static SVG document.
//
// [Canvas] implements the dashboard backend interface: attach it to a
// dashboard and every redraw replaces the drawables of the affected panel.
// [Canvas.Bytes] writes the four panels side by side with their legends and
// axes, plus a small script that reproduces the linked hover behavior in a
// browser.
package svg

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/view"
)

const (
	gap          = 40
	legendHeight = 60
	titleHeight  = 36
	rowHeight    = 18
	tableWidth   = 760
)

var tableColumnX = []float64{0, 180, 340, 480, 640}

// Option configures a Canvas.
type Option func(*Canvas)

// WithTitle draws a heading above the panels.
func WithTitle(title string) Option { return func(c *Canvas) { c.title = title } }

// WithoutScript omits the hover script, e.g. for PNG or PDF conversion.
func WithoutScript() Option { return func(c *Canvas) { c.script = false } }

// WithoutTooltips omits the per-mark title elements.
func WithoutTooltips() Option { return func(c *Canvas) { c.tooltips = false } }

// Canvas is a dashboard Backend that writes the four views as one SVG
// document.
type Canvas struct {
	store     *record.Store
	projector view.Projector
	frame     dashboard.Frame

	title    string
	script   bool
	tooltips bool
}

// NewCanvas returns a canvas holding the current frame of d. Layout, legends
// and axes are fixed for the dataset; the panels follow later redraws.
func NewCanvas(d *dashboard.Dashboard, opts ...Option) *Canvas {
	c := &Canvas{
		store:     d.Store(),
		projector: d.Options().Projector,
		frame:     d.Frame(),
		script:    true,
		tooltips:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) DrawMap(circles []view.Circle)     { c.frame.Map = circles }
func (c *Canvas) DrawBars(bars []view.Bar)          { c.frame.Bars = bars }
func (c *Canvas) DrawScatter(circles []view.Circle) { c.frame.Scatter = circles }
func (c *Canvas) DrawTable(t view.Table)            { c.frame.Table = t }

// Size returns the document width and height.
func (c *Canvas) Size() (float64, float64) {
	g := c.geometry()
	return g.width, g.height
}

type geometry struct {
	top      float64
	barX     float64
	scatterY float64
	tableY   float64
	width    float64
	height   float64
}

func (c *Canvas) geometry() geometry {
	l := c.frame.Layout
	var g geometry
	if c.title != "" {
		g.top = titleHeight
	}
	g.barX = l.MapWidth + gap
	g.width = math.Max(g.barX+l.BarWidth, math.Max(l.ScatterWidth, tableWidth)) + gap/2
	upper := math.Max(l.MapHeight+legendHeight, l.BarHeight+gap)
	g.scatterY = g.top + upper + gap
	g.tableY = g.scatterY + l.ScatterHeight + gap
	g.height = g.tableY + float64(len(c.frame.Table.Rows)+3)*rowHeight + gap
	return g
}

// Bytes returns the SVG document for the latest drawn views.
func (c *Canvas) Bytes() []byte {
	g := c.geometry()
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.1f" height="%.1f" font-family="sans-serif">`+"\n",
		g.width, g.height, g.width, g.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", dashboardCSS)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	if c.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%d" y="%d">%s</text>`+"\n", gap/2, titleHeight-12, EscapeXML(c.title))
	}

	c.writeMap(&buf, 0, g.top)
	c.writeBars(&buf, g.barX, g.top)
	c.writeScatter(&buf, 0, g.scatterY)
	c.writeTable(&buf, gap/2, g.tableY)

	if c.script {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", hoverScript())
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
