package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/citylink/pkg/view"
)

// =============================================================================
// Map
// =============================================================================

func (c *Canvas) writeMap(buf *bytes.Buffer, x, y float64) {
	l := c.frame.Layout
	fmt.Fprintf(buf, `  <g class="panel map" transform="translate(%.1f,%.1f)">`+"\n", x, y)
	fmt.Fprintf(buf, `    <rect class="map-bg" width="%.1f" height="%.1f"/>`+"\n", l.MapWidth, l.MapHeight)
	c.writeGraticule(buf)

	for _, m := range c.frame.Map {
		if m.X == view.Offscreen && m.Y == view.Offscreen {
			continue
		}
		c.writeCircle(buf, view.KindBubble, m)
	}

	fmt.Fprintf(buf, `    <g class="legend" transform="translate(20,%.1f)">`+"\n", l.MapHeight+20)
	for i, item := range c.frame.Legends.Growth {
		writeSwatch(buf, 0, float64(i*22), item, false)
	}
	buf.WriteString("    </g>\n  </g>\n")
}

func (c *Canvas) writeGraticule(buf *bytes.Buffer) {
	if c.projector == nil {
		return
	}
	line := func(lon1, lat1, lon2, lat2 float64) {
		x1, y1, ok1 := c.projector.Project(lon1, lat1)
		x2, y2, ok2 := c.projector.Project(lon2, lat2)
		if ok1 && ok2 {
			fmt.Fprintf(buf, `    <line class="graticule" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2)
		}
	}
	for lon := -150.0; lon <= 150; lon += 30 {
		line(lon, -90, lon, 90)
	}
	for lat := -60.0; lat <= 60; lat += 30 {
		line(-180, lat, 180, lat)
	}
}

// =============================================================================
// Bars
// =============================================================================

func (c *Canvas) writeBars(buf *bytes.Buffer, x, y float64) {
	l := c.frame.Layout
	fmt.Fprintf(buf, `  <g class="panel bars" transform="translate(%.1f,%.1f)">`+"\n", x, y)

	for _, b := range c.frame.Bars {
		fmt.Fprintf(buf, `    <rect class="city-mark bar" data-city="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="%.2f"%s>`,
			EscapeXML(b.City), b.X, b.Y, b.Width, b.Height, b.Fill, b.Opacity, strokeAttrs(b.Style))
		c.writeTooltip(buf, view.KindBar, b.Index)
		buf.WriteString("</rect>\n")
	}

	for _, t := range c.frame.Axes.BarLabels {
		fmt.Fprintf(buf, `    <text class="tick" x="%d" y="%.1f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			view.BarMarginLeft-6, t.Pos, EscapeXML(TruncateLabel(t.Label, view.BarMarginLeft-10, 10)))
	}

	axisY := l.BarHeight - 15
	fmt.Fprintf(buf, `    <line class="axis" x1="%d" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		view.BarMarginLeft, axisY, l.BarWidth-10, axisY)
	for _, t := range c.frame.Axes.BarX {
		writeTickX(buf, t, axisY)
	}
	fmt.Fprintf(buf, `    <text class="axis-label" x="%.1f" y="%.1f" text-anchor="middle">Growth Rate between 2023 - 2024 (%%)</text>`+"\n",
		l.BarWidth/1.5, l.BarHeight+20)
	fmt.Fprintf(buf, `    <text class="axis-label" transform="rotate(-90)" x="%.1f" y="12" text-anchor="middle">City</text>`+"\n",
		-(l.BarHeight-40)/2)
	buf.WriteString("  </g>\n")
}

// =============================================================================
// Scatter
// =============================================================================

func (c *Canvas) writeScatter(buf *bytes.Buffer, x, y float64) {
	l := c.frame.Layout
	fmt.Fprintf(buf, `  <g class="panel scatter" transform="translate(%.1f,%.1f)">`+"\n", x, y)

	axisY := l.ScatterHeight - 40
	fmt.Fprintf(buf, `    <line class="axis" x1="60" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", axisY, l.ScatterWidth-40, axisY)
	for _, t := range c.frame.Axes.ScatterX {
		writeTickX(buf, t, axisY)
	}
	fmt.Fprintf(buf, `    <line class="axis" x1="60" y1="40" x2="60" y2="%.1f"/>`+"\n", axisY)
	for _, t := range c.frame.Axes.ScatterY {
		fmt.Fprintf(buf, `    <line class="axis" x1="54" y1="%.1f" x2="60" y2="%.1f"/>`+"\n", t.Pos, t.Pos)
		fmt.Fprintf(buf, `    <text class="tick" x="50" y="%.1f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			t.Pos, EscapeXML(t.Label))
	}

	for _, p := range c.frame.Scatter {
		c.writeCircle(buf, view.KindPoint, p)
	}

	fmt.Fprintf(buf, `    <text class="axis-label" x="%.1f" y="%.1f" text-anchor="middle">Population (2024)</text>`+"\n",
		l.ScatterWidth/2, l.ScatterHeight-5)
	fmt.Fprintf(buf, `    <text class="axis-label" transform="rotate(-90)" x="%.1f" y="15" text-anchor="middle">Growth Rate (%%)</text>`+"\n",
		-l.ScatterHeight/2)

	fmt.Fprintf(buf, `    <g class="legend" transform="translate(%.1f,40)">`+"\n", l.ScatterWidth-50)
	for i, item := range c.frame.Legends.Continents {
		writeSwatch(buf, 0, float64(i*20), item, true)
	}
	buf.WriteString("    </g>\n  </g>\n")
}

// =============================================================================
// Table
// =============================================================================

func (c *Canvas) writeTable(buf *bytes.Buffer, x, y float64) {
	t := c.frame.Table
	fmt.Fprintf(buf, `  <g class="panel table" transform="translate(%.1f,%.1f)">`+"\n", x, y)

	header := t.Label
	if t.Query != "" {
		header = fmt.Sprintf("%s · %d matches for %q", t.Label, t.Matches, t.Query)
	}
	fmt.Fprintf(buf, `    <text class="page-label" x="0" y="0">%s</text>`+"\n", EscapeXML(header))

	for i, col := range t.Columns {
		fmt.Fprintf(buf, `    <text class="th" x="%.1f" y="%d">%s</text>`+"\n", columnX(i), rowHeight+4, EscapeXML(col))
	}

	for i, r := range t.Rows {
		ry := float64(i+1)*rowHeight + 8
		weight := ""
		if r.Bold {
			weight = ` font-weight="bold"`
		}
		fmt.Fprintf(buf, `    <g class="city-mark row" data-city="%s"%s>`, EscapeXML(r.City), weight)
		fmt.Fprintf(buf, `<rect class="row-bg" data-city="%s" x="-4" y="%.1f" width="%d" height="%d" fill="%s"/>`,
			EscapeXML(r.City), ry, tableWidth, rowHeight, r.Background)
		for j, cell := range r.Cells {
			fmt.Fprintf(buf, `<text class="td" x="%.1f" y="%.1f">%s</text>`, columnX(j), ry+rowHeight-5, EscapeXML(cell))
		}
		buf.WriteString("</g>\n")
	}
	buf.WriteString("  </g>\n")
}

func columnX(i int) float64 {
	if i < len(tableColumnX) {
		return tableColumnX[i]
	}
	return tableColumnX[len(tableColumnX)-1] + float64(i-len(tableColumnX)+1)*120
}

// =============================================================================
// Shared
// =============================================================================

func (c *Canvas) writeCircle(buf *bytes.Buffer, k view.Kind, m view.Circle) {
	fmt.Fprintf(buf, `    <circle class="city-mark %s" data-city="%s" data-r="%.2f" cx="%.1f" cy="%.1f" r="%.2f" fill="%s" opacity="%.2f"%s>`,
		k, EscapeXML(m.City), m.BaseR, m.X, m.Y, m.R, m.Fill, m.Opacity, strokeAttrs(m.Style))
	c.writeTooltip(buf, k, m.Index)
	buf.WriteString("</circle>\n")
}

func (c *Canvas) writeTooltip(buf *bytes.Buffer, k view.Kind, index int) {
	if !c.tooltips || c.store == nil || index < 0 || index >= c.store.Len() {
		return
	}
	lines := view.Tooltip(k, c.store.At(index))
	fmt.Fprintf(buf, "<title>%s</title>", EscapeXML(strings.Join(lines, "\n")))
}

func strokeAttrs(st view.Style) string {
	if st.Stroke == "" {
		return ` stroke="none"`
	}
	return fmt.Sprintf(` stroke="%s" stroke-width="%g"`, st.Stroke, st.StrokeWidth)
}

func writeTickX(buf *bytes.Buffer, t view.Tick, axisY float64) {
	fmt.Fprintf(buf, `    <line class="axis" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", t.Pos, axisY, t.Pos, axisY+6)
	fmt.Fprintf(buf, `    <text class="tick" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n", t.Pos, axisY+18, EscapeXML(t.Label))
}

// writeSwatch draws one legend entry. Right-aligned entries put the label
// left of the swatch so they stay inside the panel.
func writeSwatch(buf *bytes.Buffer, x, y float64, item view.LegendItem, right bool) {
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="14" height="14" fill="%s"/>`, x, y, item.Color)
	if right {
		fmt.Fprintf(buf, `<text class="legend-label" x="%.1f" y="%.1f" text-anchor="end">%s</text>`+"\n", x-6, y+11, EscapeXML(item.Label))
		return
	}
	fmt.Fprintf(buf, `<text class="legend-label" x="%.1f" y="%.1f">%s</text>`+"\n", x+20, y+11, EscapeXML(item.Label))
}
