package view

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/citylink/pkg/scale"
)

// Axes returns the axis ticks of the scatter panel.
func (v ScatterView) Axes() (x, y []Tick) {
	return Ticks(v.Population, 6, FormatSI), Ticks(v.Growth, 6, FormatPlain)
}

// Axis returns the value ticks of the bar panel, offset by the bar margin.
func (v BarView) Axis(length scale.Linear) []Tick {
	ticks := Ticks(length, 5, FormatPlain)
	for i := range ticks {
		ticks[i].Pos += BarMarginLeft
	}
	return ticks
}

// Ticks places up to n ticks of l.
func Ticks(l scale.Linear, n int, format func(float64) string) []Tick {
	values := l.Ticks(n)
	out := make([]Tick, len(values))
	for i, t := range values {
		out[i] = Tick{Pos: l.Map(t), Label: format(t)}
	}
	return out
}

// FormatSI formats large values with an SI suffix, e.g. 20M.
func FormatSI(v float64) string {
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}

// FormatPlain formats a tick value without trailing zeros.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
