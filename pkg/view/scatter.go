package view

import (
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
	"github.com/matzehuels/citylink/pkg/selection"
)

// PointRadius is the radius of every scatter point.
const PointRadius = 4

// ScatterView plots population against growth percent, colored by
// continent.
type ScatterView struct {
	Population scale.Linear
	Growth     scale.Linear
	Color      scale.Ordinal
}

// Circles returns the points for records under sel.
func (v ScatterView) Circles(records []record.Record, sel selection.Selection) []Circle {
	out := make([]Circle, len(records))
	for i, r := range records {
		st := StyleFor(KindPoint, sel, r.City)
		out[i] = Circle{
			City:  r.City,
			Index: r.Index,
			X:     v.Population.Map(r.Population2024),
			Y:     v.Growth.Map(r.GrowthPercent),
			BaseR: PointRadius,
			R:     PointRadius,
			Fill:  v.Color.Map(r.Continent),
			Style: st,
		}
	}
	return out
}
