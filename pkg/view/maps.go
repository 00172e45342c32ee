package view

import (
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
	"github.com/matzehuels/citylink/pkg/selection"
)

// Growth sign colors.
const (
	PositiveGrowth = "#4caf50"
	NegativeGrowth = "#e53935"
)

// GrowthColor returns the fill for a growth value.
func GrowthColor(growth float64) string {
	if growth > 0 {
		return PositiveGrowth
	}
	return NegativeGrowth
}

// MapView draws one size-scaled bubble per record.
type MapView struct {
	Projector Projector
	Size      scale.Sqrt
}

// Circles returns the bubbles for records under sel.
func (v MapView) Circles(records []record.Record, sel selection.Selection) []Circle {
	out := make([]Circle, len(records))
	for i, r := range records {
		x, y, ok := v.Projector.Project(r.Longitude, r.Latitude)
		if !ok {
			x, y = Offscreen, Offscreen
		}
		st := StyleFor(KindBubble, sel, r.City)
		base := v.Size.Map(r.Population2024)
		out[i] = Circle{
			City:  r.City,
			Index: r.Index,
			X:     x,
			Y:     y,
			BaseR: base,
			R:     base * st.RadiusScale,
			Fill:  GrowthColor(r.GrowthAbsolute),
			Style: st,
		}
	}
	return out
}
