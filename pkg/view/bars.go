package view

import (
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
	"github.com/matzehuels/citylink/pkg/selection"
)

// Bar chart layout defaults.
const (
	DefaultTopN      = 20
	DefaultBarWidth  = 400
	DefaultBarHeight = 450
	BarMarginLeft    = 140
	BarMarginTop     = 20
	barPadding       = 0.2
)

// BarView draws the top-N records as horizontal bars. Records are ranked
// by RankBy (GrowthAbsolute when unset); bar length always encodes
// GrowthPercent.
type BarView struct {
	N      int
	RankBy record.Field
	Width  float64
	Height float64
}

func (v BarView) withDefaults() BarView {
	if v.N == 0 {
		v.N = DefaultTopN
	}
	if v.RankBy == 0 {
		v.RankBy = record.GrowthAbsolute
	}
	if v.Width == 0 {
		v.Width = DefaultBarWidth
	}
	if v.Height == 0 {
		v.Height = DefaultBarHeight
	}
	return v
}

// Rank returns the records shown by the chart, in bar order.
func (v BarView) Rank(records []record.Record) []record.Record {
	v = v.withDefaults()
	return TopN(records, v.RankBy, v.N)
}

// Scales returns the length and band scales for the ranked records.
func (v BarView) Scales(ranked []record.Record) (scale.Linear, scale.Band) {
	v = v.withDefaults()
	hi := 0.0
	cities := make([]string, len(ranked))
	for i, r := range ranked {
		hi = max(hi, r.GrowthPercent)
		cities[i] = r.City
	}
	x := scale.NewLinear([2]float64{0, hi}, [2]float64{0, v.Width - 150})
	y := scale.NewBand(cities, [2]float64{0, v.Height - 40}, barPadding)
	return x, y
}

// Bars returns the bars for records under sel.
func (v BarView) Bars(records []record.Record, sel selection.Selection) []Bar {
	ranked := v.Rank(records)
	x, y := v.Scales(ranked)
	out := make([]Bar, len(ranked))
	for i, r := range ranked {
		w := 0.0
		if x.Domain[1] > 0 {
			w = x.Map(r.GrowthPercent)
		}
		out[i] = Bar{
			City:   r.City,
			Index:  r.Index,
			Rank:   i + 1,
			X:      BarMarginLeft,
			Y:      BarMarginTop + y.Start() + y.Step()*float64(i),
			Width:  w,
			Height: y.Bandwidth(),
			Value:  r.GrowthPercent,
			Fill:   GrowthColor(r.GrowthAbsolute),
			Style:  StyleFor(KindBar, sel, r.City),
		}
	}
	return out
}
