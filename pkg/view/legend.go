package view

import (
	"fmt"

	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
)

// LegendItem is one swatch of a legend.
type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// GrowthLegend describes the map bubble colors.
func GrowthLegend() []LegendItem {
	return []LegendItem{
		{Label: "Positive Growth", Color: PositiveGrowth},
		{Label: "Negative Growth", Color: NegativeGrowth},
	}
}

// ContinentLegend describes the scatter colors in domain order.
func ContinentLegend(c scale.Ordinal) []LegendItem {
	out := make([]LegendItem, len(c.Domain))
	for i, d := range c.Domain {
		out[i] = LegendItem{Label: d, Color: c.Map(d)}
	}
	return out
}

// Tooltip returns the hover text lines for r in a view of kind k.
func Tooltip(k Kind, r record.Record) []string {
	pop := "Population: " + FormatPopulation(r.Population2024)
	growth := fmt.Sprintf("Growth Rate: %.2f%%", r.GrowthPercent)
	switch k {
	case KindBubble:
		return []string{r.City, r.Country, pop, growth}
	case KindBar:
		return []string{r.City, r.Country, growth}
	case KindPoint:
		return []string{r.City, pop, growth}
	}
	return []string{r.City}
}
