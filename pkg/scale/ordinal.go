package scale

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/aclements/go-gg/palette/brewer"

	"github.com/matzehuels/citylink/pkg/errors"
)

// Fallback is the color of values outside an ordinal domain.
const Fallback = "#999999"

var palettes = map[string][]string{
	"set2":    hexes(brewer.Set2_8),
	"dark2":   hexes(brewer.Dark2_8),
	"pastel2": hexes(brewer.Pastel2_8),
	"set1":    hexes(brewer.Set1_9),
	"set3":    hexes(brewer.Set3_12),
	"accent":  hexes(brewer.Accent_8),
	"paired":  hexes(brewer.Paired_12),
}

func hexes[C color.Color](cs []C) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = Hex(c)
	}
	return out
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Palette returns the colors of a named palette.
func Palette(name string) ([]string, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown palette %q (available: %v)", name, PaletteNames())
	}
	return append([]string(nil), p...), nil
}

// PaletteNames lists the available palette names.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Ordinal assigns palette colors to categories in domain order, cycling
// when the domain outgrows the palette.
type Ordinal struct {
	Domain []string
	Colors []string
	index  map[string]int
}

// NewOrdinal returns an ordinal color scale. Duplicate domain values keep
// their first position.
func NewOrdinal(domain, colors []string) Ordinal {
	o := Ordinal{Colors: colors, index: make(map[string]int, len(domain))}
	for _, d := range domain {
		if _, ok := o.index[d]; ok {
			continue
		}
		o.index[d] = len(o.Domain)
		o.Domain = append(o.Domain, d)
	}
	return o
}

// Map returns the color for v, or Fallback for unknown values.
func (o Ordinal) Map(v string) string {
	i, ok := o.index[v]
	if !ok || len(o.Colors) == 0 {
		return Fallback
	}
	return o.Colors[i%len(o.Colors)]
}
