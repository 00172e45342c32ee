package scale

import (
	"math"
)

// Sqrt maps [0, Max] onto [0, MaxRadius] through a square root, so the
// area of a circle is proportional to its value.
type Sqrt struct {
	Max       float64
	MaxRadius float64
	lin       Linear
}

// NewSqrt returns a size scale for values up to max.
func NewSqrt(max, maxRadius float64) Sqrt {
	if max < 0 || math.IsNaN(max) {
		max = 0
	}
	return Sqrt{
		Max:       max,
		MaxRadius: maxRadius,
		lin:       NewLinear([2]float64{0, math.Sqrt(max)}, [2]float64{0, maxRadius}),
	}
}

// Map returns the radius for x. Negative and NaN inputs map to 0, values
// above Max clamp to MaxRadius.
func (s Sqrt) Map(x float64) float64 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if s.Max == 0 {
		return 0
	}
	return s.lin.Map(math.Sqrt(x))
}
