// Package scale derives the value-to-pixel mappings shared by the views.
//
// All scales are value objects: once built they never change, and applying
// them is total (no input produces an error). A [Registry] builds a [Set] per
// dataset and caches it by store reference.
package scale

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// Linear maps a numeric domain onto an output range, clamping inputs
// outside the domain.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
	s      scale.Linear
}

// NewLinear returns a clamped linear scale from domain onto rng.
func NewLinear(domain, rng [2]float64) Linear {
	return Linear{
		Domain: domain,
		Range:  rng,
		s:      scale.Linear{Min: domain[0], Max: domain[1], Clamp: true},
	}
}

// Map applies the scale. A degenerate domain maps to the middle of the
// range and NaN maps to the range start.
func (l Linear) Map(x float64) float64 {
	if math.IsNaN(x) {
		return l.Range[0]
	}
	var t float64
	if l.Domain[0] == l.Domain[1] {
		t = 0.5
	} else {
		t = l.s.Map(x)
	}
	return l.Range[0] + t*(l.Range[1]-l.Range[0])
}

// Ticks returns at most n "nice" tick values inside the domain.
func (l Linear) Ticks(n int) []float64 {
	if n < 1 || l.Domain[0] == l.Domain[1] {
		return []float64{l.Domain[0]}
	}
	major, _ := l.s.Ticks(scale.TickOptions{Max: n})
	return major
}
