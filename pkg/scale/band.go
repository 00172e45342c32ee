package scale

// Band places an ordered list of categories into evenly spaced bands.
// Padding is the inner and outer padding as a fraction of the step.
type Band struct {
	Domain  []string
	Range   [2]float64
	Padding float64

	index map[string]int
	step  float64
	start float64
}

// NewBand returns a band scale over domain within rng.
func NewBand(domain []string, rng [2]float64, padding float64) Band {
	b := Band{
		Domain:  domain,
		Range:   rng,
		Padding: padding,
		index:   make(map[string]int, len(domain)),
	}
	for i, d := range domain {
		if _, ok := b.index[d]; !ok {
			b.index[d] = i
		}
	}
	n := float64(len(domain))
	b.step = (rng[1] - rng[0]) / max(1, n-padding+2*padding)
	b.start = rng[0] + (rng[1]-rng[0]-b.step*(n-padding))*0.5
	return b
}

// Map returns the start of the band for v and whether v is in the domain.
func (b Band) Map(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 {
	return b.step * (1 - b.Padding)
}

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Start returns the start of the first band.
func (b Band) Start() float64 { return b.start }
