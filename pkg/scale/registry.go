package scale

import (
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
)

// Config holds the output ranges of the derived scales.
type Config struct {
	MaxRadius       float64    `toml:"max_radius" json:"max_radius"`
	PopulationRange [2]float64 `toml:"population_range" json:"population_range"`
	GrowthRange     [2]float64 `toml:"growth_range" json:"growth_range"`
	Palette         string     `toml:"palette" json:"palette"`
}

// Default values.
const (
	DefaultMaxRadius = 20
	DefaultPalette   = "set2"
)

var (
	DefaultPopulationRange = [2]float64{60, 760}
	DefaultGrowthRange     = [2]float64{360, 40}
)

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.MaxRadius == 0 {
		c.MaxRadius = DefaultMaxRadius
	}
	if c.PopulationRange == [2]float64{} {
		c.PopulationRange = DefaultPopulationRange
	}
	if c.GrowthRange == [2]float64{} {
		c.GrowthRange = DefaultGrowthRange
	}
	if c.Palette == "" {
		c.Palette = DefaultPalette
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_radius must be positive, got %v", c.MaxRadius)
	}
	if _, err := Palette(c.Palette); err != nil {
		return err
	}
	return nil
}

// Set is the scales derived from one dataset.
type Set struct {
	Size       Sqrt
	Population Linear
	Growth     Linear
	Color      Ordinal
}

// Registry builds scale sets and caches the last one by store reference.
type Registry struct {
	cfg    Config
	colors []string

	store *record.Store
	set   *Set
}

// NewRegistry returns a registry for cfg. Zero fields take defaults.
func NewRegistry(cfg Config) (*Registry, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	colors, _ := Palette(cfg.Palette)
	return &Registry{cfg: cfg, colors: colors}, nil
}

// Build returns the scales for s. Calling it again with the same store
// returns the cached set.
func (r *Registry) Build(s *record.Store) *Set {
	if r.set != nil && r.store == s {
		return r.set
	}
	r.store, r.set = s, Derive(s, r.cfg, r.colors)
	return r.set
}

// Derive computes a scale set without caching.
func Derive(s *record.Store, cfg Config, colors []string) *Set {
	return &Set{
		Size:       NewSqrt(s.MaxOf(record.Population2024), cfg.MaxRadius),
		Population: NewLinear(extent(s, record.Population2024), cfg.PopulationRange),
		Growth:     NewLinear(extent(s, record.GrowthPercent), cfg.GrowthRange),
		Color:      NewOrdinal(s.DistinctValuesOf(record.Continent), colors),
	}
}

func extent(s *record.Store, f record.Field) [2]float64 {
	lo, hi := s.ExtentOf(f)
	return [2]float64{lo, hi}
}
