package dashboard

import (
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/filter"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/scale"
	"github.com/matzehuels/citylink/pkg/view"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and config files
// =============================================================================

const (
	// DefaultPageSize is the number of table rows per page.
	DefaultPageSize = filter.DefaultPageSize

	// DefaultTopN is the number of ranked bars.
	DefaultTopN = view.DefaultTopN

	// DefaultMapWidth and DefaultMapHeight size the map panel.
	DefaultMapWidth  = 800.0
	DefaultMapHeight = 450.0

	// DefaultScatterWidth and DefaultScatterHeight size the scatter panel.
	DefaultScatterWidth  = 800.0
	DefaultScatterHeight = 400.0

	// MaxPageSize and MaxTopN bound values accepted from untrusted callers.
	MaxPageSize = 1000
	MaxTopN     = 500
)

// DefaultRankField is the field the bar chart ranks by.
const DefaultRankField = record.GrowthAbsolute

// =============================================================================
// Options - Dashboard Configuration
// =============================================================================

// Options configures a Dashboard. It is loadable from TOML and JSON.
type Options struct {
	PageSize  int          `toml:"page_size" json:"page_size,omitempty"`
	TopN      int          `toml:"top_n" json:"top_n,omitempty"`
	RankField record.Field `toml:"rank_field" json:"rank_field"`

	MapWidth      float64 `toml:"map_width" json:"map_width,omitempty"`
	MapHeight     float64 `toml:"map_height" json:"map_height,omitempty"`
	BarWidth      float64 `toml:"bar_width" json:"bar_width,omitempty"`
	BarHeight     float64 `toml:"bar_height" json:"bar_height,omitempty"`
	ScatterWidth  float64 `toml:"scatter_width" json:"scatter_width,omitempty"`
	ScatterHeight float64 `toml:"scatter_height" json:"scatter_height,omitempty"`

	Scales scale.Config `toml:"scales" json:"scales"`

	// Projector places map bubbles. Nil uses an equirectangular projection
	// over the map panel.
	Projector view.Projector `toml:"-" json:"-"`
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills zero values with defaults.
func (o *Options) SetDefaults() {
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	if o.RankField == 0 {
		o.RankField = DefaultRankField
	}
	if o.MapWidth == 0 {
		o.MapWidth = DefaultMapWidth
	}
	if o.MapHeight == 0 {
		o.MapHeight = DefaultMapHeight
	}
	if o.BarWidth == 0 {
		o.BarWidth = view.DefaultBarWidth
	}
	if o.BarHeight == 0 {
		o.BarHeight = view.DefaultBarHeight
	}
	if o.ScatterWidth == 0 {
		o.ScatterWidth = DefaultScatterWidth
	}
	if o.ScatterHeight == 0 {
		o.ScatterHeight = DefaultScatterHeight
	}
	if o.Scales.PopulationRange == [2]float64{} {
		o.Scales.PopulationRange = [2]float64{60, o.ScatterWidth - 40}
	}
	if o.Scales.GrowthRange == [2]float64{} {
		o.Scales.GrowthRange = [2]float64{o.ScatterHeight - 40, 40}
	}
	o.Scales.SetDefaults()
	if o.Projector == nil {
		o.Projector = view.Equirectangular{Width: o.MapWidth, Height: o.MapHeight}
	}
}

// Validate checks the options. Call SetDefaults first.
func (o Options) Validate() error {
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		return errors.New(errors.ErrCodeInvalidConfig, "page_size must be in [1, %d], got %d", MaxPageSize, o.PageSize)
	}
	if o.TopN < 1 || o.TopN > MaxTopN {
		return errors.New(errors.ErrCodeInvalidConfig, "top_n must be in [1, %d], got %d", MaxTopN, o.TopN)
	}
	if o.RankField.Column() == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid rank_field")
	}
	if o.BarWidth <= 150 {
		return errors.New(errors.ErrCodeInvalidConfig, "bar_width must exceed 150, got %v", o.BarWidth)
	}
	if o.BarHeight <= 40 {
		return errors.New(errors.ErrCodeInvalidConfig, "bar_height must exceed 40, got %v", o.BarHeight)
	}
	for name, v := range map[string]float64{
		"map_width": o.MapWidth, "map_height": o.MapHeight,
		"scatter_width": o.ScatterWidth, "scatter_height": o.ScatterHeight,
	} {
		if v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
		}
	}
	return o.Scales.Validate()
}
