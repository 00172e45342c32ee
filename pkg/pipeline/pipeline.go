// Package pipeline provides the load → build → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a source into a validated [record.Store]
//  2. Build: create a [dashboard.Dashboard] and apply the requested
//     highlight, query and page
//  3. Render: produce artifacts in the requested formats (SVG, HTML,
//     JSON, PNG, PDF)
//
// Rendered artifacts are cached under keys derived from the dataset content
// and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:    "cities.csv",
//	    Formats:   []string{"svg"},
//	    Highlight: "Lagos",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citylink/pkg/cache"
	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPNGScale is the resolution factor of PNG output.
	DefaultPNGScale = 2.0

	// DefaultTitle heads the rendered dashboard.
	DefaultTitle = "City Population Growth 2023 - 2024"
)

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	Source    string   `json:"source"`
	Formats   []string `json:"formats,omitempty"`
	Highlight string   `json:"highlight,omitempty"`
	Query     string   `json:"query,omitempty"`
	Page      int      `json:"page,omitempty"`
	Title     string   `json:"title,omitempty"`
	PNGScale  float64  `json:"png_scale,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	Dashboard dashboard.Options `json:"dashboard"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Store       *record.Store
	Dashboard   *dashboard.Dashboard
	DatasetHash string
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidSource, "source is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRender applies render defaults and validates the render
// options only.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Highlight != "" {
		if err := errors.ValidateCity(o.Highlight); err != nil {
			return err
		}
	}
	if err := errors.ValidateQuery(o.Query); err != nil {
		return err
	}
	if o.Page < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "page must be at least 1, got %d", o.Page)
	}
	return o.Dashboard.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Page == 0 {
		o.Page = 1
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	o.Dashboard.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Highlight: o.Highlight,
		Query:     o.Query,
		Page:      o.Page,
		Options:   o.optionsHash(),
	}
}

func (o *Options) optionsHash() string {
	data, _ := json.Marshal(struct {
		Dashboard dashboard.Options `json:"dashboard"`
		Title     string            `json:"title"`
		PNGScale  float64           `json:"png_scale"`
	}{o.Dashboard, o.Title, o.PNGScale})
	return cache.Hash(data)
}
