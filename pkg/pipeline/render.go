package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/citylink/pkg/dashboard"
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/render"
	"github.com/matzehuels/citylink/pkg/render/html"
	"github.com/matzehuels/citylink/pkg/render/svg"
)

// Build creates a dashboard for store and applies the highlight, query and
// page of opts, in that order.
func Build(store *record.Store, opts Options) (*dashboard.Dashboard, error) {
	d, err := dashboard.New(store, opts.Dashboard)
	if err != nil {
		return nil, err
	}
	if opts.Query != "" {
		d.Search(opts.Query)
	}
	if opts.Page > 1 {
		d.GoToPage(opts.Page)
	}
	if opts.Highlight != "" {
		if !store.Has(opts.Highlight) {
			return nil, errors.New(errors.ErrCodeNotFound, "city not found: %q", opts.Highlight)
		}
		if err := d.HoverEnter(opts.Highlight); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Render generates output artifacts of d in the requested formats.
func Render(ctx context.Context, d *dashboard.Dashboard, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data = canvas(d, opts).Bytes()
		case render.FormatHTML:
			data, err = html.Page(canvas(d, opts).Bytes(), opts.Title)
		case render.FormatJSON:
			var buf bytes.Buffer
			err = d.WriteJSON(&buf)
			data = buf.Bytes()
		case render.FormatPNG:
			data, err = render.ToPNG(ctx, canvas(d, opts, svg.WithoutScript()).Bytes(), opts.PNGScale)
		case render.FormatPDF:
			data, err = render.ToPDF(ctx, canvas(d, opts, svg.WithoutScript()).Bytes())
		default:
			return nil, render.ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func canvas(d *dashboard.Dashboard, opts Options, extra ...svg.Option) *svg.Canvas {
	svgOpts := append([]svg.Option{svg.WithTitle(opts.Title)}, extra...)
	return svg.NewCanvas(d, svgOpts...)
}
