// Package render provides output backends for the city dashboard.
//
// # Overview
//
// The core (package dashboard) produces drawables; this package tree turns
// them into files:
//
//   - [svg]: a static four-panel SVG with an embedded linked-hover script
//   - [html]: a standalone HTML page wrapping the SVG
//   - Generic format conversion (SVG to PDF/PNG) in this package
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	c := svg.NewCanvas(d)
//	d.Attach(c)
//	pdf, err := render.ToPDF(ctx, c.Bytes())
//	png, err := render.ToPNG(ctx, c.Bytes(), 2.0)  // 2x scale
package render
