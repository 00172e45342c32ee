// Package html wraps a rendered dashboard SVG in a standalone HTML page.
package html

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/matzehuels/citylink/pkg/buildinfo"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 24px; font-family: sans-serif; color: #222; }
  h1 { font-size: 20px; margin: 0 0 16px; }
  footer { margin-top: 16px; font-size: 11px; color: #888; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.SVG}}
<footer>citylink {{.Version}}</footer>
</body>
</html>
`))

// Page returns an HTML document embedding svg inline, so its hover script
// keeps working.
func Page(svg []byte, title string) ([]byte, error) {
	if title == "" {
		title = "City Growth Dashboard"
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title   string
		SVG     template.HTML
		Version string
	}{title, template.HTML(svg), buildinfo.Version})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
