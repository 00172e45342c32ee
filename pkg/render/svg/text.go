package svg

import (
	"bytes"
	"encoding/xml"
)

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens s so it fits in width pixels at the given font
// size, ending it with an ellipsis when cut.
func TruncateLabel(s string, width, fontSize float64) string {
	limit := int(width / (fontSize * 0.6))
	r := []rune(s)
	if limit < 2 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
