package view

import (
	"github.com/matzehuels/citylink/pkg/selection"
)

// Kind is the visual kind of a drawable.
type Kind int

const (
	KindBubble Kind = iota // size-scaled map circle
	KindPoint              // fixed-size scatter circle
	KindBar
	KindRow
)

func (k Kind) String() string {
	switch k {
	case KindBubble:
		return "bubble"
	case KindPoint:
		return "point"
	case KindBar:
		return "bar"
	case KindRow:
		return "row"
	}
	return "unknown"
}

// Highlight colors and factors.
const (
	HighlightStroke      = "black"
	HighlightStrokeWidth = 2
	HighlightGrow        = 1.6
	RowHighlight         = "#ffe082"
	RowBackground        = "white"
)

// Style is the highlight-dependent part of a drawable.
type Style struct {
	Opacity     float64 `json:"opacity"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	RadiusScale float64 `json:"radius_scale,omitempty"`
	Background  string  `json:"background,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
}

// StyleFor returns the style of a drawable of kind k showing city under sel.
func StyleFor(k Kind, sel selection.Selection, city string) Style {
	on := sel.Highlights(city)
	if k == KindRow {
		if on {
			return Style{Opacity: 1, Background: RowHighlight, Bold: true}
		}
		return Style{Opacity: 1, Background: RowBackground}
	}

	st := Style{Opacity: baseOpacity(k), RadiusScale: 1}
	switch {
	case on:
		st.Opacity = 1
		st.Stroke = HighlightStroke
		st.StrokeWidth = HighlightStrokeWidth
		if k == KindBubble {
			st.RadiusScale = HighlightGrow
		}
	case sel.Active:
		st.Opacity = dimOpacity(k)
	}
	return st
}

func baseOpacity(k Kind) float64 {
	if k == KindBar {
		return 1
	}
	return 0.7
}

func dimOpacity(k Kind) float64 {
	if k == KindBar {
		return 0.3
	}
	return 0.15
}
