package view

// Circle is a map bubble or scatter point.
type Circle struct {
	City  string  `json:"city"`
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	// BaseR is the radius before highlight; R includes the highlight factor.
	BaseR float64 `json:"base_r"`
	R     float64 `json:"r"`
	Fill  string  `json:"fill"`
	Style
}

// Bar is one ranked bar. Label is the city name drawn on the band axis.
type Bar struct {
	City   string  `json:"city"`
	Index  int     `json:"index"`
	Rank   int     `json:"rank"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Value  float64 `json:"value"`
	Fill   string  `json:"fill"`
	Style
}

// Row is one visible table row.
type Row struct {
	City  string   `json:"city"`
	Index int      `json:"index"`
	Cells []string `json:"cells"`
	Style
}

// Table is the visible page of the table view.
type Table struct {
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"rows"`
	Query     string   `json:"query"`
	Matches   int      `json:"matches"`
	Page      int      `json:"page"`
	PageCount int      `json:"page_count"`
	Label     string   `json:"label"`
}

// Tick is an axis tick in panel coordinates.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}
