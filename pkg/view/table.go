package view

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/citylink/pkg/filter"
	"github.com/matzehuels/citylink/pkg/record"
	"github.com/matzehuels/citylink/pkg/selection"
)

// TableColumns are the table headers.
var TableColumns = []string{"City", "Country", "Continent", "Population (2024)", "Growth Rate (%)"}

// TableView renders the visible page of a filter state.
type TableView struct{}

// Table returns the current page under sel.
func (TableView) Table(state *filter.State, sel selection.Selection) Table {
	visible := state.VisibleRecords()
	rows := make([]Row, len(visible))
	for i, r := range visible {
		rows[i] = Row{
			City:  r.City,
			Index: r.Index,
			Cells: Cells(r),
			Style: StyleFor(KindRow, sel, r.City),
		}
	}
	return Table{
		Columns:   TableColumns,
		Rows:      rows,
		Query:     state.Query(),
		Matches:   state.Matches(),
		Page:      state.Page(),
		PageCount: state.PageCount(),
		Label:     PageLabel(state.Page(), state.PageCount()),
	}
}

// Cells formats a record as table cells.
func Cells(r record.Record) []string {
	return []string{
		r.City,
		r.Country,
		r.Continent,
		FormatPopulation(r.Population2024),
		strconv.FormatFloat(r.GrowthPercent, 'f', 2, 64),
	}
}

// FormatPopulation formats a population with thousands separators.
func FormatPopulation(p float64) string {
	return humanize.Commaf(p)
}

// PageLabel returns the pagination caption.
func PageLabel(page, count int) string {
	return fmt.Sprintf("Page %d of %d", page, count)
}
