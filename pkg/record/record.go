package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/citylink/pkg/errors"
)

// RawRow maps an external column name to its raw string value.
type RawRow = map[string]string

// Record is one city row.
type Record struct {
	Index          int     `json:"index"`
	City           string  `json:"city"`
	Country        string  `json:"country"`
	Continent      string  `json:"continent"`
	Population2024 float64 `json:"pop2024"`
	Population2023 float64 `json:"pop2023"`
	GrowthAbsolute float64 `json:"growth"`
	GrowthPercent  float64 `json:"growthPct"`
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lon"`
}

// MalformedRecordError reports a row that failed coercion or validation.
type MalformedRecordError struct {
	Row    int    // zero-based row position
	Field  string // short field name
	Column string // external column name
	Value  string // offending raw value, if any
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d: column %q: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
	}
	return fmt.Sprintf("row %d: column %q: %s", e.Row, e.Column, e.Reason)
}

// Code reports MALFORMED_RECORD so errors.Is and errors.GetCode see it.
func (e *MalformedRecordError) Code() errors.Code { return errors.ErrCodeMalformedRecord }

func fieldError(row int, f Field, value, reason string) *MalformedRecordError {
	return &MalformedRecordError{Row: row, Field: f.String(), Column: f.Column(), Value: value, Reason: reason}
}

// parseRow coerces a raw row. Surrounding whitespace is ignored and an
// empty numeric value coerces to 0.
func parseRow(i int, row RawRow) (Record, error) {
	r := Record{
		Index:     i,
		City:      strings.TrimSpace(row[City.String()]),
		Country:   strings.TrimSpace(row[Country.String()]),
		Continent: strings.TrimSpace(row[Continent.String()]),
	}
	for _, f := range Fields {
		raw := strings.TrimSpace(row[f.Column()])
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, fieldError(i, f, raw, "not a number")
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Record{}, fieldError(i, f, raw, "not a finite number")
		}
		r.set(f, v)
	}
	return r, nil
}

func (r *Record) set(f Field, v float64) {
	switch f {
	case Population2024:
		r.Population2024 = v
	case Population2023:
		r.Population2023 = v
	case GrowthAbsolute:
		r.GrowthAbsolute = v
	case GrowthPercent:
		r.GrowthPercent = v
	case Latitude:
		r.Latitude = v
	case Longitude:
		r.Longitude = v
	}
}

func validate(i int, r Record) error {
	if r.City == "" {
		return &MalformedRecordError{Row: i, Field: "city", Column: City.String(), Reason: "city is empty"}
	}
	for _, f := range Fields {
		v := r.Value(f)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fieldError(i, f, "", "not a finite number")
		}
	}
	if r.Population2024 < 0 {
		return fieldError(i, Population2024, strconv.FormatFloat(r.Population2024, 'f', -1, 64), "negative population")
	}
	if r.Population2023 < 0 {
		return fieldError(i, Population2023, strconv.FormatFloat(r.Population2023, 'f', -1, 64), "negative population")
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fieldError(i, Latitude, strconv.FormatFloat(r.Latitude, 'f', -1, 64), "latitude out of range [-90, 90]")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fieldError(i, Longitude, strconv.FormatFloat(r.Longitude, 'f', -1, 64), "longitude out of range [-180, 180]")
	}
	return nil
}
