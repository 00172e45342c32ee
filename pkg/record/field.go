package record

import (
	"strings"

	"github.com/matzehuels/citylink/pkg/errors"
)

// Field identifies a numeric record field. The zero Field is unset.
type Field int

const (
	Population2024 Field = iota + 1
	Population2023
	GrowthAbsolute
	GrowthPercent
	Latitude
	Longitude
)

// Fields lists every numeric field in column order.
var Fields = []Field{Population2024, Population2023, GrowthAbsolute, GrowthPercent, Latitude, Longitude}

var fieldInfo = [...]struct {
	name   string
	column string
}{
	Population2024: {"pop2024", "Population (2024)"},
	Population2023: {"pop2023", "Population (2023)"},
	GrowthAbsolute: {"growth", "Growth Rate"},
	GrowthPercent:  {"growthPct", "Growth Rate (%)"},
	Latitude:       {"lat", "Latitude"},
	Longitude:      {"lon", "Longitude"},
}

func (f Field) valid() bool { return f > 0 && int(f) < len(fieldInfo) }

// String returns the short field name used in flags and query parameters.
func (f Field) String() string {
	if !f.valid() {
		return "unknown"
	}
	return fieldInfo[f].name
}

// Column returns the external column name of the field.
func (f Field) Column() string {
	if !f.valid() {
		return ""
	}
	return fieldInfo[f].column
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(b []byte) error {
	v, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseField resolves a field by short name or column name, ignoring case.
func ParseField(name string) (Field, error) {
	n := strings.TrimSpace(name)
	for _, f := range Fields {
		if strings.EqualFold(n, fieldInfo[f].name) || strings.EqualFold(n, fieldInfo[f].column) {
			return f, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidField, "unknown field: %q", name)
}

// Value returns the value of f in r.
func (r Record) Value(f Field) float64 {
	switch f {
	case Population2024:
		return r.Population2024
	case Population2023:
		return r.Population2023
	case GrowthAbsolute:
		return r.GrowthAbsolute
	case GrowthPercent:
		return r.GrowthPercent
	case Latitude:
		return r.Latitude
	case Longitude:
		return r.Longitude
	}
	return 0
}

// Category identifies a string record field.
type Category int

const (
	City Category = iota
	Country
	Continent
)

// String returns the column name of the category.
func (c Category) String() string {
	switch c {
	case City:
		return "City"
	case Country:
		return "Country"
	case Continent:
		return "Continent"
	}
	return "unknown"
}

// Label returns the value of c in r.
func (r Record) Label(c Category) string {
	switch c {
	case City:
		return r.City
	case Country:
		return r.Country
	case Continent:
		return r.Continent
	}
	return ""
}
