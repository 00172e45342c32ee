package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
)

var categories = []record.Category{record.City, record.Country, record.Continent}

// Columns returns the exported column names in order.
func Columns() []string {
	cols := make([]string, 0, len(categories)+len(record.Fields))
	for _, c := range categories {
		cols = append(cols, c.String())
	}
	for _, f := range record.Fields {
		cols = append(cols, f.Column())
	}
	return cols
}

// WriteJSON encodes the records of s as a JSON array of rows and writes it
// to w. The output can be re-imported with [ReadJSON].
func WriteJSON(s *record.Store, w io.Writer) error {
	rows := make([]map[string]any, s.Len())
	for i, r := range s.All() {
		row := make(map[string]any, len(categories)+len(record.Fields))
		for _, c := range categories {
			row[c.String()] = r.Label(c)
		}
		for _, f := range record.Fields {
			row[f.Column()] = r.Value(f)
		}
		rows[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV writes the records of s as CSV with a header row.
func WriteCSV(s *record.Store, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range s.All() {
		line := make([]string, 0, len(categories)+len(record.Fields))
		for _, c := range categories {
			line = append(line, r.Label(c))
		}
		for _, f := range record.Fields {
			line = append(line, strconv.FormatFloat(r.Value(f), 'f', -1, 64))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes s to path, choosing the format from the extension
// (.json or .csv).
func Export(s *record.Store, path string) error {
	var write func(*record.Store, io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = WriteJSON
	case ".csv":
		write = WriteCSV
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported export format: %q (must be .json or .csv)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
