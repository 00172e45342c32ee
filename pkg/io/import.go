package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/citylink/pkg/ingest"
	"github.com/matzehuels/citylink/pkg/record"
)

// ReadJSON decodes a JSON export from r into a validated store.
//
// The input must be an array of row objects keyed by column name, as
// written by [WriteJSON]. Unknown keys are ignored and missing numeric
// columns read as 0. A row that fails validation aborts the import with a
// [*record.MalformedRecordError].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*record.Store, error) {
	rows, err := ingest.ReadJSON(r, ingest.DefaultSelector)
	if err != nil {
		return nil, err
	}
	return record.Load(rows)
}

// ImportJSON reads a JSON export at path and returns the decoded store.
func ImportJSON(path string) (*record.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
