// Package ingest reads city datasets into raw rows for [record.Load].
//
// Every reader produces []record.RawRow keyed by the external column names
// (City, Population (2024), Growth Rate (%), ...). Values are kept as strings;
// numeric coercion and validation happen in the record package.
//
// Supported sources:
//
//	cities.csv                       CSV with a header row
//	cities.json                      JSON array of objects
//	cities.json#$.data[*]            JSON with a JSONPath row selector
//	cities.db, cities.sqlite         SQLite, table "cities"
//	sqlite://path/to.db?table=name   SQLite with an explicit table
//	mongodb://host:27017/db/coll     MongoDB collection
package ingest

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/observability"
	"github.com/matzehuels/citylink/pkg/record"
)

// Defaults for sources that do not name a table, collection or selector.
const (
	DefaultTable    = "cities"
	DefaultSelector = "$[*]"
)

// Open reads the rows of source, dispatching on its scheme or extension.
func Open(ctx context.Context, source string) ([]record.RawRow, error) {
	if err := errors.ValidateSourceURI(source); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(source, "sqlite://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse %s", source)
		}
		table := u.Query().Get("table")
		if table == "" {
			table = DefaultTable
		}
		return ReadSQLite(ctx, u.Host+u.Path, table)

	case strings.HasPrefix(source, "mongodb://"), strings.HasPrefix(source, "mongodb+srv://"):
		uri, db, coll, err := splitMongoURI(source)
		if err != nil {
			return nil, err
		}
		return ReadMongo(ctx, uri, db, coll)
	}

	path, selector, _ := strings.Cut(source, "#")
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".json", ".db", ".sqlite", ".sqlite3":
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported source type %q (use .csv, .json, .db, sqlite:// or mongodb://)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", path)
	}
	defer f.Close()

	switch ext {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		if selector == "" {
			selector = DefaultSelector
		}
		return ReadJSON(f, selector)
	default:
		return ReadSQLite(ctx, path, DefaultTable)
	}
}

// Load reads source and builds a record store from it.
func Load(ctx context.Context, source string) (*record.Store, error) {
	start := time.Now()
	rows, err := Open(ctx, source)
	if err != nil {
		observability.Dashboard().OnLoad(ctx, source, 0, time.Since(start), err)
		return nil, err
	}
	store, err := record.Load(rows)
	observability.Dashboard().OnLoad(ctx, source, len(rows), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// splitMongoURI separates "mongodb://host/db/collection" into a client URI
// and the database and collection names.
func splitMongoURI(source string) (uri, db, coll string, err error) {
	u, perr := url.Parse(source)
	if perr != nil {
		return "", "", "", errors.Wrap(errors.ErrCodeInvalidSource, perr, "parse mongodb uri")
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch len(parts) {
	case 1:
		db, coll = parts[0], DefaultTable
	case 2:
		db, coll = parts[0], parts[1]
	default:
		return "", "", "", errors.New(errors.ErrCodeInvalidSource, "mongodb source must be mongodb://host/db[/collection]")
	}
	if db == "" {
		return "", "", "", errors.New(errors.ErrCodeInvalidSource, "mongodb source is missing a database name")
	}
	u.Path = "/"
	return u.String(), db, coll, nil
}
