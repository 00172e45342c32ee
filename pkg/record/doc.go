// Package record holds the immutable city dataset shared by every view.
//
// A [Store] is built once from raw rows (external column name to raw string)
// with [Load], or from typed records with [New]. Both validate every row and
// abort on the first problem with a [*MalformedRecordError]; there is no
// partial dataset.
//
// Column names follow the ingestion contract:
//
//	City, Country, Continent, Population (2024), Population (2023),
//	Growth Rate, Growth Rate (%), Latitude, Longitude
//
// The store is read-only after construction and safe to share between
// goroutines. City is the cross-view join key; duplicate city names are kept
// and reported by [Store.DuplicateCities].
package record
