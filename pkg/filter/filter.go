// Package filter implements the search and pagination state of the table
// view.
//
// The filtered subset is kept as a bitmap of row indices into the store, so
// it is always a derived view of the dataset in dataset order. Page is
// 1-based and always within [1, PageCount].
package filter

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/matzehuels/citylink/pkg/observability"
	"github.com/matzehuels/citylink/pkg/record"
)

// DefaultPageSize is the number of table rows per page.
const DefaultPageSize = 50

// State is the query and page of one table view.
type State struct {
	store    *record.Store
	pageSize int
	query    string
	page     int
	matches  *roaring.Bitmap
}

// New returns a state showing every record on page 1. A pageSize below 1
// uses DefaultPageSize.
func New(store *record.Store, pageSize int) *State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	s := &State{store: store, pageSize: pageSize, page: 1}
	s.recompute()
	return s
}

// SetQuery replaces the search text and resets to page 1.
func (s *State) SetQuery(q string) {
	s.query = q
	s.page = 1
	s.recompute()
	observability.Dashboard().OnQuery(q, s.Matches())
}

// NextPage advances one page. It is a no-op on the last page.
func (s *State) NextPage() bool {
	if s.page >= s.PageCount() {
		return false
	}
	s.page++
	return true
}

// PrevPage goes back one page. It is a no-op on page 1.
func (s *State) PrevPage() bool {
	if s.page <= 1 {
		return false
	}
	s.page--
	return true
}

// SetPage jumps to page n, clamped to [1, PageCount].
func (s *State) SetPage(n int) {
	s.page = min(max(n, 1), s.PageCount())
}

// Query returns the current search text.
func (s *State) Query() string { return s.query }

// Page returns the current 1-based page.
func (s *State) Page() int { return s.page }

// PageSize returns the number of rows per page.
func (s *State) PageSize() int { return s.pageSize }

// Matches returns the number of records matching the query.
func (s *State) Matches() int { return int(s.matches.GetCardinality()) }

// PageCount returns the number of pages, at least 1.
func (s *State) PageCount() int {
	return max(1, (s.Matches()+s.pageSize-1)/s.pageSize)
}

// Filtered returns every matching record in dataset order.
func (s *State) Filtered() []record.Record {
	out := make([]record.Record, 0, s.Matches())
	it := s.matches.Iterator()
	for it.HasNext() {
		out = append(out, s.store.At(int(it.Next())))
	}
	return out
}

// VisibleRecords returns the matching records on the current page.
func (s *State) VisibleRecords() []record.Record {
	lo := (s.page - 1) * s.pageSize
	hi := min(lo+s.pageSize, s.Matches())
	if lo >= hi {
		return nil
	}
	out := make([]record.Record, 0, hi-lo)
	for i := lo; i < hi; i++ {
		idx, err := s.matches.Select(uint32(i))
		if err != nil {
			break
		}
		out = append(out, s.store.At(int(idx)))
	}
	return out
}

// Contains reports whether the record at row index i matches the query.
func (s *State) Contains(i int) bool {
	return i >= 0 && s.matches.Contains(uint32(i))
}

func (s *State) recompute() {
	s.matches = roaring.New()
	for i, r := range s.store.All() {
		if Match(r.City, s.query) {
			s.matches.Add(uint32(i))
		}
	}
	s.page = min(max(s.page, 1), s.PageCount())
}

// Match reports whether city matches query under the table's rules.
func Match(city, query string) bool {
	return strings.Contains(strings.ToLower(city), strings.ToLower(query))
}
