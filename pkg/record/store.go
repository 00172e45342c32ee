package record

import (
	"github.com/aclements/go-moremath/stats"
)

// Store is an ordered, immutable dataset.
type Store struct {
	records []Record
	byCity  map[string][]int
}

// Load parses raw rows into a store. The first malformed row aborts the
// load with a *MalformedRecordError.
func Load(rows []RawRow) (*Store, error) {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		r, err := parseRow(i, row)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return New(records)
}

// New validates typed records and builds a store from a copy of them.
// Index is reassigned from the slice position.
func New(records []Record) (*Store, error) {
	s := &Store{
		records: make([]Record, len(records)),
		byCity:  make(map[string][]int, len(records)),
	}
	for i, r := range records {
		r.Index = i
		if err := validate(i, r); err != nil {
			return nil, err
		}
		s.records[i] = r
		s.byCity[r.City] = append(s.byCity[r.City], i)
	}
	return s, nil
}

// All returns the records in dataset order. Callers must not modify the
// returned slice.
func (s *Store) All() []Record { return s.records }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// At returns the record at position i.
func (s *Store) At(i int) Record { return s.records[i] }

// ByCity returns every record whose city equals city, in dataset order.
func (s *Store) ByCity(city string) []Record {
	idx := s.byCity[city]
	out := make([]Record, len(idx))
	for i, j := range idx {
		out[i] = s.records[j]
	}
	return out
}

// Has reports whether any record has the given city.
func (s *Store) Has(city string) bool {
	return len(s.byCity[city]) > 0
}

// Values returns the column of f in dataset order.
func (s *Store) Values(f Field) []float64 {
	xs := make([]float64, len(s.records))
	for i, r := range s.records {
		xs[i] = r.Value(f)
	}
	return xs
}

// MaxOf returns the largest value of f, or 0 for an empty store.
func (s *Store) MaxOf(f Field) float64 {
	_, hi := s.ExtentOf(f)
	return hi
}

// ExtentOf returns the minimum and maximum of f, or (0, 0) for an empty
// store.
func (s *Store) ExtentOf(f Field) (min, max float64) {
	if len(s.records) == 0 {
		return 0, 0
	}
	return stats.Bounds(s.Values(f))
}

// DistinctValuesOf returns the distinct values of c in first-seen order.
func (s *Store) DistinctValuesOf(c Category) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.records {
		v := r.Label(c)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// DuplicateCities returns the city names that appear more than once, in
// first-seen order.
func (s *Store) DuplicateCities() []string {
	var out []string
	for _, r := range s.records {
		idx := s.byCity[r.City]
		if len(idx) > 1 && idx[0] == r.Index {
			out = append(out, r.City)
		}
	}
	return out
}
