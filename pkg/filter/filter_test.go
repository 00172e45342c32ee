package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/citylink/pkg/record"
)

func newStore(t *testing.T, cities ...string) *record.Store {
	t.Helper()
	rs := make([]record.Record, len(cities))
	for i, c := range cities {
		rs[i] = record.Record{City: c}
	}
	s, err := record.New(rs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func cities(rs []record.Record) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.City
	}
	return strings.Join(names, ",")
}

func TestDefaultPageSize(t *testing.T) {
	s := New(newStore(t, "A"), 0)
	if s.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", s.PageSize(), DefaultPageSize)
	}
}

func TestPagination(t *testing.T) {
	s := New(newStore(t, "Lagos", "Lima", "London", "Luanda", "Paris"), 2)

	if s.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", s.PageCount())
	}
	if got := cities(s.VisibleRecords()); got != "Lagos,Lima" {
		t.Errorf("page 1 = %s", got)
	}

	if s.PrevPage() {
		t.Error("PrevPage() on page 1 moved")
	}
	s.NextPage()
	s.NextPage()
	if got := cities(s.VisibleRecords()); got != "Paris" {
		t.Errorf("page 3 = %s, want Paris", got)
	}
	if s.NextPage() {
		t.Error("NextPage() on last page moved")
	}
	if s.Page() != 3 {
		t.Errorf("Page() = %d, want 3", s.Page())
	}

	s.SetQuery("par")
	if s.Page() != 1 || s.PageCount() != 1 {
		t.Errorf("after narrowing Page() = %d, PageCount() = %d, want 1, 1", s.Page(), s.PageCount())
	}
	if got := cities(s.VisibleRecords()); got != "Paris" {
		t.Errorf("visible = %s, want Paris", got)
	}
}

func TestSetQuery(t *testing.T) {
	s := New(newStore(t, "Lagos", "Tokyo", "Lahore", "São Paulo", "lAGOS"), 50)

	tests := []struct {
		query string
		want  string
	}{
		{"", "Lagos,Tokyo,Lahore,São Paulo,lAGOS"},
		{"la", "Lagos,Lahore,lAGOS"},
		{"LAG", "Lagos,lAGOS"},
		{"são", "São Paulo"},
		{"zzz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s.SetQuery(tt.query)
			if got := cities(s.Filtered()); got != tt.want {
				t.Errorf("Filtered() = %s, want %s", got, tt.want)
			}
			if s.Page() != 1 {
				t.Errorf("Page() = %d, want 1", s.Page())
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		city, query string
		want        bool
	}{
		{"São Paulo", "", true},
		{"São Paulo", "paulo", true},
		{"São Paulo", "SÃO", true},
		{"Lagos", "lima", false},
		{"Lima", "lima ", false},
	}
	for _, tt := range tests {
		if got := Match(tt.city, tt.query); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.city, tt.query, got, tt.want)
		}
	}
}

func TestEmptyResult(t *testing.T) {
	s := New(newStore(t, "A", "B"), 1)
	s.SetQuery("nothing")
	if s.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", s.PageCount())
	}
	if len(s.VisibleRecords()) != 0 {
		t.Errorf("VisibleRecords() = %v, want empty", s.VisibleRecords())
	}
	if s.NextPage() || s.PrevPage() {
		t.Error("paging moved on empty result")
	}
}

func TestSetPageClamps(t *testing.T) {
	s := New(newStore(t, "A", "B", "C"), 1)
	for _, tt := range []struct{ in, want int }{{0, 1}, {-4, 1}, {2, 2}, {99, 3}} {
		s.SetPage(tt.in)
		if s.Page() != tt.want {
			t.Errorf("SetPage(%d) -> Page() = %d, want %d", tt.in, s.Page(), tt.want)
		}
	}
}

func TestPageInvariant(t *testing.T) {
	names := make([]string, 23)
	for i := range names {
		names[i] = fmt.Sprintf("City%02d", i)
	}
	s := New(newStore(t, names...), 5)

	for _, q := range []string{"", "1", "city0", "2", "x", ""} {
		s.SetQuery(q)
		for i := 0; i < 7; i++ {
			s.NextPage()
			if s.Page() < 1 || s.Page() > s.PageCount() {
				t.Fatalf("query %q: Page() = %d outside [1, %d]", q, s.Page(), s.PageCount())
			}
			for _, r := range s.VisibleRecords() {
				if !Match(r.City, q) || !s.Contains(r.Index) {
					t.Fatalf("query %q: visible %s does not match", q, r.City)
				}
			}
		}
	}
}
