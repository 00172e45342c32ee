// Package selection holds the highlighted city shared by all views.
//
// A [Model] stores at most one highlighted city. Every write stores the new
// value and then synchronously calls each listener in subscription order.
// Listeners may write back into the model; such nested writes notify
// immediately, and nesting past the configured depth returns an
// INTERNAL_ERROR instead of recursing further.
//
// Model is not safe for concurrent use. Callers that share one across
// goroutines must serialize access.
package selection

import (
	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/observability"
)

// DefaultMaxDepth bounds nested notification.
const DefaultMaxDepth = 32

// Selection is the current highlight state.
type Selection struct {
	City   string `json:"city,omitempty"`
	Active bool   `json:"active"`
}

// Highlights reports whether city is the highlighted city.
func (s Selection) Highlights(city string) bool {
	return s.Active && s.City == city
}

// Listener is called after every write.
type Listener func(Selection)

type subscriber struct {
	id int
	fn Listener
}

// Model is the selection state machine.
type Model struct {
	current  Selection
	subs     []subscriber
	nextID   int
	depth    int
	maxDepth int
	overflow bool
}

// Option configures a Model.
type Option func(*Model)

// WithMaxDepth sets the maximum nesting of writes made from listeners.
func WithMaxDepth(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxDepth = n
		}
	}
}

// New returns an empty model.
func New(opts ...Option) *Model {
	m := &Model{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the highlighted city and whether one is set.
func (m *Model) Current() (string, bool) {
	return m.current.City, m.current.Active
}

// Selection returns the current state.
func (m *Model) Selection() Selection { return m.current }

// SetHighlighted highlights city and notifies listeners.
func (m *Model) SetHighlighted(city string) error {
	return m.write(Selection{City: city, Active: true})
}

// Clear removes the highlight and notifies listeners.
func (m *Model) Clear() error {
	return m.write(Selection{})
}

// Subscribe registers fn and returns a function that removes it. Removing
// a listener during notification does not affect the round in progress.
func (m *Model) Subscribe(fn Listener) (unsubscribe func()) {
	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Model) write(next Selection) error {
	if m.depth >= m.maxDepth {
		m.overflow = true
		return errors.New(errors.ErrCodeInternal, "selection notification nested deeper than %d", m.maxDepth)
	}
	prev := m.current
	m.current = next
	observability.Dashboard().OnSelection(prev.City, next.City, next.Active)

	m.notify(next)

	if m.depth == 0 && m.overflow {
		m.overflow = false
		return errors.New(errors.ErrCodeInternal, "selection listener loop exceeded depth %d", m.maxDepth)
	}
	return nil
}

func (m *Model) notify(sel Selection) {
	m.depth++
	defer func() { m.depth-- }()
	for _, s := range m.subs {
		s.fn(sel)
	}
}
