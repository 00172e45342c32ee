package selection

import (
	"reflect"
	"testing"

	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/observability"
)

func TestRoundTrip(t *testing.T) {
	m := New()
	if _, ok := m.Current(); ok {
		t.Fatal("new model has a selection")
	}

	if err := m.SetHighlighted("Lagos"); err != nil {
		t.Fatal(err)
	}
	if city, ok := m.Current(); !ok || city != "Lagos" {
		t.Errorf("Current() = %q, %v, want Lagos, true", city, ok)
	}

	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Current(); ok {
		t.Error("Current() after Clear() still active")
	}
}

func TestListenersInOrder(t *testing.T) {
	m := New()
	var got []string
	m.Subscribe(func(s Selection) { got = append(got, "a:"+s.City) })
	m.Subscribe(func(s Selection) { got = append(got, "b:"+s.City) })

	_ = m.SetHighlighted("Tokyo")
	_ = m.SetHighlighted("Tokyo")
	_ = m.Clear()

	want := []string{"a:Tokyo", "b:Tokyo", "a:Tokyo", "b:Tokyo", "a:", "b:"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("notifications = %v, want %v", got, want)
	}
}

func TestValueStoredBeforeNotify(t *testing.T) {
	m := New()
	var seen string
	m.Subscribe(func(Selection) { seen, _ = m.Current() })
	_ = m.SetHighlighted("Paris")
	if seen != "Paris" {
		t.Errorf("listener saw %q, want Paris", seen)
	}
}

func TestUnsubscribe(t *testing.T) {
	m := New()
	calls := 0
	unsub := m.Subscribe(func(Selection) { calls++ })
	_ = m.SetHighlighted("A")
	unsub()
	unsub()
	_ = m.SetHighlighted("B")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	m := New()
	var order []string
	var unsubB func()
	m.Subscribe(func(Selection) {
		order = append(order, "a")
		unsubB()
	})
	unsubB = m.Subscribe(func(Selection) { order = append(order, "b") })

	_ = m.SetHighlighted("X")
	_ = m.SetHighlighted("Y")

	want := []string{"a", "b", "a"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestNestedWriteLastWins(t *testing.T) {
	m := New()
	m.Subscribe(func(s Selection) {
		if s.City == "A" {
			_ = m.SetHighlighted("B")
		}
	})
	if err := m.SetHighlighted("A"); err != nil {
		t.Fatal(err)
	}
	if city, _ := m.Current(); city != "B" {
		t.Errorf("Current() = %q, want B", city)
	}
}

func TestReentrantLoop(t *testing.T) {
	m := New(WithMaxDepth(4))
	calls := 0
	m.Subscribe(func(s Selection) {
		calls++
		_ = m.SetHighlighted(s.City + "x")
	})

	err := m.SetHighlighted("A")
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Fatalf("SetHighlighted() error = %v, want %s", err, errors.ErrCodeInternal)
	}
	if calls != 4 {
		t.Errorf("listener calls = %d, want 4", calls)
	}
}

func TestOverflowResets(t *testing.T) {
	m := New(WithMaxDepth(2))
	loop := true
	m.Subscribe(func(Selection) {
		if loop {
			_ = m.Clear()
		}
	})
	if err := m.SetHighlighted("A"); err == nil {
		t.Fatal("expected overflow error")
	}
	loop = false
	if err := m.SetHighlighted("A"); err != nil {
		t.Errorf("SetHighlighted() after overflow error = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopDashboardHooks
	transitions []string
}

func (r *recordingHooks) OnSelection(prev, next string, active bool) {
	r.transitions = append(r.transitions, prev+">"+next)
}

func TestSelectionHook(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetDashboardHooks(hooks)
	defer observability.Reset()

	m := New()
	_ = m.SetHighlighted("Lagos")
	_ = m.Clear()

	want := []string{">Lagos", "Lagos>"}
	if !reflect.DeepEqual(hooks.transitions, want) {
		t.Errorf("transitions = %v, want %v", hooks.transitions, want)
	}
}

func TestHighlights(t *testing.T) {
	tests := []struct {
		sel  Selection
		city string
		want bool
	}{
		{Selection{City: "A", Active: true}, "A", true},
		{Selection{City: "A", Active: true}, "B", false},
		{Selection{}, "", false},
	}
	for _, tt := range tests {
		if got := tt.sel.Highlights(tt.city); got != tt.want {
			t.Errorf("%+v.Highlights(%q) = %v, want %v", tt.sel, tt.city, got, tt.want)
		}
	}
}
