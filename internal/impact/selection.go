package impact

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ErrConflictingSize is returned by Add when id is already selected at a
// different size.
var ErrConflictingSize = errors.New("listed twice with different sizes")

// Entry is the chosen quantity and optional size for one device type.
type Entry struct {
	Quantity int     `json:"quantity"`
	Size     float64 `json:"size,omitempty"`
	HasSize  bool    `json:"-"`
}

// Selection maps device ids to entries for one session. Entries exist only
// while their quantity is positive. The zero value is an empty selection;
// a Selection is not safe for concurrent mutation.
type Selection struct {
	entries map[string]Entry
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{entries: make(map[string]Entry)}
}

// SetQuantity sets the quantity for id, keeping any chosen size. A quantity
// of zero or less removes the entry.
func (s *Selection) SetQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.Remove(id)
		return
	}
	s.ensure()
	e := s.entries[id]
	e.Quantity = quantity
	s.entries[id] = e
}

// Set replaces the entry for id. Entries with a non-positive quantity are removed.
func (s *Selection) Set(id string, e Entry) {
	if e.Quantity <= 0 {
		s.Remove(id)
		return
	}
	s.ensure()
	s.entries[id] = e
}

// Add merges e into the entry for id. Quantities add up and saturate at
// math.MaxInt; a non-positive quantity leaves the selection unchanged. An
// existing entry must carry the same size as e.
func (s *Selection) Add(id string, e Entry) error {
	if e.Quantity <= 0 {
		return nil
	}
	if existing, ok := s.Get(id); ok {
		if existing.HasSize != e.HasSize || existing.Size != e.Size {
			return fmt.Errorf("%s: %w", id, ErrConflictingSize)
		}
		e.Quantity = addQuantity(existing.Quantity, e.Quantity)
	}
	s.Set(id, e)
	return nil
}

// Increment adds one unit of id and returns the new quantity.
func (s *Selection) Increment(id string) int {
	q := addQuantity(s.Quantity(id), 1)
	s.SetQuantity(id, q)
	return q
}

// Decrement removes one unit of id, dropping the entry at zero, and returns
// the new quantity.
func (s *Selection) Decrement(id string) int {
	q := max(0, s.Quantity(id)-1)
	s.SetQuantity(id, q)
	return q
}

// SetSize records the chosen size for a selected id. It reports false when
// id is not selected; sizes are never stored for absent entries.
func (s *Selection) SetSize(id string, size float64) bool {
	e, ok := s.Get(id)
	if !ok {
		return false
	}
	e.Size = size
	e.HasSize = true
	s.entries[id] = e
	return true
}

// ClearSize forgets the size of id so it counts at its reference size.
func (s *Selection) ClearSize(id string) {
	e, ok := s.Get(id)
	if !ok {
		return
	}
	e.Size = 0
	e.HasSize = false
	s.entries[id] = e
}

// Remove deletes the entry for id.
func (s *Selection) Remove(id string) {
	if s == nil || s.entries == nil {
		return
	}
	delete(s.entries, id)
}

// Reset clears every entry.
func (s *Selection) Reset() {
	if s == nil {
		return
	}
	clear(s.entries)
}

// Get returns the entry for id.
func (s *Selection) Get(id string) (Entry, bool) {
	if s == nil || s.entries == nil {
		return Entry{}, false
	}
	e, ok := s.entries[id]
	return e, ok
}

// Quantity returns the selected quantity of id, zero when absent.
func (s *Selection) Quantity(id string) int {
	e, _ := s.Get(id)
	return e.Quantity
}

// Len returns the number of selected device types.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IDs returns the selected device ids in sorted order.
func (s *Selection) IDs() []string {
	if s == nil {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s.entries))
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	out := NewSelection()
	if s != nil {
		maps.Copy(out.entries, s.entries)
	}
	return out
}

// addQuantity sums two non-negative quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (s *Selection) ensure() {
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
}
