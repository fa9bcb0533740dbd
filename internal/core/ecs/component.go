package ecs

import "errors"

// ErrSlotOccupied is returned by Table.Insert when id already has a value.
var ErrSlotOccupied = errors.New("component already present")

// Removable is implemented by all component tables so the Registry can
// bulk-remove an entity's data from every table on destroy.
type Removable interface {
	Remove(id EntityID)
}

type cell[T any] struct {
	value      T
	present    bool
	generation uint32
}

// Table stores one component kind indexed by EntityID.Index with a
// parallel generation check. Tables are siblings: presence in one says
// nothing about presence in another.
//
// Pointers returned by Get stay valid until the table grows, i.e. until a
// Set/Insert for an index past the current length. Systems never grow a
// table they are iterating.
type Table[T any] struct {
	cells []cell[T]
	count int
}

func NewTable[T any](capacity int) *Table[T] {
	return &Table[T]{cells: make([]cell[T], 0, capacity)}
}

func (t *Table[T]) grow(index int) {
	if index < len(t.cells) {
		return
	}
	if index < cap(t.cells) {
		t.cells = t.cells[:index+1]
		return
	}
	next := make([]cell[T], index+1, 2*(index+1))
	copy(next, t.cells)
	t.cells = next
}

// Set stores c for id, replacing any previous value (including one left
// behind by an older generation of the same slot). An id older than the
// value already present is stale and ignored.
func (t *Table[T]) Set(id EntityID, c T) {
	if id.Index < 0 {
		return
	}
	t.grow(id.Index)
	slot := &t.cells[id.Index]
	if slot.present && slot.generation > id.Generation {
		return
	}
	if !slot.present {
		t.count++
	}
	slot.value = c
	slot.present = true
	slot.generation = id.Generation
}

// Insert stores c for id only if id has no live value yet.
func (t *Table[T]) Insert(id EntityID, c T) error {
	if t.Has(id) {
		return ErrSlotOccupied
	}
	t.Set(id, c)
	return nil
}

// Get returns a pointer to id's component. Stale generations and absent
// slots report false.
func (t *Table[T]) Get(id EntityID) (*T, bool) {
	if id.Index < 0 || id.Index >= len(t.cells) {
		return nil, false
	}
	slot := &t.cells[id.Index]
	if !slot.present || slot.generation != id.Generation {
		return nil, false
	}
	return &slot.value, true
}

func (t *Table[T]) Has(id EntityID) bool {
	_, ok := t.Get(id)
	return ok
}

// Remove deletes id's component. Stale or absent ids are ignored.
func (t *Table[T]) Remove(id EntityID) {
	if !t.Has(id) {
		return
	}
	slot := &t.cells[id.Index]
	var zero T
	slot.value = zero
	slot.present = false
	t.count--
}

// Take removes and returns id's component.
func (t *Table[T]) Take(id EntityID) (T, bool) {
	p, ok := t.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	v := *p
	t.Remove(id)
	return v, true
}

func (t *Table[T]) Len() int { return t.count }

// Clear drops every component.
func (t *Table[T]) Clear() {
	clear(t.cells)
	t.cells = t.cells[:0]
	t.count = 0
}

// Each visits present components in ascending slot order.
func (t *Table[T]) Each(fn func(EntityID, *T)) {
	for i := range t.cells {
		slot := &t.cells[i]
		if slot.present {
			fn(EntityID{Index: i, Generation: slot.generation}, &slot.value)
		}
	}
}

// GetPair returns mutable pointers to two different entities' components.
// The pointers come from SplitPair, so they never alias. Either missing
// component reports false.
func (t *Table[T]) GetPair(a, b EntityID) (*T, *T, bool) {
	if a.Index == b.Index || !t.Has(a) || !t.Has(b) {
		return nil, nil, false
	}
	if a.Index < b.Index {
		ca, cb := SplitPair(t.cells, a.Index, b.Index)
		return &ca.value, &cb.value, true
	}
	cb, ca := SplitPair(t.cells, b.Index, a.Index)
	return &ca.value, &cb.value, true
}
