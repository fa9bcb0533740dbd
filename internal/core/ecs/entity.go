package ecs

import "fmt"

// EntityID names a slot in an Arena together with the generation it was
// handed out under. Two ids are equal iff both fields match. An id stays
// valid only while its generation matches the slot's current generation.
type EntityID struct {
	Index      int
	Generation uint32
}

// NilEntity never compares valid against any arena.
var NilEntity = EntityID{Index: -1}

func (id EntityID) IsNil() bool { return id.Index < 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%d/%d", id.Index, id.Generation)
}

// slot is either occupied (holds a value) or free (links to the next free
// slot). generation increments on every Occupied -> Free transition.
type slot[T any] struct {
	value      T
	occupied   bool
	nextFree   int
	generation uint32
}

// Arena is a generational arena: reusable-slot storage where stale handles
// are detected by a per-slot generation counter. The free list is threaded
// through the slots and reused LIFO, so the most recently freed slot is
// handed out first.
type Arena[T any] struct {
	slots    []slot[T]
	freeHead int // -1 when empty
	live     int
}

func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots:    make([]slot[T], 0, capacity),
		freeHead: -1,
	}
}

// Insert stores value and returns its id. O(1).
func (a *Arena[T]) Insert(value T) EntityID {
	if a.freeHead >= 0 {
		idx := a.freeHead
		s := &a.slots[idx]
		if s.occupied {
			panic(fmt.Sprintf("ecs: corrupt free list at slot %d", idx))
		}
		a.freeHead = s.nextFree
		s.value = value
		s.occupied = true
		s.nextFree = -1
		a.live++
		return EntityID{Index: idx, Generation: s.generation}
	}
	idx := len(a.slots)
	a.slots = append(a.slots, slot[T]{value: value, occupied: true, nextFree: -1})
	a.live++
	return EntityID{Index: idx, Generation: 0}
}

// Get returns the value for id. A free slot, a generation mismatch or an
// out-of-range index all report false: that is how callers learn the entity
// no longer exists.
func (a *Arena[T]) Get(id EntityID) (T, bool) {
	if p := a.GetMut(id); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer into the arena, or nil if id is stale. The
// pointer is only valid until the next Insert.
func (a *Arena[T]) GetMut(id EntityID) *T {
	if id.Index < 0 || id.Index >= len(a.slots) {
		return nil
	}
	s := &a.slots[id.Index]
	if !s.occupied || s.generation != id.Generation {
		return nil
	}
	return &s.value
}

// Contains reports whether id is live.
func (a *Arena[T]) Contains(id EntityID) bool {
	return a.GetMut(id) != nil
}

// Remove frees id's slot. Removing a stale id is a no-op. O(1).
func (a *Arena[T]) Remove(id EntityID) bool {
	if a.GetMut(id) == nil {
		return false
	}
	s := &a.slots[id.Index]
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	s.nextFree = a.freeHead
	a.freeHead = id.Index
	a.live--
	return true
}

// Len is the number of occupied slots.
func (a *Arena[T]) Len() int { return a.live }

// Cap is the number of slots ever allocated, free or occupied.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Each visits live values in ascending slot order.
func (a *Arena[T]) Each(fn func(EntityID, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			fn(EntityID{Index: i, Generation: s.generation}, &s.value)
		}
	}
}
