package ecs

import (
	"fmt"
	"iter"
)

// Row2 is one result of a two-table join.
type Row2[A, B any] struct {
	ID EntityID
	A  *A
	B  *B
}

// Row3 is one result of a three-table join.
type Row3[A, B, C any] struct {
	ID EntityID
	A  *A
	B  *B
	C  *C
}

// Join2 yields every entity present with a matching generation in both
// tables, in ascending slot order. The sequence is lazy and can be ranged
// over any number of times.
func Join2[A, B any](ta *Table[A], tb *Table[B]) iter.Seq[Row2[A, B]] {
	return func(yield func(Row2[A, B]) bool) {
		n := min(len(ta.cells), len(tb.cells))
		for i := 0; i < n; i++ {
			ca, cb := &ta.cells[i], &tb.cells[i]
			if !ca.present || !cb.present || ca.generation != cb.generation {
				continue
			}
			row := Row2[A, B]{
				ID: EntityID{Index: i, Generation: ca.generation},
				A:  &ca.value,
				B:  &cb.value,
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Join3 yields every entity present in all three tables.
func Join3[A, B, C any](ta *Table[A], tb *Table[B], tc *Table[C]) iter.Seq[Row3[A, B, C]] {
	return func(yield func(Row3[A, B, C]) bool) {
		n := min(len(ta.cells), len(tb.cells), len(tc.cells))
		for i := 0; i < n; i++ {
			ca, cb, cc := &ta.cells[i], &tb.cells[i], &tc.cells[i]
			if !ca.present || !cb.present || !cc.present {
				continue
			}
			if ca.generation != cb.generation || ca.generation != cc.generation {
				continue
			}
			row := Row3[A, B, C]{
				ID: EntityID{Index: i, Generation: ca.generation},
				A:  &ca.value,
				B:  &cb.value,
				C:  &cc.value,
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Each2 iterates over entities that have both component A and B.
func Each2[A, B any](ta *Table[A], tb *Table[B], fn func(EntityID, *A, *B)) {
	for row := range Join2(ta, tb) {
		fn(row.ID, row.A, row.B)
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](ta *Table[A], tb *Table[B], tc *Table[C], fn func(EntityID, *A, *B, *C)) {
	for row := range Join3(ta, tb, tc) {
		fn(row.ID, row.A, row.B, row.C)
	}
}

// Collect materializes a sequence into a slice.
func Collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

// SplitPair returns pointers to rows[i] and rows[j] by splitting the slice
// at j, so the two halves (and the two pointers) are disjoint. Requires
// i < j.
func SplitPair[T any](rows []T, i, j int) (*T, *T) {
	if i < 0 || i >= j || j >= len(rows) {
		panic(fmt.Sprintf("ecs: SplitPair(%d, %d) on %d rows", i, j, len(rows)))
	}
	head, tail := rows[:j], rows[j:]
	return &head[i], &tail[0]
}
