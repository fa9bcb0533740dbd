package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pos struct{ x, y float32 }
type vel struct{ dx float32 }
type tag struct{ name string }

func TestTable_SetGetRemove(t *testing.T) {
	tbl := NewTable[pos](0)
	id := EntityID{Index: 4, Generation: 2}

	_, ok := tbl.Get(id)
	require.False(t, ok)

	tbl.Set(id, pos{1, 2})
	p, ok := tbl.Get(id)
	require.True(t, ok)
	require.Equal(t, pos{1, 2}, *p)
	require.Equal(t, 1, tbl.Len())

	// Same slot, other generation.
	_, ok = tbl.Get(EntityID{Index: 4, Generation: 3})
	require.False(t, ok)

	require.ErrorIs(t, tbl.Insert(id, pos{}), ErrSlotOccupied)

	// An older generation cannot clobber the live value.
	tbl.Set(EntityID{Index: 4, Generation: 1}, pos{7, 7})
	p, ok = tbl.Get(id)
	require.True(t, ok)
	require.Equal(t, pos{1, 2}, *p)
	require.Equal(t, 1, tbl.Len())

	p.x = 9
	p2, _ := tbl.Get(id)
	require.Equal(t, float32(9), p2.x)

	tbl.Remove(id)
	tbl.Remove(id)
	require.Equal(t, 0, tbl.Len())
	require.NoError(t, tbl.Insert(id, pos{}))
}

func TestTable_Take(t *testing.T) {
	tbl := NewTable[tag](0)
	id := EntityID{Index: 0}
	tbl.Set(id, tag{"a"})

	v, ok := tbl.Take(id)
	require.True(t, ok)
	require.Equal(t, "a", v.name)
	_, ok = tbl.Take(id)
	require.False(t, ok)
}

func TestJoin2_OnlyIntersection(t *testing.T) {
	a := NewTable[pos](0)
	b := NewTable[vel](0)

	both := EntityID{Index: 1}
	onlyA := EntityID{Index: 0}
	onlyB := EntityID{Index: 3}
	staleB := EntityID{Index: 2, Generation: 1}

	a.Set(both, pos{1, 1})
	b.Set(both, vel{2})
	a.Set(onlyA, pos{})
	b.Set(onlyB, vel{})
	a.Set(EntityID{Index: 2, Generation: 2}, pos{})
	b.Set(staleB, vel{})

	rows := Collect(Join2(a, b))
	require.Len(t, rows, 1)
	require.Equal(t, both, rows[0].ID)
	require.Equal(t, float32(2), rows[0].B.dx)

	// Restartable.
	require.Len(t, Collect(Join2(a, b)), 1)
}

func TestJoin2_MutatesThroughRows(t *testing.T) {
	a := NewTable[pos](0)
	b := NewTable[vel](0)
	for i := 0; i < 3; i++ {
		id := EntityID{Index: i}
		a.Set(id, pos{})
		b.Set(id, vel{float32(i)})
	}

	Each2(a, b, func(_ EntityID, p *pos, v *vel) { p.x += v.dx })

	for i := 0; i < 3; i++ {
		p, _ := a.Get(EntityID{Index: i})
		assert.Equal(t, float32(i), p.x)
	}
}

func TestJoin3_AscendingAndEarlyStop(t *testing.T) {
	a := NewTable[pos](0)
	b := NewTable[vel](0)
	c := NewTable[tag](0)
	for _, i := range []int{5, 1, 3} {
		id := EntityID{Index: i}
		a.Set(id, pos{})
		b.Set(id, vel{})
		c.Set(id, tag{})
	}
	c.Remove(EntityID{Index: 3})

	var idx []int
	Each3(a, b, c, func(id EntityID, _ *pos, _ *vel, _ *tag) { idx = append(idx, id.Index) })
	require.Equal(t, []int{1, 5}, idx)

	count := 0
	for range Join3(a, b, c) {
		count++
		break
	}
	require.Equal(t, 1, count)
}

func TestSplitPair(t *testing.T) {
	rows := []pos{{0, 0}, {1, 1}, {2, 2}}
	p, q := SplitPair(rows, 0, 2)
	p.x, q.x = 10, 20
	require.Equal(t, float32(10), rows[0].x)
	require.Equal(t, float32(20), rows[2].x)

	require.Panics(t, func() { SplitPair(rows, 1, 1) })
	require.Panics(t, func() { SplitPair(rows, 2, 1) })
	require.Panics(t, func() { SplitPair(rows, 0, 3) })
}

func TestWorld_BarrierAndDestroy(t *testing.T) {
	w := NewWorld()
	positions := NewTable[pos](0)
	w.Registry().Register(positions)

	id := w.QueueSpawn("player", func(id EntityID) { positions.Set(id, pos{5, 5}) })
	require.True(t, w.Alive(id))
	require.Equal(t, "player", w.Name(id))
	require.False(t, positions.Has(id), "components attach at the barrier")

	spawned, destroyed := w.FlushBarrier()
	require.Equal(t, []EntityID{id}, spawned)
	require.Empty(t, destroyed)
	require.True(t, positions.Has(id))

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	_, destroyed = w.FlushBarrier()
	require.Equal(t, []EntityID{id}, destroyed)
	require.False(t, w.Alive(id))
	require.False(t, positions.Has(id))
	require.Equal(t, "", w.Name(id))

	require.False(t, w.Destroy(id))
}

func TestWorld_SpawnDroppedIfDestroyedFirst(t *testing.T) {
	w := NewWorld()
	attached := false
	id := w.QueueSpawn("bullet", func(EntityID) { attached = true })
	require.True(t, w.Destroy(id))

	spawned, _ := w.FlushBarrier()
	require.Empty(t, spawned)
	require.False(t, attached)
	s, d := w.Pending()
	require.Zero(t, s)
	require.Zero(t, d)
}

func TestTable_GetPair(t *testing.T) {
	tbl := NewTable[pos](0)
	lo, hi := EntityID{Index: 1}, EntityID{Index: 4}
	tbl.Set(lo, pos{1, 0})
	tbl.Set(hi, pos{4, 0})

	a, b, ok := tbl.GetPair(hi, lo)
	require.True(t, ok)
	require.Equal(t, float32(4), a.x)
	require.Equal(t, float32(1), b.x)
	a.y, b.y = 7, 8
	p, _ := tbl.Get(hi)
	require.Equal(t, float32(7), p.y)

	_, _, ok = tbl.GetPair(lo, lo)
	require.False(t, ok)
	_, _, ok = tbl.GetPair(lo, EntityID{Index: 2})
	require.False(t, ok)
}
