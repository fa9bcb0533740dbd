package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/component"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
)

func TestStats_CountsDispatchedEvents(t *testing.T) {
	f := newFixture(t)
	f.box(component.Wall, 100, 0, 10, 200, inf)
	f.box(component.EnemyBullet, 103, 0, 5, 5, 0.001)

	stats := NewStatsSystem(f.state, f.bus, 1, f.log)
	r := coresys.NewRunner()
	r.Register(NewBarrierSystem(f.state, f.bus, f.log))
	r.Register(NewMovementSystem(f.state))
	r.Register(f.collisions(true))
	r.Register(f.resolution())
	r.Register(NewEventDispatchSystem(f.bus))
	r.Register(stats)

	require.NoError(t, r.Tick(tick))
	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Ticks)
	assert.Equal(t, 1, snap.Collisions)
	assert.Equal(t, 1, snap.Reactions["delete"])
	assert.Equal(t, 1, snap.Destroyed["enemy_bullet"])

	snap.Reactions["delete"] = 99
	assert.Equal(t, 1, stats.Snapshot().Reactions["delete"], "snapshot is a copy")

	require.NoError(t, r.Tick(tick))
	assert.Equal(t, 2, stats.Snapshot().Ticks)
	assert.Equal(t, 1, stats.Snapshot().Collisions)
}

func TestBarrier_EmitsSpawned(t *testing.T) {
	f := newFixture(t)
	stats := NewStatsSystem(f.state, f.bus, 0, f.log)
	f.state.QueueSpawn(wallSpawn())

	require.NoError(t, NewBarrierSystem(f.state, f.bus, f.log).Update(tick))
	require.NoError(t, NewEventDispatchSystem(f.bus).Update(tick))
	assert.Equal(t, 1, stats.Snapshot().Spawned)
	assert.Equal(t, 1, f.state.Kinematics.Len())
}
