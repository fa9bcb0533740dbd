package ecs

// record is what the entity arena stores for each live entity.
type record struct {
	name string
}

type pendingSpawn struct {
	id     EntityID
	attach func(EntityID)
}

// World is the top-level ECS container. It owns the entity arena, the
// component registry, and the spawn/destroy queues that are applied at the
// barrier between ticks.
type World struct {
	entities     *Arena[record]
	registry     *Registry
	spawnQueue   []pendingSpawn
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		entities:     NewArena[record](256),
		registry:     NewRegistry(),
		spawnQueue:   make([]pendingSpawn, 0, 32),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates a bare entity id with no components.
func (w *World) CreateEntity(name string) EntityID {
	return w.entities.Insert(record{name: name})
}

func (w *World) Alive(id EntityID) bool {
	return w.entities.Contains(id)
}

// Name returns the debug name given at creation, or "" for stale ids.
func (w *World) Name(id EntityID) string {
	r, _ := w.entities.Get(id)
	return r.name
}

// Len is the number of live entities, including spawns still pending.
func (w *World) Len() int { return w.entities.Len() }

// Destroy clears id from every table and frees its slot right away.
// Destroying a stale id is a no-op and reports false.
func (w *World) Destroy(id EntityID) bool {
	if !w.entities.Contains(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return w.entities.Remove(id)
}

// QueueSpawn hands out the entity id immediately but defers attach, which
// adds the components, to the next FlushBarrier. Until then the entity is
// in no table.
func (w *World) QueueSpawn(name string, attach func(EntityID)) EntityID {
	id := w.CreateEntity(name)
	w.spawnQueue = append(w.spawnQueue, pendingSpawn{id: id, attach: attach})
	return id
}

// MarkForDestruction queues an entity for destruction at the next barrier.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending reports the number of queued spawns and destroys.
func (w *World) Pending() (spawns, destroys int) {
	return len(w.spawnQueue), len(w.destroyQueue)
}

// FlushBarrier applies queued spawns, then queued destroys. Spawns whose
// id died in the meantime are dropped.
func (w *World) FlushBarrier() (spawned []EntityID, destroyed []EntityID) {
	for _, p := range w.spawnQueue {
		if !w.entities.Contains(p.id) {
			continue
		}
		p.attach(p.id)
		spawned = append(spawned, p.id)
	}
	clear(w.spawnQueue)
	w.spawnQueue = w.spawnQueue[:0]

	for _, id := range w.destroyQueue {
		if w.Destroy(id) {
			destroyed = append(destroyed, id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return spawned, destroyed
}
