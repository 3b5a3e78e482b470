package ecs

// Commands buffers structural changes made while systems run. The scheduler
// flushes the buffer after the last system of a frame, or after the enter
// handlers of a state transition.
type Commands struct {
	despawns []Entity
	inserts  []insertCommand
	spawns   [][]any
	defers   []func()
}

type insertCommand struct {
	entity    Entity
	component any
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Despawn queues removal of an entity.
func (c *Commands) Despawn(e Entity) {
	c.despawns = append(c.despawns, e)
}

// Insert queues adding (or replacing) a component on an entity.
func (c *Commands) Insert(e Entity, component any) {
	c.inserts = append(c.inserts, insertCommand{entity: e, component: component})
}

// Defer queues fn to run after all structural changes have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.despawns) + len(c.inserts) + len(c.spawns) + len(c.defers)
}

// Flush applies the queued operations to storage in a fixed order (despawn,
// insert, spawn, deferred functions) and resets the buffer. Inserts targeting
// an entity despawned in the same flush are dropped.
func (c *Commands) Flush(storage *Storage) {
	despawned := make(map[Entity]bool, len(c.despawns))
	for _, e := range c.despawns {
		storage.Despawn(e)
		despawned[e] = true
	}

	for _, cmd := range c.inserts {
		if despawned[cmd.entity] {
			continue
		}
		_ = storage.Insert(cmd.entity, cmd.component)
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	// Deferred functions may queue more deferred work through captured
	// Commands; only the current batch runs here.
	defers := c.defers
	c.defers = nil
	for _, fn := range defers {
		fn()
	}

	c.despawns = c.despawns[:0]
	c.inserts = c.inserts[:0]
	c.spawns = c.spawns[:0]
}
