package ecs

// Entity is a stable handle to a spawned entity. Handles are allocated
// sequentially per Storage and never reused, so a stale handle simply fails
// to resolve after the entity is despawned.
type Entity uint64

// location records where an entity's components currently live.
type location struct {
	archetype *Archetype
	row       int
}

// Valid reports whether the handle was ever issued. The zero Entity is never
// returned by Spawn.
func (e Entity) Valid() bool {
	return e != 0
}
