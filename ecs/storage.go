package ecs

import (
	"errors"
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// ErrNoEntity is returned when an entity handle does not resolve.
var ErrNoEntity = errors.New("ecs: entity does not exist")

// Storage owns all entities, their components and the world resources.
type Storage struct {
	registry   *ComponentRegistry
	archetypes map[uint32]*Archetype
	order      []*Archetype
	locations  *intmap.Map[Entity, location]
	last       Entity
	resources  map[reflect.Type]any
}

// NewStorage creates an empty storage backed by the given registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: make(map[uint32]*Archetype),
		locations:  intmap.New[Entity, location](256),
		resources:  make(map[reflect.Type]any),
	}
}

// Registry returns the component registry this storage was built with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity carrying the given components and returns its
// handle. Components may be passed by value or by pointer; the value is copied.
func (s *Storage) Spawn(components ...any) Entity {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}

	types := componentTypes(components)
	archetype := s.archetypeFor(types)

	s.last++
	e := s.last
	row := archetype.insert(e, components)
	s.locations.Put(e, location{archetype: archetype, row: row})
	return e
}

// Despawn removes the entity and all its components. It reports whether the
// entity existed.
func (s *Storage) Despawn(e Entity) bool {
	loc, ok := s.locations.Get(e)
	if !ok {
		return false
	}
	loc.archetype.remove(loc.row)
	s.locations.Del(e)
	return true
}

// Contains reports whether e is alive.
func (s *Storage) Contains(e Entity) bool {
	_, ok := s.locations.Get(e)
	return ok
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.locations.Len()
}

// Insert adds component to e, replacing any existing component of the same
// type. Adding a new type moves the entity to another archetype; its handle
// does not change.
func (s *Storage) Insert(e Entity, component any) error {
	loc, ok := s.locations.Get(e)
	if !ok {
		return ErrNoEntity
	}

	compType := componentType(component)
	if idx := loc.archetype.columnIndex(compType); idx >= 0 {
		loc.archetype.columns[idx].set(loc.row, component)
		return nil
	}

	old := loc.archetype
	types := make([]reflect.Type, 0, len(old.types)+1)
	types = append(types, old.types...)
	types = append(types, compType)
	sortTypes(types)

	components := make([]any, 0, len(types))
	for _, typ := range old.types {
		components = append(components, old.component(loc.row, typ))
	}
	components = append(components, component)

	target := s.archetypeFor(types)
	row := target.insert(e, components)
	old.remove(loc.row)
	s.locations.Put(e, location{archetype: target, row: row})
	return nil
}

// GetComponent returns a pointer (boxed in an any) to the component of type t
// on e, or nil if e is dead or lacks the component.
func (s *Storage) GetComponent(e Entity, t reflect.Type) any {
	loc, ok := s.locations.Get(e)
	if !ok {
		return nil
	}
	return loc.archetype.component(loc.row, t)
}

// HasComponent reports whether e carries a component of type t.
func (s *Storage) HasComponent(e Entity, t reflect.Type) bool {
	loc, ok := s.locations.Get(e)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(t)
}

// Archetypes yields archetypes in creation order.
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range s.order {
			if !yield(a) {
				return
			}
		}
	}
}

// ArchetypeOf returns the archetype currently holding e.
func (s *Storage) ArchetypeOf(e Entity) *Archetype {
	loc, ok := s.locations.Get(e)
	if !ok {
		return nil
	}
	return loc.archetype
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypes(types)
	archetype, ok := s.archetypes[id]
	if !ok {
		archetype = newArchetype(id, types, s.registry)
		s.archetypes[id] = archetype
		s.order = append(s.order, archetype)
	}
	return archetype
}

// ReadComponent returns e's component of type T, or nil.
func ReadComponent[T any](s *Storage, e Entity) *T {
	comp := s.GetComponent(e, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// componentTypes extracts and sorts component types. Components can be
// structs or named primitives but never pointers to pointers, maps, channels
// or functions.
func componentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("ecs: components cannot be pointers, maps, channels, or functions")
		}
		if slices.Contains(types, t) {
			panic("ecs: duplicate component type " + t.String())
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

func sortTypes(types []reflect.Type) {
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
}

// hashTypes folds the runtime type pointers of a sorted type list with
// FNV-1a.
func hashTypes(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := uintptr((*eface)(unsafe.Pointer(&t)).data)
		h ^= uint32(ptr)
		h *= prime
		if unsafe.Sizeof(ptr) == 8 {
			h ^= uint32(uint64(ptr) >> 32)
			h *= prime
		}
	}
	return h
}
