package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
	"unsafe"
)

// Archetype holds every entity that carries exactly one combination of
// component types. Rows are stable: despawning frees a row for reuse but never
// moves another entity.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	columns  []column
	entities []Entity
	free     []int
	count    int
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for idx, typ := range types {
		a.columns[idx] = registry.newColumn(typ)
	}
	return a
}

// insert stores the components of e in a free row and returns the row.
// components must hold one value per archetype type, in any order.
func (a *Archetype) insert(e Entity, components []any) int {
	var row int
	if n := len(a.free); n > 0 {
		row = a.free[n-1]
		a.free = a.free[:n-1]
		a.entities[row] = e
	} else {
		row = len(a.entities)
		a.entities = append(a.entities, e)
	}

	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx < 0 {
			panic("ecs: component " + componentType(comp).String() + " does not belong to archetype")
		}
		a.columns[idx].set(row, comp)
	}
	a.count++
	return row
}

func (a *Archetype) remove(row int) {
	if row < 0 || row >= len(a.entities) || a.entities[row] == 0 {
		return
	}
	for _, col := range a.columns {
		col.clear(row)
	}
	a.entities[row] = 0
	a.free = append(a.free, row)
	a.count--
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

// component returns a pointer (boxed in an any) to the component of type t at
// row, or nil if the archetype has no such column.
func (a *Archetype) component(row int, t reflect.Type) any {
	idx := a.columnIndex(t)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].get(row)
}

// componentPointer is the unboxed form of component used by views.
func (a *Archetype) componentPointer(col int, row int) unsafe.Pointer {
	boxed := a.columns[col].get(row)
	if boxed == nil {
		return nil
	}
	return (*eface)(unsafe.Pointer(&boxed)).data
}

// HasComponent reports whether this archetype stores components of type t.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	return slices.Contains(a.types, t)
}

// ID returns the archetype's hash identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of this archetype.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype.
func (a *Archetype) Len() int {
	return a.count
}

// Name renders the component set, e.g. "{physics.RigidBody spatial.Transform}".
func (a *Archetype) Name() string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, " ") + "}"
}

// rows yields the row and entity of every live entity in insertion order.
func (a *Archetype) rows() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for row, e := range a.entities {
			if e == 0 {
				continue
			}
			if !yield(row, e) {
				return
			}
		}
	}
}

// Entities yields every live entity in this archetype.
func (a *Archetype) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range a.rows() {
			if !yield(e) {
				return
			}
		}
	}
}

// eface is the runtime layout of an empty interface.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
