package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityType = reflect.TypeFor[Entity]()

// View reads entities through a struct of component pointers.
//
// Every pointer field of T names a component type. Embedded pointer fields are
// always required; named fields may be marked `ecs:"optional"` and are left
// nil when absent. A field of type Entity receives the entity handle.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	offsets     []uintptr
	entityField int
}

// NewView builds a view over storage for the struct type T.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	v := &View[T]{storage: storage, entityField: -1}
	for i := range structType.NumField() {
		field := structType.Field(i)

		if field.Type == entityType {
			v.entityField = int(field.Offset)
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("ecs: View field " + field.Name + " must be a component pointer or an ecs.Entity")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if tag != "optional" || field.Anonymous {
				panic("ecs: invalid ecs tag \"" + tag + "\" on field " + field.Name)
			}
			optional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, optional)
		v.offsets = append(v.offsets, field.Offset)
	}
	return v
}

// matches reports whether archetype carries every required component.
func (v *View[T]) matches(archetype *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !archetype.HasComponent(t) {
			return false
		}
	}
	return true
}

// columns maps each view field to its archetype column, -1 when absent.
func (v *View[T]) columns(archetype *Archetype) []int {
	cols := make([]int, len(v.types))
	for i, t := range v.types {
		cols[i] = archetype.columnIndex(t)
	}
	return cols
}

func (v *View[T]) fill(dst *T, archetype *Archetype, cols []int, row int, e Entity) {
	base := unsafe.Pointer(dst)
	if v.entityField >= 0 {
		*(*Entity)(unsafe.Add(base, v.entityField)) = e
	}
	for i, col := range cols {
		field := (*unsafe.Pointer)(unsafe.Add(base, v.offsets[i]))
		if col < 0 {
			*field = nil
			continue
		}
		*field = archetype.componentPointer(col, row)
	}
}

// Get returns the view struct for e, or nil if e is dead or lacks a required
// component.
func (v *View[T]) Get(e Entity) *T {
	loc, ok := v.storage.locations.Get(e)
	if !ok || !v.matches(loc.archetype) {
		return nil
	}
	var result T
	v.fill(&result, loc.archetype, v.columns(loc.archetype), loc.row, e)
	return &result
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(Entity, T) bool) bool {
	cols := v.columns(archetype)
	var result T
	for row, e := range archetype.rows() {
		v.fill(&result, archetype, cols, row, e)
		if !yield(e, result) {
			return false
		}
	}
	return true
}

// Iter yields every matching entity with its populated view struct, in
// archetype creation order and then row order.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for _, archetype := range v.storage.order {
			if !v.matches(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

// Values yields only the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
