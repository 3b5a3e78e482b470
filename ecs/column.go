package ecs

import "reflect"

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage owns one registry, so independent worlds never share column
// factories.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers T with the registry. Every component type must
// be registered before an entity carrying it is spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has a column factory.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory := r.factories[t]
	if factory == nil {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return factory()
}

// column is type-erased storage for one component type inside an archetype.
// Rows are owned by the archetype; a column only stores values at them.
type column interface {
	set(row int, item any)
	clear(row int)
	get(row int) any
}

const blockSize = 64

// blockColumn stores values in fixed-size blocks so that pointers handed out
// by get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*[blockSize]T
}

func (c *blockColumn[T]) set(row int, item any) {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		panic("ecs: component of type " + reflect.TypeOf(item).String() + " stored in column of " + reflect.TypeFor[T]().String())
	}

	block := row / blockSize
	for block >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
	}
	c.blocks[block][row%blockSize] = value
}

func (c *blockColumn[T]) clear(row int) {
	block := row / blockSize
	if row < 0 || block >= len(c.blocks) {
		return
	}
	var zero T
	c.blocks[block][row%blockSize] = zero
}

func (c *blockColumn[T]) get(row int) any {
	block := row / blockSize
	if row < 0 || block >= len(c.blocks) {
		return nil
	}
	return &c.blocks[block][row%blockSize]
}
