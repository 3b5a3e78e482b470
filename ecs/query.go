package ecs

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrNoEntities is returned by Query.Single when nothing matches.
	ErrNoEntities = errors.New("ecs: query matched no entities")
	// ErrMultipleEntities is returned by Query.Single when more than one
	// entity matches.
	ErrMultipleEntities = errors.New("ecs: query matched more than one entity")
)

// Query is a View that caches the list of matching archetypes. The cache is
// rebuilt whenever the storage creates a new archetype.
type Query[T any] struct {
	view       *View[T]
	storage    *Storage
	archetypes []*Archetype
	seen       int
}

// NewQuery creates a query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. Called by the Scheduler during system
// registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.seen = -1
}

func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("ecs: Query used before Init")
	}
	if len(q.storage.order) == q.seen {
		return
	}
	q.archetypes = q.archetypes[:0]
	for _, archetype := range q.storage.order {
		if q.view.matches(archetype) {
			q.archetypes = append(q.archetypes, archetype)
		}
	}
	q.seen = len(q.storage.order)
}

// Iter yields every matching entity and its view struct.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	q.refresh()
	return func(yield func(Entity, T) bool) {
		for _, archetype := range q.archetypes {
			if !q.view.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

// Values yields only the view structs.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	q.refresh()
	n := 0
	for _, archetype := range q.archetypes {
		n += archetype.Len()
	}
	return n
}

// Get returns the view struct for e, or nil.
func (q *Query[T]) Get(e Entity) *T {
	if q.view == nil {
		panic("ecs: Query used before Init")
	}
	return q.view.Get(e)
}

// Single returns the only matching entity. It fails with ErrNoEntities or
// ErrMultipleEntities otherwise.
func (q *Query[T]) Single() (Entity, T, error) {
	var (
		found  Entity
		result T
		count  int
	)
	for e, item := range q.Iter() {
		count++
		if count > 1 {
			break
		}
		found, result = e, item
	}

	switch {
	case count == 0:
		var zero T
		return 0, zero, ErrNoEntities
	case count > 1:
		var zero T
		return 0, zero, fmt.Errorf("%w (at least %d)", ErrMultipleEntities, count)
	}
	return found, result, nil
}
