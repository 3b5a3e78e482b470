package ecs

import "reflect"

// Resource provides access to a single value of type T that is owned by the
// storage rather than by any entity. Use it for world-wide state such as the
// physics world, input snapshot or diagnostics.
//
// Systems declare Resource fields and the Scheduler binds them on Register.
type Resource[T any] struct {
	storage *Storage
}

// NewResource returns an accessor for T in storage. If T is absent it is
// inserted with the initializer, or the zero value.
func NewResource[T any](storage *Storage, initializer ...T) *Resource[T] {
	if GetResource[T](storage) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		InsertResource(storage, value)
	}
	return &Resource[T]{storage: storage}
}

// Init binds the accessor to storage. Called by the Scheduler during system
// registration.
func (r *Resource[T]) Init(storage *Storage) {
	r.storage = storage
}

// Get returns a pointer to the resource, or nil if it has not been inserted.
func (r *Resource[T]) Get() *T {
	if r.storage == nil {
		return nil
	}
	return GetResource[T](r.storage)
}

// Exists reports whether the resource has been inserted.
func (r *Resource[T]) Exists() bool {
	return r.Get() != nil
}

// InsertResource stores value as the T resource, replacing any previous
// value, and returns a pointer to the stored copy.
func InsertResource[T any](storage *Storage, value T) *T {
	ptr := new(T)
	*ptr = value
	storage.resources[reflect.TypeFor[T]()] = ptr
	return ptr
}

// GetResource returns the T resource or nil.
func GetResource[T any](storage *Storage) *T {
	ptr, ok := storage.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return ptr.(*T)
}

// RemoveResource deletes the T resource. It reports whether it was present.
func RemoveResource[T any](storage *Storage) bool {
	t := reflect.TypeFor[T]()
	if _, ok := storage.resources[t]; !ok {
		return false
	}
	delete(storage.resources, t)
	return true
}
