package asset

import (
	"errors"
	"fmt"
	"reflect"
)

var handleType = reflect.TypeFor[Handle]()

// LoadCollection requests every Handle field of T tagged `asset:"path"` and
// returns the populated struct.
//
//	type Models struct {
//		Floor asset.Handle `asset:"models/floor.mesh.yaml"`
//	}
func LoadCollection[T any](s *Server) *T {
	collection := new(T)
	value := reflect.ValueOf(collection).Elem()
	if value.Kind() != reflect.Struct {
		panic("asset: collection must be a struct")
	}

	for i := range value.NumField() {
		field := value.Type().Field(i)
		p, ok := field.Tag.Lookup("asset")
		if !ok {
			continue
		}
		if field.Type != handleType {
			panic("asset: tagged field " + field.Name + " must be an asset.Handle")
		}
		value.Field(i).Set(reflect.ValueOf(s.Load(p)))
	}
	return collection
}

// Handles returns the Handle fields of a collection.
func Handles(collection any) []Handle {
	value := reflect.Indirect(reflect.ValueOf(collection))
	var handles []Handle
	for i := range value.NumField() {
		if value.Field(i).Type() == handleType {
			handles = append(handles, Handle(value.Field(i).Uint()))
		}
	}
	return handles
}

// CollectionState folds the states of every handle in collection: Failed if
// any failed (with the joined errors), Loading while any is still loading,
// Loaded once all are.
func CollectionState(s *Server, collection any) (LoadState, error) {
	state := Loaded
	var errs []error
	for _, h := range Handles(collection) {
		switch s.State(h) {
		case Failed:
			errs = append(errs, s.Err(h))
		case Loading, NotLoaded:
			if state == Loaded {
				state = Loading
			}
		}
	}
	if len(errs) > 0 {
		return Failed, fmt.Errorf("asset: collection %T: %w", collection, errors.Join(errs...))
	}
	return state, nil
}
