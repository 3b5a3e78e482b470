package debugui

import (
	"reflect"
	"sync"
)

type fieldInfo struct {
	Name  string
	Index int
	Kind  reflect.Kind
}

type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

var fields = &fieldCache{fields: make(map[reflect.Type][]fieldInfo)}

// of returns the exported fields of a struct type.
func (c *fieldCache) of(t reflect.Type) []fieldInfo {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	var result []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			result = append(result, fieldInfo{Name: field.Name, Index: i, Kind: field.Type.Kind()})
		}
	}

	c.mu.Lock()
	c.fields[t] = result
	c.mu.Unlock()
	return result
}
