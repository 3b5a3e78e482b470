package ecs

import (
	"reflect"
	"sort"
)

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	ResourceCount      int
	ArchetypeBreakdown []ArchetypeStats
	ResourceTypes      []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID             uint32
	Name           string
	ComponentTypes []reflect.Type
	EntityCount    int
}

// CollectStats walks the storage and summarizes it. Empty archetypes are
// still reported.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.order),
		ResourceCount:  len(s.resources),
	}

	for _, a := range s.order {
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			Name:           a.Name(),
			ComponentTypes: a.types,
			EntityCount:    a.count,
		})
		stats.TotalEntityCount += a.count
	}

	for t := range s.resources {
		stats.ResourceTypes = append(stats.ResourceTypes, t.String())
	}
	sort.Strings(stats.ResourceTypes)
	return stats
}
