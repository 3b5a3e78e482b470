package debugui

import "github.com/plus3/meshfall/ecs"

// SpawnDebugUI spawns the inspector and performance windows and returns the
// stats recorder the host feeds with frame deltas.
func SpawnDebugUI(storage *ecs.Storage, scheduler *ecs.Scheduler) *PerformanceStats {
	inspector := &Inspector{}
	stats := NewPerformanceStats(120)

	storage.Spawn(ImguiItem{Render: func() { inspector.Render(storage) }})
	storage.Spawn(ImguiItem{Render: func() { stats.Render(storage, scheduler) }})
	return stats
}
