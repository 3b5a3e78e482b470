package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Startup        bool
	ExecutionCount int64
	SkipCount      int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type scheduledSystem struct {
	system  System
	runIf   Condition
	startup bool

	name           string
	executionCount int64
	skipCount      int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *scheduledSystem) run(frame *UpdateFrame) {
	if s.runIf != nil && !s.runIf() {
		s.skipCount++
		return
	}

	start := time.Now()
	s.system.Execute(frame)
	duration := time.Since(start)

	s.executionCount++
	s.lastDuration = duration
	s.totalDuration += duration
	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

// Scheduler runs startup systems once, then update systems in registration
// order every frame.
type Scheduler struct {
	storage *Storage
	startup []*scheduledSystem
	update  []*scheduledSystem
	started bool
	frames  int64
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Storage returns the storage systems run against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// AddStartup registers systems that run once, before the first update.
func (s *Scheduler) AddStartup(systems ...System) {
	for _, system := range systems {
		s.startup = append(s.startup, s.schedule(system, nil, true))
	}
}

// Register adds an update system that runs every frame.
func (s *Scheduler) Register(system System) {
	s.update = append(s.update, s.schedule(system, nil, false))
}

// RegisterIf adds an update system that runs only on frames where cond holds.
func (s *Scheduler) RegisterIf(system System, cond Condition) {
	s.update = append(s.update, s.schedule(system, cond, false))
}

func (s *Scheduler) schedule(system System, cond Condition, startup bool) *scheduledSystem {
	BindSystem(s.storage, system)
	return &scheduledSystem{
		system:      system,
		runIf:       cond,
		startup:     startup,
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	}
}

type storageBinder interface {
	Init(storage *Storage)
}

// BindSystem initializes every Query and Resource field of system against
// storage. Fields are matched by their Init(*Storage) method.
func BindSystem(storage *Storage, system System) {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return
	}

	for i := range value.NumField() {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		if binder, ok := field.Addr().Interface().(storageBinder); ok {
			binder.Init(storage)
		}
	}
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// Once executes one frame: startup systems on the first call, then every
// update system whose condition holds. Commands are flushed after the last
// system. The first error recorded with UpdateFrame.Fail is returned.
func (s *Scheduler) Once(dt float64) error {
	frame := newUpdateFrame(dt, s.storage)

	if !s.started {
		s.started = true
		for _, sys := range s.startup {
			sys.run(frame)
		}
		frame.Commands.Flush(s.storage)
		if err := frame.Err(); err != nil {
			return err
		}
	}

	for _, sys := range s.update {
		sys.run(frame)
		if frame.Err() != nil {
			break
		}
	}
	frame.Commands.Flush(s.storage)
	s.frames++
	return frame.Err()
}

// Run executes frames at the given interval until ctx is cancelled or a frame
// fails.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := s.Once(dt); err != nil {
				return err
			}
		}
	}
}

// GetStats returns execution statistics for every registered system.
func (s *Scheduler) GetStats() *SchedulerStats {
	all := make([]*scheduledSystem, 0, len(s.startup)+len(s.update))
	all = append(all, s.startup...)
	all = append(all, s.update...)

	stats := &SchedulerStats{
		SystemCount: len(all),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(all)),
	}
	for i, sys := range all {
		var avg time.Duration
		minDuration := sys.minDuration
		if sys.executionCount > 0 {
			avg = sys.totalDuration / time.Duration(sys.executionCount)
		} else {
			minDuration = 0
		}
		stats.Systems[i] = SystemStats{
			Name:           sys.name,
			Startup:        sys.startup,
			ExecutionCount: sys.executionCount,
			SkipCount:      sys.skipCount,
			MinDuration:    minDuration,
			MaxDuration:    sys.maxDuration,
			AvgDuration:    avg,
			LastDuration:   sys.lastDuration,
			TotalDuration:  sys.totalDuration,
		}
		stats.TotalExecutions += sys.executionCount
	}
	return stats
}
