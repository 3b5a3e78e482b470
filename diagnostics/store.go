package diagnostics

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/plus3/meshfall/ecs"
)

// Store holds every registered diagnostic. It is kept as a storage resource.
type Store struct {
	diagnostics map[ID]*Diagnostic
	elapsed     time.Duration
}

// NewStore returns an empty store.
func NewStore() Store {
	return Store{diagnostics: make(map[ID]*Diagnostic)}
}

// Register adds d, replacing any diagnostic with the same ID.
func (s *Store) Register(d *Diagnostic) {
	if s.diagnostics == nil {
		s.diagnostics = make(map[ID]*Diagnostic)
	}
	s.diagnostics[d.ID] = d
}

// Get returns the diagnostic with id.
func (s *Store) Get(id ID) *Diagnostic {
	return s.diagnostics[id]
}

// Add records a value for id at the store's current time. Unknown ids are
// ignored.
func (s *Store) Add(id ID, value float64) {
	if d := s.diagnostics[id]; d != nil {
		d.Add(s.elapsed, value)
	}
}

// Smoothed returns the smoothed value of id, if it has any measurement.
func (s *Store) Smoothed(id ID) (float64, bool) {
	d := s.diagnostics[id]
	if d == nil {
		return 0, false
	}
	return d.Smoothed()
}

// Advance moves the store's clock forward.
func (s *Store) Advance(dt time.Duration) {
	s.elapsed += dt
}

// Elapsed returns the store's clock.
func (s *Store) Elapsed() time.Duration {
	return s.elapsed
}

// Summary renders every diagnostic with a smoothed value on one line.
func (s *Store) Summary() string {
	ids := make([]string, 0, len(s.diagnostics))
	for id := range s.diagnostics {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		d := s.diagnostics[ID(id)]
		value, ok := d.Smoothed()
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%.3f%s", id, value, d.Suffix)
	}
	return b.String()
}

// FrameTimeSystem records fps, frame time in milliseconds and the frame
// count from the frame delta.
type FrameTimeSystem struct {
	Store ecs.Resource[Store]
	count float64
}

// InsertFrameTime registers the frame-time diagnostics in storage's Store,
// creating the store if needed, and returns the recording system.
func InsertFrameTime(storage *ecs.Storage) *FrameTimeSystem {
	store := ecs.NewResource(storage, NewStore()).Get()
	store.Register(NewDiagnostic(FPS, "", DefaultHistory))
	store.Register(NewDiagnostic(FrameTime, "ms", DefaultHistory))
	store.Register(NewDiagnostic(FrameCount, "", 1))
	return &FrameTimeSystem{}
}

// Execute implements ecs.System.
func (s *FrameTimeSystem) Execute(frame *ecs.UpdateFrame) {
	store := s.Store.Get()
	if store == nil {
		return
	}
	s.count++
	store.Advance(time.Duration(frame.DeltaTime * float64(time.Second)))
	store.Add(FrameCount, s.count)
	store.Add(FrameTime, frame.DeltaTime*1000)
	if frame.DeltaTime > 0 {
		store.Add(FPS, 1/frame.DeltaTime)
	}
}

// LogSystem writes the store summary to a logger at a fixed interval.
type LogSystem struct {
	Store ecs.Resource[Store]

	logger   *log.Logger
	interval time.Duration
	last     time.Duration
}

// NewLogSystem logs every interval of store time.
func NewLogSystem(logger *log.Logger, interval time.Duration) *LogSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSystem{logger: logger, interval: interval}
}

// Execute implements ecs.System.
func (s *LogSystem) Execute(frame *ecs.UpdateFrame) {
	store := s.Store.Get()
	if store == nil || store.Elapsed()-s.last < s.interval {
		return
	}
	s.last = store.Elapsed()
	if summary := store.Summary(); summary != "" {
		s.logger.Printf("diagnostics: %s", summary)
	}
}
