// Package asset loads files into typed values in the background and hands
// them to the frame loop through handles.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
)

// LoadState is the lifecycle of a single asset.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "NotLoaded"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

var (
	// ErrUnresolved is returned when a handle's asset is not loaded.
	ErrUnresolved = errors.New("asset: handle not resolved")
	// ErrWrongType is returned by Get when the asset has another type.
	ErrWrongType = errors.New("asset: wrong asset type")
)

// Handle identifies an asset inside one Server. The zero Handle is invalid.
type Handle uint32

type entry struct {
	path  string
	state LoadState
	value any
	err   error
}

type result struct {
	handle Handle
	value  any
	err    error
}

// Server loads assets from a filesystem on background goroutines. Loaded
// values are applied on the caller's goroutine by Poll, so State, Resolve and
// Get never race with loaders.
type Server struct {
	fsys    fs.FS
	loaders []Loader
	logger  *log.Logger

	entries []*entry
	byPath  map[string]Handle
	results chan result
	pending int
}

// NewServer creates a server reading from fsys. The mesh loader is always
// installed; extra loaders are consulted first.
func NewServer(fsys fs.FS, logger *log.Logger, loaders ...Loader) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		fsys:    fsys,
		loaders: append(loaders, MeshLoader{}),
		logger:  logger,
		byPath:  make(map[string]Handle),
		results: make(chan result, 64),
	}
}

// Load requests path and returns its handle immediately. Requesting the same
// path again returns the same handle without reloading.
func (s *Server) Load(p string) Handle {
	p = cleanPath(p)
	if h, ok := s.byPath[p]; ok {
		return h
	}

	h := s.add(&entry{path: p, state: Loading})
	s.byPath[p] = h
	s.pending++

	loader := loaderFor(s.loaders, p)
	go func() {
		if loader == nil {
			s.results <- result{handle: h, err: fmt.Errorf("%w: %s", ErrNoLoader, p)}
			return
		}
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			s.results <- result{handle: h, err: fmt.Errorf("asset: read %s: %w", p, err)}
			return
		}
		value, err := loader.Load(p, data)
		s.results <- result{handle: h, value: value, err: err}
	}()
	return h
}

// Add registers an already-built value and returns a handle that is loaded
// immediately.
func (s *Server) Add(value any) Handle {
	return s.add(&entry{state: Loaded, value: value})
}

func (s *Server) add(e *entry) Handle {
	s.entries = append(s.entries, e)
	return Handle(len(s.entries))
}

func (s *Server) entry(h Handle) *entry {
	if h == 0 || int(h) > len(s.entries) {
		return nil
	}
	return s.entries[h-1]
}

// Poll applies every finished load without blocking and returns how many
// were applied.
func (s *Server) Poll() int {
	n := 0
	for {
		select {
		case r := <-s.results:
			s.apply(r)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every requested asset has finished loading or ctx is
// done.
func (s *Server) Wait(ctx context.Context) error {
	for s.pending > 0 {
		select {
		case r := <-s.results:
			s.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Server) apply(r result) {
	e := s.entry(r.handle)
	s.pending--
	if r.err != nil {
		e.state = Failed
		e.err = r.err
		s.logger.Printf("asset: failed to load %s: %v", e.path, r.err)
		return
	}
	e.state = Loaded
	e.value = r.value
	s.logger.Printf("asset: loaded %s", e.path)
}

// Pending returns the number of loads not yet applied by Poll.
func (s *Server) Pending() int {
	return s.pending
}

// State returns the load state of h.
func (s *Server) State(h Handle) LoadState {
	e := s.entry(h)
	if e == nil {
		return NotLoaded
	}
	return e.state
}

// Err returns the load error of a failed asset.
func (s *Server) Err(h Handle) error {
	if e := s.entry(h); e != nil {
		return e.err
	}
	return nil
}

// Path returns the path h was loaded from, empty for added values.
func (s *Server) Path(h Handle) string {
	if e := s.entry(h); e != nil {
		return e.path
	}
	return ""
}

// Resolve returns the value behind h together with its state. The value is
// nil unless the state is Loaded.
func (s *Server) Resolve(h Handle) (any, LoadState) {
	e := s.entry(h)
	if e == nil {
		return nil, NotLoaded
	}
	return e.value, e.state
}

// Get resolves h as a T.
func Get[T any](s *Server, h Handle) (T, error) {
	var zero T
	value, state := s.Resolve(h)
	if state != Loaded {
		return zero, fmt.Errorf("%w: handle %d is %v", ErrUnresolved, h, state)
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: handle %d holds %T", ErrWrongType, h, value)
	}
	return typed, nil
}
