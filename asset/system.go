package asset

import "github.com/plus3/meshfall/ecs"

// LoadingSystem polls the server each frame and advances machine to Next as
// soon as the C collection resource has fully loaded. Load failures fail the
// frame. Register it as an update system of the loading state so it stops
// running after the transition.
type LoadingSystem[C any, S ~int] struct {
	Collection ecs.Resource[C]

	server  *Server
	machine *ecs.StateMachine[S]
	next    S
}

// NewLoadingSystem creates a loading system for the C collection.
func NewLoadingSystem[C any, S ~int](server *Server, machine *ecs.StateMachine[S], next S) *LoadingSystem[C, S] {
	return &LoadingSystem[C, S]{server: server, machine: machine, next: next}
}

// Execute implements ecs.System.
func (l *LoadingSystem[C, S]) Execute(frame *ecs.UpdateFrame) {
	l.server.Poll()

	collection := l.Collection.Get()
	if collection == nil {
		return
	}

	state, err := CollectionState(l.server, collection)
	switch state {
	case Failed:
		frame.Fail(err)
	case Loaded:
		if l.machine.Current() < l.next {
			l.machine.TransitionTo(l.next)
		}
		if err := l.machine.Err(); err != nil {
			frame.Fail(err)
		}
	}
}
