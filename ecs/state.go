package ecs

import "log"

// StateMachine is a forward-only phase gate. States are ordered by their
// integer value; the only legal transition is to the immediate successor of
// the current state, up to final. Each state is therefore entered at most once.
//
// Enter handlers run synchronously inside TransitionTo. Update systems are kept
// in a state→systems table and run by Execute for the current state only, so
// the machine itself is registered with a Scheduler like any other system.
type StateMachine[S ~int] struct {
	storage *Storage
	logger  *log.Logger

	current S
	final   S

	onEnter map[S][]System
	update  map[S][]System
	entered map[S]int
	err     error
}

// NewStateMachine creates a machine in state initial that can advance up to
// final. Rejected transitions are reported on logger (log.Default when nil).
func NewStateMachine[S ~int](storage *Storage, initial, final S, logger *log.Logger) *StateMachine[S] {
	if final < initial {
		panic("ecs: final state precedes initial state")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &StateMachine[S]{
		storage: storage,
		logger:  logger,
		current: initial,
		final:   final,
		onEnter: make(map[S][]System),
		update:  make(map[S][]System),
		entered: map[S]int{initial: 1},
	}
}

// Current returns the active state.
func (m *StateMachine[S]) Current() S {
	return m.current
}

// Final returns the last reachable state.
func (m *StateMachine[S]) Final() S {
	return m.final
}

// Entered returns how many times state has been entered (0 or 1). The initial
// state counts as entered.
func (m *StateMachine[S]) Entered(state S) int {
	return m.entered[state]
}

// OnEnter registers systems to run, in order, when state is entered.
func (m *StateMachine[S]) OnEnter(state S, systems ...System) {
	for _, system := range systems {
		BindSystem(m.storage, system)
	}
	m.onEnter[state] = append(m.onEnter[state], systems...)
}

// Update registers systems that Execute runs every frame while state is
// current.
func (m *StateMachine[S]) Update(state S, systems ...System) {
	for _, system := range systems {
		BindSystem(m.storage, system)
	}
	m.update[state] = append(m.update[state], systems...)
}

// InState returns a Condition that holds while state is current.
func (m *StateMachine[S]) InState(state S) Condition {
	return func() bool { return m.current == state }
}

// TransitionTo advances to next and runs its enter handlers before returning.
// Any next other than the immediate successor of the current state is
// rejected with a warning and leaves the state unchanged.
func (m *StateMachine[S]) TransitionTo(next S) bool {
	if next != m.current+1 || next > m.final {
		m.logger.Printf("state: rejected transition %v -> %v", m.current, next)
		return false
	}

	m.current = next
	m.entered[next]++

	frame := newUpdateFrame(0, m.storage)
	for _, system := range m.onEnter[next] {
		system.Execute(frame)
		if frame.Err() != nil {
			break
		}
	}
	frame.Commands.Flush(m.storage)

	if err := frame.Err(); err != nil && m.err == nil {
		m.err = err
	}
	return true
}

// Err returns the first error raised by an enter handler.
func (m *StateMachine[S]) Err() error {
	return m.err
}

// Execute reports any pending enter-handler error on frame, then runs the
// update systems registered for the current state.
func (m *StateMachine[S]) Execute(frame *UpdateFrame) {
	if m.err != nil {
		frame.Fail(m.err)
		return
	}
	for _, system := range m.update[m.current] {
		system.Execute(frame)
		if frame.Err() != nil {
			return
		}
	}
}
