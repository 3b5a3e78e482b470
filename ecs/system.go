package ecs

// System represents a behavior that runs against the storage once per frame
// or once per state entry. Systems may declare Query and Resource fields; the
// Scheduler binds them to its storage on Register.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

// Execute calls f.
func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// Condition gates a system; it is evaluated right before each execution.
type Condition func() bool

// UpdateFrame is the per-execution context handed to systems.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage

	err error
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Fail records a fatal error for this frame. Only the first error is kept;
// the scheduler returns it once the frame completes.
func (f *UpdateFrame) Fail(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

// Err returns the first error recorded with Fail.
func (f *UpdateFrame) Err() error {
	return f.err
}
