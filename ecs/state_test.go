package ecs_test

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/plus3/meshfall/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseInGame
)

func (p phase) String() string {
	return [...]string{"Loading", "Ready", "InGame"}[p]
}

func newTestMachine(t *testing.T) (*ecs.StateMachine[phase], *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	storage := ecs.NewStorage(newTestRegistry())
	return ecs.NewStateMachine(storage, phaseLoading, phaseInGame, log.New(&buf, "", 0)), &buf
}

func TestStateMachineForward(t *testing.T) {
	machine, logs := newTestMachine(t)

	var entered []phase
	machine.OnEnter(phaseReady, ecs.SystemFunc(func(*ecs.UpdateFrame) { entered = append(entered, phaseReady) }))
	machine.OnEnter(phaseInGame, ecs.SystemFunc(func(*ecs.UpdateFrame) { entered = append(entered, phaseInGame) }))

	assert.Equal(t, phaseLoading, machine.Current())
	require.True(t, machine.TransitionTo(phaseReady))
	require.True(t, machine.TransitionTo(phaseInGame))

	assert.Equal(t, []phase{phaseReady, phaseInGame}, entered)
	assert.Equal(t, 1, machine.Entered(phaseLoading))
	assert.Equal(t, 1, machine.Entered(phaseReady))
	assert.Equal(t, 1, machine.Entered(phaseInGame))
	assert.Empty(t, logs.String())
}

func TestStateMachineRejectsSkipAndBackward(t *testing.T) {
	machine, logs := newTestMachine(t)

	entered := 0
	machine.OnEnter(phaseInGame, ecs.SystemFunc(func(*ecs.UpdateFrame) { entered++ }))

	assert.False(t, machine.TransitionTo(phaseInGame), "skipping Ready")
	assert.Equal(t, phaseLoading, machine.Current())
	assert.Contains(t, logs.String(), "rejected transition Loading -> InGame")

	require.True(t, machine.TransitionTo(phaseReady))
	assert.False(t, machine.TransitionTo(phaseLoading), "backward")
	assert.False(t, machine.TransitionTo(phaseReady), "re-entry")
	require.True(t, machine.TransitionTo(phaseInGame))
	assert.False(t, machine.TransitionTo(phaseInGame+1), "past final")

	assert.Equal(t, 1, entered)
	assert.Equal(t, phaseInGame, machine.Current())
}

func TestStateMachineEnterCommandsFlush(t *testing.T) {
	machine, _ := newTestMachine(t)

	machine.OnEnter(phaseReady, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 1})
		frame.Commands.Defer(func() { machine.TransitionTo(phaseInGame) })
	}))

	require.True(t, machine.TransitionTo(phaseReady))
	assert.Equal(t, phaseInGame, machine.Current(), "deferred transition chains on flush")
}

func TestStateMachineUpdateGating(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	machine := ecs.NewStateMachine(storage, phaseLoading, phaseReady, nil)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(machine)

	loading, ready, gated := 0, 0, 0
	machine.Update(phaseLoading, ecs.SystemFunc(func(*ecs.UpdateFrame) { loading++ }))
	machine.Update(phaseReady, ecs.SystemFunc(func(*ecs.UpdateFrame) { ready++ }))
	scheduler.RegisterIf(ecs.SystemFunc(func(*ecs.UpdateFrame) { gated++ }), machine.InState(phaseReady))

	require.NoError(t, scheduler.Once(0.016))
	require.True(t, machine.TransitionTo(phaseReady))
	require.NoError(t, scheduler.Once(0.016))
	require.NoError(t, scheduler.Once(0.016))

	assert.Equal(t, 1, loading)
	assert.Equal(t, 2, ready)
	assert.Equal(t, 2, gated)
}

func TestStateMachineEnterError(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	machine := ecs.NewStateMachine(storage, phaseLoading, phaseReady, nil)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(machine)

	boom := errors.New("scene failed")
	machine.OnEnter(phaseReady, ecs.SystemFunc(func(frame *ecs.UpdateFrame) { frame.Fail(boom) }))

	require.True(t, machine.TransitionTo(phaseReady))
	assert.ErrorIs(t, machine.Err(), boom)
	assert.ErrorIs(t, scheduler.Once(0.016), boom)
}
