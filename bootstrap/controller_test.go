package bootstrap

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/input"
	"github.com/plus3/meshfall/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keys returns a snapshot where every key in held was just pressed.
func keys(held ...input.Key) input.Keys {
	return input.NewKeys(input.NewKeySet(held...), 0)
}

func TestControllerDisplacementIdle(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, -100, 0}, ControllerDisplacement(input.Keys{}, 1))
}

func TestControllerDisplacementJumpEdge(t *testing.T) {
	state := keys(input.KeyW)
	assert.Equal(t, float32(0), ControllerDisplacement(state, 1).Y())

	state.Advance(input.NewKeySet(input.KeyW))
	assert.Equal(t, float32(-100), ControllerDisplacement(state, 1).Y(), "held W is not a new jump")

	assert.Equal(t, float32(-200), ControllerDisplacement(keys(input.KeyS), 1).Y())
}

func TestControllerDisplacementDirections(t *testing.T) {
	both := ControllerDisplacement(keys(input.KeyLeft, input.KeyRight), 1)
	assert.Equal(t, float32(0), both.X())

	move := ControllerDisplacement(keys(input.KeyRight, input.KeyDown), 0.5)
	assert.Equal(t, float32(2.5), move.X())
	assert.Equal(t, float32(2.5), move.Z())

	move = ControllerDisplacement(keys(input.KeyLeft, input.KeyUp), 0.5)
	assert.Equal(t, float32(-2.5), move.X())
	assert.Equal(t, float32(-2.5), move.Z())
	assert.Equal(t, float32(-50), move.Y())
}

func newControllerStorage() (*ecs.Storage, *ecs.Scheduler) {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ControllerSystem{})
	return storage, scheduler
}

func TestControllerSystemWritesTranslation(t *testing.T) {
	storage, scheduler := newControllerStorage()
	e := physics.NewCharacter(physics.CharacterController{Offset: 0.1}).Spawn(storage)
	ecs.InsertResource(storage, keys(input.KeyRight))

	require.NoError(t, scheduler.Once(0.5))

	controller := ecs.ReadComponent[physics.CharacterController](storage, e)
	require.NotNil(t, controller.Translation)
	assert.Equal(t, mgl32.Vec3{2.5, -50, 0}, *controller.Translation)
}

func TestControllerSystemRequiresOneController(t *testing.T) {
	storage, scheduler := newControllerStorage()

	err := scheduler.Once(frameTime)
	require.ErrorIs(t, err, ErrControllerCount)
	assert.ErrorIs(t, err, ecs.ErrNoEntities)

	physics.NewCharacter(physics.CharacterController{}).Spawn(storage)
	physics.NewCharacter(physics.CharacterController{}).Spawn(storage)

	err = scheduler.Once(frameTime)
	require.ErrorIs(t, err, ErrControllerCount)
	assert.ErrorIs(t, err, ecs.ErrMultipleEntities)
}
