package physics

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/meshfall/asset"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameTime = 1.0 / 60.0

type testWorld struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	world     *World
	logs      *bytes.Buffer
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	var logs bytes.Buffer
	world := InsertWorld(storage, Settings{Gravity: DefaultGravity}, log.New(&logs, "", 0))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&SyncSystem{})
	scheduler.Register(&CharacterSystem{})
	scheduler.Register(&StepSystem{})
	return &testWorld{storage: storage, scheduler: scheduler, world: world, logs: &logs}
}

func (w *testWorld) run(t *testing.T, frames int) {
	t.Helper()
	for range frames {
		require.NoError(t, w.scheduler.Once(frameTime))
	}
}

func (w *testWorld) floor(t *testing.T) ecs.Entity {
	t.Helper()
	collider, err := TriMeshFromMesh(asset.Plane(10))
	require.NoError(t, err)
	return NewBody(Fixed).WithCollider(collider).Spawn(w.storage)
}

func TestBuilderComponents(t *testing.T) {
	components := NewBody(Dynamic).
		WithTransform(spatial.FromXYZ(0, 5, 0)).
		WithCollider(Ball(1)).
		WithGravityScale(0.5).
		With("extra").
		Components()

	assert.Contains(t, components, RigidBody{Kind: Dynamic})
	assert.Contains(t, components, GravityScale(0.5))
	assert.Contains(t, components, Ball(1))
	assert.Equal(t, "extra", components[len(components)-1])

	character := NewCharacter(CharacterController{Offset: 0.1}).Components()
	assert.Contains(t, character, CharacterController{Offset: 0.1})
	assert.NotContains(t, character, RigidBody{Kind: KinematicPositionBased})
}

func TestSyncCreatesBodies(t *testing.T) {
	w := newTestWorld(t)

	floor := w.floor(t)
	ball := NewBody(Dynamic).WithTransform(spatial.FromXYZ(0, 5, 0)).WithCollider(Ball(1)).Spawn(w.storage)
	bare := NewBody(Dynamic).Spawn(w.storage)
	w.storage.Spawn(spatial.Identity())

	w.run(t, 1)

	assert.Equal(t, 3, w.world.BodyCount())
	kind, ok := w.world.Kind(floor)
	require.True(t, ok)
	assert.Equal(t, Fixed, kind)
	assert.Greater(t, w.world.Mass(ball), 0.0)
	assert.Equal(t, 1.0, w.world.Mass(bare))
}

func TestGravityScale(t *testing.T) {
	w := newTestWorld(t)

	full := NewBody(Dynamic).WithTransform(spatial.FromXYZ(-20, 5, 0)).WithCollider(Ball(1)).Spawn(w.storage)
	half := NewBody(Dynamic).WithTransform(spatial.FromXYZ(20, 5, 0)).WithCollider(Ball(1)).WithGravityScale(0.5).Spawn(w.storage)

	w.run(t, 30)

	fullY := ecs.ReadComponent[spatial.Transform](w.storage, full).Translation.Y()
	halfY := ecs.ReadComponent[spatial.Transform](w.storage, half).Translation.Y()
	assert.Less(t, fullY, float32(5))
	assert.Less(t, halfY, float32(5))
	assert.InDelta(t, 5-fullY, 2*(5-halfY), 0.05)
}

func TestBallRestsOnFloor(t *testing.T) {
	w := newTestWorld(t)
	w.floor(t)
	ball := NewBody(Dynamic).WithTransform(spatial.FromXYZ(0, 5, 0)).WithCollider(Ball(1)).WithGravityScale(0.5).Spawn(w.storage)

	w.run(t, 600)

	y := ecs.ReadComponent[spatial.Transform](w.storage, ball).Translation.Y()
	assert.InDelta(t, 1.0, y, 0.15)
}

func TestImpulseAppliedOnce(t *testing.T) {
	w := newTestWorld(t)
	w.world.space.SetGravity(toVector(mgl32.Vec3{}))

	e := NewBody(Dynamic).WithImpulse(ExternalImpulse{
		Impulse:       mgl32.Vec3{1, 2, 3},
		TorqueImpulse: mgl32.Vec3{0.1, 0.2, 0.3},
	}).Spawn(w.storage)

	w.run(t, 1)
	v := ecs.ReadComponent[Velocity](w.storage, e)
	assert.InDelta(t, 1.0, v.Linear.X(), 1e-4)
	assert.InDelta(t, 2.0, v.Linear.Y(), 1e-4)
	assert.InDelta(t, 3.0, v.Linear.Z(), 1e-4)
	assert.InDelta(t, 0.3, v.Angular.Z(), 1e-4)
	assert.True(t, ecs.ReadComponent[ExternalImpulse](w.storage, e).IsZero())

	w.run(t, 10)
	v = ecs.ReadComponent[Velocity](w.storage, e)
	assert.InDelta(t, 1.0, v.Linear.X(), 1e-4, "impulse must not be re-applied")
}

func TestForceIsConstant(t *testing.T) {
	w := newTestWorld(t)
	w.world.space.SetGravity(toVector(mgl32.Vec3{}))

	e := NewBody(Dynamic).WithForce(ExternalForce{
		Force:  mgl32.Vec3{10, 20, 30},
		Torque: mgl32.Vec3{1, 2, 3},
	}).Spawn(w.storage)

	w.run(t, 60)

	// Unit mass: v = F * t after one second.
	v := ecs.ReadComponent[Velocity](w.storage, e)
	assert.InDelta(t, 10.0, v.Linear.X(), 0.1)
	assert.InDelta(t, 20.0, v.Linear.Y(), 0.1)
	assert.InDelta(t, 30.0, v.Linear.Z(), 0.1)
	assert.InDelta(t, 3.0, v.Angular.Z(), 0.1)
}

func TestCharacterStopsOnFloor(t *testing.T) {
	w := newTestWorld(t)
	w.floor(t)
	e := NewCharacter(CharacterController{Offset: 0.1}).
		WithTransform(spatial.FromXYZ(1.5, 2, 1)).
		WithCollider(Cuboid(0.9, 0.9, 0.9)).
		WithDensity(199).
		Spawn(w.storage)

	for range 120 {
		controller := ecs.ReadComponent[CharacterController](w.storage, e)
		controller.Translation = &mgl32.Vec3{0, -100 * frameTime, 0}
		w.run(t, 1)
	}

	controller := ecs.ReadComponent[CharacterController](w.storage, e)
	assert.Nil(t, controller.Translation)
	assert.True(t, controller.Grounded)

	pos := ecs.ReadComponent[spatial.Transform](w.storage, e).Translation
	assert.InDelta(t, 0.9+0.1, pos.Y(), 0.05)
	assert.InDelta(t, 1.5, pos.X(), 1e-3)
	assert.InDelta(t, 1.0, pos.Z(), 1e-3)
}

func TestCharacterMovesSideways(t *testing.T) {
	w := newTestWorld(t)
	e := NewCharacter(CharacterController{Offset: 0.1}).
		WithCollider(Cuboid(0.5, 0.5, 0.5)).
		Spawn(w.storage)

	w.run(t, 1)
	ecs.ReadComponent[CharacterController](w.storage, e).Translation = &mgl32.Vec3{1, 0, -2}
	w.run(t, 1)

	pos := ecs.ReadComponent[spatial.Transform](w.storage, e).Translation
	assert.InDelta(t, 1.0, pos.X(), 1e-4)
	assert.InDelta(t, -2.0, pos.Z(), 1e-4)
}

func TestPenetrationPushesOutOfFloor(t *testing.T) {
	tests := []struct {
		name     string
		collider Collider
		y        float32
		push     float64
	}{
		// Box against segment: cp swaps the pair.
		{name: "cuboid", collider: Cuboid(0.9, 0.9, 0.9), y: 0.5, push: 0.5},
		// Circle against segment keeps the order.
		{name: "ball", collider: Ball(0.5), y: 0.3, push: 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.floor(t)
			e := NewCharacter(CharacterController{Offset: 0.1}).
				WithTransform(spatial.FromXYZ(1.5, tt.y, 0)).
				WithCollider(tt.collider).
				Spawn(w.storage)
			w.run(t, 1)

			push, grounded, hit := w.world.penetration(w.world.bodies[e], 0.1)
			require.True(t, hit)
			assert.True(t, grounded)
			assert.InDelta(t, 0.0, push.X, 1e-6)
			assert.InDelta(t, tt.push, push.Y, 1e-4)
		})
	}
}

func TestPenetrationIgnoresSeparatedShapes(t *testing.T) {
	w := newTestWorld(t)
	w.floor(t)
	e := NewCharacter(CharacterController{Offset: 0.1}).
		WithTransform(spatial.FromXYZ(0, 3, 0)).
		WithCollider(Cuboid(0.5, 0.5, 0.5)).
		Spawn(w.storage)
	w.run(t, 1)

	_, grounded, hit := w.world.penetration(w.world.bodies[e], 0.1)
	assert.False(t, hit)
	assert.False(t, grounded)
}

func TestCharacterDensity(t *testing.T) {
	w := newTestWorld(t)
	e := NewCharacter(CharacterController{Offset: 0.1}).
		WithCollider(Cuboid(0.9, 0.9, 0.9)).
		WithDensity(199).
		Spawn(w.storage)
	w.run(t, 1)

	assert.InDelta(t, 199*1.8*1.8, w.world.ColliderMass(e), 1e-3)
	assert.True(t, math.IsInf(w.world.Mass(e), 1), "kinematic bodies keep infinite mass")
}
