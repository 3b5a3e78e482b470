package bootstrap

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/meshfall/asset"
	"github.com/plus3/meshfall/config"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/physics"
	"github.com/plus3/meshfall/render"
	"github.com/plus3/meshfall/spatial"
)

// DefaultFloor is the embedded floor mesh.
const DefaultFloor = "models/floor.mesh.yaml"

// Models is the asset collection the scene waits for.
type Models struct {
	Floor asset.Handle `asset:"models/floor.mesh.yaml"`
}

// LoadModels requests the scene's assets. A floor other than DefaultFloor
// replaces the tagged path.
func LoadModels(server *asset.Server, floor string) *Models {
	if floor == "" || floor == DefaultFloor {
		return asset.LoadCollection[Models](server)
	}
	return &Models{Floor: server.Load(floor)}
}

// Scene records the entities spawned by SceneBuilder. It is inserted as a
// resource once the scene exists.
type Scene struct {
	Floor     ecs.Entity
	Camera    ecs.Entity
	Falling   ecs.Entity
	Pushed    ecs.Entity
	Character ecs.Entity
}

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// SceneBuilder populates the scene on entry into Ready. Missing or
// degenerate floor geometry fails the frame.
type SceneBuilder struct {
	Models    ecs.Resource[Models]
	Materials ecs.Resource[render.Materials]

	server  *asset.Server
	scene   config.Scene
	variant Variant
	machine *ecs.StateMachine[LoadState]
}

// NewSceneBuilder creates the enter-Ready handler for variant.
func NewSceneBuilder(server *asset.Server, scene config.Scene, variant Variant, machine *ecs.StateMachine[LoadState]) *SceneBuilder {
	return &SceneBuilder{server: server, scene: scene, variant: variant, machine: machine}
}

// Execute implements ecs.System.
func (b *SceneBuilder) Execute(frame *ecs.UpdateFrame) {
	models := b.Models.Get()
	if models == nil {
		frame.Fail(fmt.Errorf("bootstrap: floor mesh: %w: no model collection", asset.ErrUnresolved))
		return
	}
	floor, err := asset.Get[*asset.Mesh](b.server, models.Floor)
	if err != nil {
		frame.Fail(fmt.Errorf("bootstrap: floor mesh: %w", err))
		return
	}
	floorCollider, err := physics.TriMeshFromMesh(floor)
	if err != nil {
		frame.Fail(fmt.Errorf("bootstrap: floor collider: %w", err))
		return
	}

	materials := b.Materials.Get()
	if materials == nil {
		materials = ecs.InsertResource(frame.Storage, render.Materials{})
	}
	silver := materials.Add(render.Silver)
	cube := b.server.Add(asset.Cube(b.scene.Falling.CubeSize))

	var scene Scene
	storage := frame.Storage

	scene.Floor = physics.NewBody(physics.Fixed).
		WithCollider(floorCollider).
		With(render.MeshRef{Handle: models.Floor}, silver).
		Spawn(storage)

	pose := spatial.FromTranslation(b.scene.Camera.Position.Vec()).
		LookingAt(b.scene.Camera.Target.Vec(), mgl32.Vec3{0, 1, 0})
	scene.Camera = storage.Spawn(pose, render.DefaultCamera())

	ecs.InsertResource(storage, render.AmbientLight{Color: white, Brightness: 1})

	falling := b.scene.Falling
	fallingBody := physics.NewBody(physics.Dynamic).
		WithTransform(spatial.FromTranslation(falling.Position.Vec())).
		WithCollider(physics.Ball(falling.BallRadius)).
		WithGravityScale(falling.GravityScale)
	if falling.LinearDamping > 0 || falling.AngularDamping > 0 {
		fallingBody.WithDamping(physics.Damping{Linear: falling.LinearDamping, Angular: falling.AngularDamping})
	}
	scene.Falling = fallingBody.With(render.MeshRef{Handle: cube}, silver).Spawn(storage)

	pushed := b.scene.Pushed
	scene.Pushed = physics.NewBody(physics.Dynamic).
		WithForce(physics.ExternalForce{Force: pushed.Force.Vec(), Torque: pushed.Torque.Vec()}).
		WithImpulse(physics.ExternalImpulse{Impulse: pushed.Impulse.Vec(), TorqueImpulse: pushed.TorqueImpulse.Vec()}).
		Spawn(storage)

	if b.variant == Character {
		character := b.scene.Character
		half := character.HalfExtents
		scene.Character = physics.NewCharacter(physics.CharacterController{Offset: character.Offset}).
			WithTransform(spatial.FromTranslation(character.Position.Vec())).
			WithCollider(physics.Cuboid(half[0], half[1], half[2])).
			WithDensity(character.Density).
			With(render.MeshRef{Handle: cube}, silver).
			Spawn(storage)

		frame.Commands.Defer(func() { b.machine.TransitionTo(InGame) })
	}

	ecs.InsertResource(storage, scene)
}
