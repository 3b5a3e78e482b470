package physics

import (
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/spatial"
)

// BodyBuilder assembles the components of a physics entity.
//
//	e := physics.NewBody(physics.Dynamic).
//		WithTransform(spatial.FromXYZ(0, 5, 0)).
//		WithCollider(physics.Ball(1)).
//		WithGravityScale(0.5).
//		Spawn(storage)
type BodyBuilder struct {
	kind       BodyKind
	transform  spatial.Transform
	collider   *Collider
	gravity    *GravityScale
	damping    *Damping
	force      *ExternalForce
	impulse    *ExternalImpulse
	mass       *ColliderMassProperties
	controller *CharacterController
	extra      []any
}

// NewBody starts a body of the given kind at the identity transform.
func NewBody(kind BodyKind) *BodyBuilder {
	return &BodyBuilder{kind: kind, transform: spatial.Identity()}
}

// NewCharacter starts a kinematic body driven by a character controller.
func NewCharacter(controller CharacterController) *BodyBuilder {
	b := NewBody(KinematicPositionBased)
	b.controller = &controller
	return b
}

func (b *BodyBuilder) WithTransform(t spatial.Transform) *BodyBuilder {
	b.transform = t
	return b
}

func (b *BodyBuilder) WithCollider(c Collider) *BodyBuilder {
	b.collider = &c
	return b
}

func (b *BodyBuilder) WithGravityScale(scale float64) *BodyBuilder {
	g := GravityScale(scale)
	b.gravity = &g
	return b
}

func (b *BodyBuilder) WithDamping(d Damping) *BodyBuilder {
	b.damping = &d
	return b
}

func (b *BodyBuilder) WithForce(f ExternalForce) *BodyBuilder {
	b.force = &f
	return b
}

func (b *BodyBuilder) WithImpulse(i ExternalImpulse) *BodyBuilder {
	b.impulse = &i
	return b
}

// WithDensity sets the density of the collider's shapes. Dynamic bodies take
// their mass from it; kinematic bodies only record it on their shapes.
func (b *BodyBuilder) WithDensity(density float64) *BodyBuilder {
	b.mass = &ColliderMassProperties{Density: density}
	return b
}

// With attaches non-physics components such as meshes or materials.
func (b *BodyBuilder) With(components ...any) *BodyBuilder {
	b.extra = append(b.extra, components...)
	return b
}

// Components returns every component the body will be spawned with.
func (b *BodyBuilder) Components() []any {
	components := []any{b.transform, Velocity{}}
	if b.controller != nil {
		components = append(components, *b.controller)
	} else {
		components = append(components, RigidBody{Kind: b.kind})
	}
	if b.collider != nil {
		components = append(components, *b.collider)
	}
	if b.gravity != nil {
		components = append(components, *b.gravity)
	}
	if b.damping != nil {
		components = append(components, *b.damping)
	}
	if b.force != nil {
		components = append(components, *b.force)
	}
	if b.impulse != nil {
		components = append(components, *b.impulse)
	}
	if b.mass != nil {
		components = append(components, *b.mass)
	}
	return append(components, b.extra...)
}

// Spawn creates the entity immediately. The simulated body is created by
// SyncSystem on its next run.
func (b *BodyBuilder) Spawn(storage *ecs.Storage) ecs.Entity {
	return storage.Spawn(b.Components()...)
}

// Queue spawns the entity when commands are flushed.
func (b *BodyBuilder) Queue(commands *ecs.Commands) {
	commands.Spawn(b.Components()...)
}
