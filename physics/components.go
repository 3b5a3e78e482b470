// Package physics bridges entities to a Chipmunk space.
//
// Chipmunk simulates the XY plane. Bodies keep a separate depth (Z) position
// and velocity that only forces, impulses and character moves change.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/spatial"
)

// BodyKind selects how a body participates in the simulation.
type BodyKind int

const (
	// Fixed bodies never move.
	Fixed BodyKind = iota
	// Dynamic bodies are moved by gravity, forces and contacts.
	Dynamic
	// KinematicPositionBased bodies are moved only by writing their
	// position, either through Transform or a CharacterController.
	KinematicPositionBased
)

func (k BodyKind) String() string {
	switch k {
	case Fixed:
		return "Fixed"
	case Dynamic:
		return "Dynamic"
	case KinematicPositionBased:
		return "KinematicPositionBased"
	}
	return fmt.Sprintf("BodyKind(%d)", int(k))
}

// RigidBody marks an entity as simulated.
type RigidBody struct {
	Kind BodyKind
}

// GravityScale multiplies world gravity for one body.
type GravityScale float64

// Damping slows a body down every step.
type Damping struct {
	Linear  float64
	Angular float64
}

// ExternalForce is a constant force and torque applied every step.
type ExternalForce struct {
	Force  mgl32.Vec3
	Torque mgl32.Vec3
}

// ExternalImpulse is applied once, on the next step, then reset to zero.
type ExternalImpulse struct {
	Impulse       mgl32.Vec3
	TorqueImpulse mgl32.Vec3
}

// IsZero reports whether there is nothing left to apply.
func (i ExternalImpulse) IsZero() bool {
	return i.Impulse == (mgl32.Vec3{}) && i.TorqueImpulse == (mgl32.Vec3{})
}

// ColliderMassProperties sets the density used to derive mass from the
// collider's area.
type ColliderMassProperties struct {
	Density float64
}

// Velocity mirrors the simulated velocity after each step.
type Velocity struct {
	Linear  mgl32.Vec3
	Angular mgl32.Vec3
}

// CharacterController moves a kinematic body by a requested displacement
// per frame, stopping at other shapes.
type CharacterController struct {
	// Offset is the gap kept between the character and what it touches.
	Offset float64
	// Translation is the displacement requested for this frame. It is
	// consumed and cleared by CharacterSystem.
	Translation *mgl32.Vec3
	// Grounded is set when the last move ended resting on a surface.
	Grounded bool
}

// RegisterComponents registers every physics component with registry,
// including spatial.Transform.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[spatial.Transform](registry)
	ecs.RegisterComponent[RigidBody](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[GravityScale](registry)
	ecs.RegisterComponent[Damping](registry)
	ecs.RegisterComponent[ExternalForce](registry)
	ecs.RegisterComponent[ExternalImpulse](registry)
	ecs.RegisterComponent[ColliderMassProperties](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[CharacterController](registry)
}
