package physics

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/spatial"
)

// DefaultGravity matches Earth gravity along -Y.
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

const (
	// Steps longer than this are split so that a slow frame does not tunnel
	// bodies through thin geometry.
	maxSubstep = 1.0 / 60.0
	friction   = 0.7
)

// Settings configure a World.
type Settings struct {
	Gravity mgl32.Vec3
}

// World owns the Chipmunk space and the mapping from entities to bodies. It
// is stored as a storage resource.
type World struct {
	space   *cp.Space
	gravity mgl32.Vec3
	bodies  map[ecs.Entity]*body
	order   []ecs.Entity
	logger  *log.Logger
}

type body struct {
	entity ecs.Entity
	kind   BodyKind
	cp     *cp.Body
	shapes []*cp.Shape

	z, vz float64

	baseRotation mgl32.Quat
	baseAngle    float64

	gravityScale float64
	damping      Damping
}

// NewWorld creates an empty world.
func NewWorld(settings Settings, logger *log.Logger) World {
	if logger == nil {
		logger = log.Default()
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(toVector(settings.Gravity))
	return World{
		space:   space,
		gravity: settings.Gravity,
		bodies:  make(map[ecs.Entity]*body),
		logger:  logger,
	}
}

// InsertWorld stores a new world as a resource of storage.
func InsertWorld(storage *ecs.Storage, settings Settings, logger *log.Logger) *World {
	return ecs.InsertResource(storage, NewWorld(settings, logger))
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	return w.space
}

// BodyCount returns the number of bodies created so far.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Contains reports whether e has a simulated body.
func (w *World) Contains(e ecs.Entity) bool {
	_, ok := w.bodies[e]
	return ok
}

// Kind returns the body kind of e.
func (w *World) Kind(e ecs.Entity) (BodyKind, bool) {
	b, ok := w.bodies[e]
	if !ok {
		return 0, false
	}
	return b.kind, true
}

// Mass returns the mass of e's body; fixed and kinematic bodies report +Inf.
func (w *World) Mass(e ecs.Entity) float64 {
	b, ok := w.bodies[e]
	if !ok {
		return 0
	}
	return b.cp.Mass()
}

// ColliderMass returns the mass of e's shapes derived from their density.
// Unlike Mass it is finite for kinematic bodies.
func (w *World) ColliderMass(e ecs.Entity) float64 {
	b, ok := w.bodies[e]
	if !ok {
		return 0
	}
	total := 0.0
	for _, shape := range b.shapes {
		total += shape.Mass()
	}
	return total
}

type bodySpec struct {
	kind      BodyKind
	transform spatial.Transform
	collider  *Collider
	gravity   *GravityScale
	damping   *Damping
	density   *ColliderMassProperties
}

func (w *World) create(e ecs.Entity, spec bodySpec) *body {
	b := &body{
		entity:       e,
		kind:         spec.kind,
		z:            float64(spec.transform.Translation.Z()),
		baseRotation: spec.transform.Rotation,
		gravityScale: 1,
	}
	if b.baseRotation == (mgl32.Quat{}) {
		b.baseRotation = mgl32.QuatIdent()
	}
	b.baseAngle = zAngle(b.baseRotation)
	if spec.gravity != nil {
		b.gravityScale = float64(*spec.gravity)
	}
	if spec.damping != nil {
		b.damping = *spec.damping
	}

	switch spec.kind {
	case Fixed:
		b.cp = cp.NewStaticBody()
	case KinematicPositionBased:
		b.cp = cp.NewKinematicBody()
	default:
		if spec.collider == nil {
			// Nothing to derive mass from.
			b.cp = cp.NewBody(1, 1)
		} else {
			b.cp = cp.NewBody(0, 0)
		}
		b.cp.SetVelocityUpdateFunc(b.updateVelocity)
	}
	b.cp.UserData = e
	b.cp.SetPosition(toVector(spec.transform.Translation))
	b.cp.SetAngle(b.baseAngle)
	w.space.AddBody(b.cp)

	if spec.collider != nil {
		density := 1.0
		if spec.density != nil && spec.density.Density > 0 {
			density = spec.density.Density
		}
		for _, shape := range spec.collider.shapes(b.cp) {
			shape.SetFriction(friction)
			shape.UserData = e
			w.space.AddShape(shape)
			if spec.kind != Fixed {
				shape.SetDensity(density)
			}
			b.shapes = append(b.shapes, shape)
		}
	}
	if spec.kind == Dynamic && (b.cp.Mass() <= 0 || b.cp.Moment() <= 0) {
		w.logger.Printf("physics: entity %d has no collider area, using unit mass", e)
		b.cp.SetMass(1)
		b.cp.SetMoment(1)
	}

	w.bodies[e] = b
	w.order = append(w.order, e)
	return b
}

// updateVelocity integrates gravity with the body's scale, then applies
// damping.
func (b *body) updateVelocity(cpBody *cp.Body, gravity cp.Vector, damping, dt float64) {
	cp.BodyUpdateVelocity(cpBody, gravity.Mult(b.gravityScale), damping, dt)
	if b.damping.Linear > 0 {
		cpBody.SetVelocityVector(cpBody.Velocity().Mult(1 / (1 + dt*b.damping.Linear)))
	}
	if b.damping.Angular > 0 {
		cpBody.SetAngularVelocity(cpBody.AngularVelocity() / (1 + dt*b.damping.Angular))
	}
}

func (b *body) applyForce(force ExternalForce) {
	b.cp.SetForce(toVector(force.Force))
	b.cp.SetTorque(float64(force.Torque.Z()))
}

func (b *body) applyImpulse(impulse ExternalImpulse) {
	b.cp.ApplyImpulseAtWorldPoint(toVector(impulse.Impulse), b.cp.Position())
	b.cp.SetAngularVelocity(b.cp.AngularVelocity() + float64(impulse.TorqueImpulse.Z())/b.cp.Moment())
	b.vz += float64(impulse.Impulse.Z()) / b.cp.Mass()
}

// integrateDepth advances the Z axis, which Chipmunk does not simulate.
func (b *body) integrateDepth(force *ExternalForce, dt float64) {
	if b.kind != Dynamic {
		return
	}
	if force != nil {
		b.vz += float64(force.Force.Z()) / b.cp.Mass() * dt
	}
	if b.damping.Linear > 0 {
		b.vz /= 1 + dt*b.damping.Linear
	}
	b.z += b.vz * dt
}

func (b *body) translation() mgl32.Vec3 {
	p := b.cp.Position()
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(b.z)}
}

func (b *body) rotation() mgl32.Quat {
	delta := b.cp.Angle() - b.baseAngle
	return mgl32.QuatRotate(float32(delta), mgl32.Vec3{0, 0, 1}).Mul(b.baseRotation).Normalize()
}

func (b *body) teleport(t spatial.Transform) {
	b.cp.SetPosition(toVector(t.Translation))
	b.z = float64(t.Translation.Z())
	w := t.Rotation
	if w == (mgl32.Quat{}) {
		w = mgl32.QuatIdent()
	}
	b.cp.SetAngle(zAngle(w))
}

// zAngle extracts the rotation about +Z of q.
func zAngle(q mgl32.Quat) float64 {
	return 2 * math.Atan2(float64(q.V.Z()), float64(q.W))
}
