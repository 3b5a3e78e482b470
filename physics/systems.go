package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/spatial"
)

type bodyView struct {
	Entity    ecs.Entity
	Transform *spatial.Transform

	Body      *RigidBody              `ecs:"optional"`
	Character *CharacterController    `ecs:"optional"`
	Collider  *Collider               `ecs:"optional"`
	Gravity   *GravityScale           `ecs:"optional"`
	Damping   *Damping                `ecs:"optional"`
	Mass      *ColliderMassProperties `ecs:"optional"`
	Force     *ExternalForce          `ecs:"optional"`
	Impulse   *ExternalImpulse        `ecs:"optional"`
	Velocity  *Velocity               `ecs:"optional"`
}

func (v bodyView) kind() (BodyKind, bool) {
	switch {
	case v.Body != nil:
		return v.Body.Kind, true
	case v.Character != nil:
		return KinematicPositionBased, true
	}
	return 0, false
}

// SyncSystem creates a Chipmunk body for every new entity carrying a
// RigidBody or CharacterController, and teleports kinematic bodies that are
// not driven by a character controller to their Transform.
type SyncSystem struct {
	World  ecs.Resource[World]
	Bodies ecs.Query[bodyView]
}

// Execute implements ecs.System.
func (s *SyncSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil {
		return
	}

	for e, item := range s.Bodies.Iter() {
		kind, ok := item.kind()
		if !ok {
			continue
		}

		b, exists := world.bodies[e]
		if !exists {
			world.create(e, bodySpec{
				kind:      kind,
				transform: *item.Transform,
				collider:  item.Collider,
				gravity:   item.Gravity,
				damping:   item.Damping,
				density:   item.Mass,
			})
			continue
		}

		if b.kind == KinematicPositionBased && item.Character == nil {
			b.teleport(*item.Transform)
		}
		if item.Gravity != nil {
			b.gravityScale = float64(*item.Gravity)
		}
		if item.Damping != nil {
			b.damping = *item.Damping
		}
	}
}

// StepSystem applies forces and pending impulses, advances the simulation by
// the frame delta and writes positions and velocities back.
type StepSystem struct {
	World  ecs.Resource[World]
	Bodies ecs.Query[bodyView]
}

// Execute implements ecs.System.
func (s *StepSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil || frame.DeltaTime <= 0 {
		return
	}

	for e, item := range s.Bodies.Iter() {
		b, ok := world.bodies[e]
		if !ok || b.kind != Dynamic {
			continue
		}
		if item.Impulse != nil && !item.Impulse.IsZero() {
			b.applyImpulse(*item.Impulse)
			*item.Impulse = ExternalImpulse{}
		}
	}

	steps := int(math.Ceil(frame.DeltaTime / maxSubstep))
	dt := frame.DeltaTime / float64(steps)
	for range steps {
		for e, item := range s.Bodies.Iter() {
			b, ok := world.bodies[e]
			if !ok || b.kind != Dynamic {
				continue
			}
			if item.Force != nil {
				b.applyForce(*item.Force)
			}
			b.integrateDepth(item.Force, dt)
		}
		world.space.Step(dt)
	}

	for e, item := range s.Bodies.Iter() {
		b, ok := world.bodies[e]
		if !ok || b.kind == Fixed {
			continue
		}
		item.Transform.Translation = b.translation()
		item.Transform.Rotation = b.rotation()
		if item.Velocity != nil {
			v := b.cp.Velocity()
			item.Velocity.Linear = mgl32.Vec3{float32(v.X), float32(v.Y), float32(b.vz)}
			item.Velocity.Angular = mgl32.Vec3{0, 0, float32(b.cp.AngularVelocity())}
		}
	}
}

type characterView struct {
	Entity     ecs.Entity
	Transform  *spatial.Transform
	Controller *CharacterController
}

const (
	// maxResolveIterations bounds how often one move is pushed out of
	// overlaps.
	maxResolveIterations = 4
	// maxCharacterStep is the longest XY distance moved before overlaps are
	// resolved, so fast moves cannot skip past thin shapes.
	maxCharacterStep = 0.25
)

// CharacterSystem moves every character body by its requested translation,
// pushing it out of any shape it would overlap and keeping Offset of
// clearance. The request is cleared afterwards.
type CharacterSystem struct {
	World      ecs.Resource[World]
	Characters ecs.Query[characterView]
}

// Execute implements ecs.System.
func (s *CharacterSystem) Execute(frame *ecs.UpdateFrame) {
	world := s.World.Get()
	if world == nil {
		return
	}

	for e, item := range s.Characters.Iter() {
		b, ok := world.bodies[e]
		if !ok || item.Controller.Translation == nil {
			continue
		}

		move := *item.Controller.Translation
		item.Controller.Translation = nil

		item.Controller.Grounded = world.moveCharacter(b, move, item.Controller.Offset)
		item.Transform.Translation = b.translation()
	}
}

// moveCharacter displaces b and resolves overlaps with other shapes. It
// reports whether the character ended up standing on something.
func (w *World) moveCharacter(b *body, move mgl32.Vec3, offset float64) bool {
	b.z += float64(move.Z())

	planar := toVector(move)
	steps := max(1, int(math.Ceil(planar.Length()/maxCharacterStep)))
	step := planar.Mult(1 / float64(steps))

	grounded := false
	for range steps {
		b.cp.SetPosition(b.cp.Position().Add(step))
		grounded = false
		for range maxResolveIterations {
			push, onGround, hit := w.penetration(b, offset)
			if !hit {
				break
			}
			grounded = grounded || onGround
			b.cp.SetPosition(b.cp.Position().Add(push))
		}
	}
	return grounded
}

// separation is the signed gap between the two surfaces of a contact along
// normal; it is negative while the shapes overlap. It is recomputed from the
// points because the Distance cp reports flips sign when it swaps the pair.
func separation(pointA, pointB, normal cp.Vector) float64 {
	return pointB.Sub(pointA).Dot(normal)
}

// penetration returns the largest correction needed to separate b from any
// other shape by offset.
func (w *World) penetration(b *body, offset float64) (cp.Vector, bool, bool) {
	var (
		best     cp.Vector
		bestLen  float64
		grounded bool
		hit      bool
	)
	for _, shape := range b.shapes {
		w.space.ShapeQuery(shape, func(other *cp.Shape, points *cp.ContactPointSet) {
			if other.Body() == b.cp || points.Count == 0 {
				return
			}
			deepest := math.Inf(1)
			for _, p := range points.Points[:points.Count] {
				deepest = min(deepest, separation(p.PointA, p.PointB, points.Normal))
			}
			depth := -deepest + offset
			if depth <= 0 {
				return
			}
			// The set's normal points from the character to the other shape.
			push := points.Normal.Neg()
			hit = true
			if push.Y > 0.5 {
				grounded = true
			}
			if depth > bestLen {
				bestLen = depth
				best = push.Mult(depth)
			}
		})
	}
	return best, grounded, hit
}
