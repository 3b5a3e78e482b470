package bootstrap

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/input"
	"github.com/plus3/meshfall/physics"
)

// ErrControllerCount is returned when the scene does not hold exactly one
// character controller.
var ErrControllerCount = errors.New("bootstrap: expected exactly one character controller")

const (
	walkSpeed = 5
	jumpSpeed = 10
	// fallBias pulls the character down when it is not jumping.
	fallBias = 10
)

// ControllerDisplacement turns the held keys into this frame's requested
// move. Arrows walk on the XZ plane; W and S nudge the height only on the
// frame they are pressed, and a constant downward bias is applied.
func ControllerDisplacement(keys input.Keys, dt float32) mgl32.Vec3 {
	var move mgl32.Vec3
	if keys.Pressed(input.KeyRight) {
		move[0] += dt * walkSpeed
	}
	if keys.Pressed(input.KeyLeft) {
		move[0] -= dt * walkSpeed
	}
	if keys.Pressed(input.KeyDown) {
		move[2] += dt * walkSpeed
	}
	if keys.Pressed(input.KeyUp) {
		move[2] -= dt * walkSpeed
	}
	if keys.JustPressed(input.KeyW) {
		move[1] += dt * jumpSpeed
	}
	if keys.JustPressed(input.KeyS) {
		move[1] -= dt * jumpSpeed
	}
	move[1] = dt * jumpSpeed * (move[1] - fallBias)
	return move
}

// ControllerSystem writes the requested move of the single character
// controller each frame.
type ControllerSystem struct {
	Keys        ecs.Resource[input.Keys]
	Controllers ecs.Query[struct{ *physics.CharacterController }]
}

// Execute implements ecs.System.
func (s *ControllerSystem) Execute(frame *ecs.UpdateFrame) {
	_, item, err := s.Controllers.Single()
	if err != nil {
		frame.Fail(fmt.Errorf("%w: %w", ErrControllerCount, err))
		return
	}

	var keys input.Keys
	if k := s.Keys.Get(); k != nil {
		keys = *k
	}
	move := ControllerDisplacement(keys, float32(frame.DeltaTime))
	item.Translation = &move
}
