package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/meshfall/spatial"
)

// Projector maps world points to screen pixels for one camera.
type Projector struct {
	viewProj mgl32.Mat4
	width    float32
	height   float32
}

// NewProjector builds a projector for a camera at pose on a screen of the
// given size.
func NewProjector(pose spatial.Transform, camera Camera, width, height int) Projector {
	aspect := float32(width) / float32(max(height, 1))
	proj := mgl32.Perspective(camera.FOV, aspect, camera.Near, camera.Far)

	rotation := pose.Rotation
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	camWorld := mgl32.Translate3D(pose.Translation.X(), pose.Translation.Y(), pose.Translation.Z()).
		Mul4(rotation.Normalize().Mat4())

	return Projector{
		viewProj: proj.Mul4(camWorld.Inv()),
		width:    float32(width),
		height:   float32(height),
	}
}

// Project returns the pixel position of p. ok is false when p is behind the
// camera.
func (p Projector) Project(point mgl32.Vec3) (x, y float32, ok bool) {
	clip := p.viewProj.Mul4x1(point.Vec4(1))
	if clip.W() <= 1e-4 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = (ndc.X() + 1) / 2 * p.width
	y = (1 - ndc.Y()) / 2 * p.height
	return x, y, true
}
