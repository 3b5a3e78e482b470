package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

const debugCircleSegments = 24

// physicsDrawer renders Chipmunk shapes through the scene camera, placing
// them on the z = 0 plane.
type physicsDrawer struct {
	screen    *ebiten.Image
	projector Projector
}

func (d *physicsDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := range count {
		d.drawLine(verts[i], verts[(i+1)%count], outline)
	}
}

func (d *physicsDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, 0.05, fill)
}

func (d *physicsDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.4, B: 1, A: 0.9}
	}
	return cp.FColor{R: 0.1, G: 0.8, B: 0.1, A: 0.9}
}

func (d *physicsDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDrawer) Data() interface{} {
	return nil
}

func (d *physicsDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x0, y0, ok0 := d.projector.Project(mgl32.Vec3{float32(a.X), float32(a.Y), 0})
	x1, y1, ok1 := d.projector.Project(mgl32.Vec3{float32(b.X), float32(b.Y), 0})
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(d.screen, x0, y0, x1, y1, 1, toNRGBA(c), true)
}

func (d *physicsDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	prev := cp.Vector{X: center.X + radius, Y: center.Y}
	for i := 1; i <= debugCircleSegments; i++ {
		t := 2 * math.Pi * float64(i) / debugCircleSegments
		next := cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius}
		d.drawLine(prev, next, c)
		prev = next
	}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
