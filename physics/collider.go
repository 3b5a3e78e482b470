package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/plus3/meshfall/asset"
)

// ErrDegenerateMesh is returned when a mesh has no triangle with area.
var ErrDegenerateMesh = errors.New("physics: mesh has no non-degenerate triangles")

// ShapeKind is the geometry of a Collider.
type ShapeKind int

const (
	BallShape ShapeKind = iota
	CuboidShape
	TriMeshShape
)

// Collider is the immutable collision geometry of a body, in body-local
// coordinates.
type Collider struct {
	Kind        ShapeKind
	Radius      float32
	HalfExtents mgl32.Vec3
	Triangles   [][3]mgl32.Vec3
}

// Ball returns a sphere collider.
func Ball(radius float32) Collider {
	return Collider{Kind: BallShape, Radius: radius}
}

// Cuboid returns a box collider with the given half extents.
func Cuboid(hx, hy, hz float32) Collider {
	return Collider{Kind: CuboidShape, HalfExtents: mgl32.Vec3{hx, hy, hz}}
}

const areaEpsilon = 1e-6

// TriMeshFromMesh copies the non-degenerate triangles of mesh into a
// triangle-mesh collider.
func TriMeshFromMesh(mesh *asset.Mesh) (Collider, error) {
	if mesh.IsEmpty() {
		return Collider{}, fmt.Errorf("%w: empty mesh", ErrDegenerateMesh)
	}
	if err := mesh.Validate(); err != nil {
		return Collider{}, fmt.Errorf("physics: trimesh from %q: %w", mesh.Name, err)
	}

	triangles := make([][3]mgl32.Vec3, 0, mesh.TriangleCount())
	for i := range mesh.TriangleCount() {
		tri := mesh.Triangle(i)
		if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len() <= areaEpsilon {
			continue
		}
		triangles = append(triangles, tri)
	}
	if len(triangles) == 0 {
		return Collider{}, fmt.Errorf("%w: %q", ErrDegenerateMesh, mesh.Name)
	}
	return Collider{Kind: TriMeshShape, Triangles: triangles}, nil
}

// shapes builds the Chipmunk shapes of c attached to body. Triangles whose
// projection onto the XY plane has area become polygons; the rest collapse to
// their distinct edges.
func (c Collider) shapes(body *cp.Body) []*cp.Shape {
	switch c.Kind {
	case BallShape:
		return []*cp.Shape{cp.NewCircle(body, float64(c.Radius), cp.Vector{})}
	case CuboidShape:
		return []*cp.Shape{cp.NewBox(body, 2*float64(c.HalfExtents.X()), 2*float64(c.HalfExtents.Y()), 0)}
	}

	var shapes []*cp.Shape
	seen := make(map[[2]cp.Vector]bool)
	addEdge := func(a, b cp.Vector) {
		if a.Sub(b).Length() <= areaEpsilon {
			return
		}
		if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
			a, b = b, a
		}
		key := [2]cp.Vector{a, b}
		if seen[key] {
			return
		}
		seen[key] = true
		shapes = append(shapes, cp.NewSegment(body, a, b, 0))
	}

	for _, tri := range c.Triangles {
		verts := []cp.Vector{toVector(tri[0]), toVector(tri[1]), toVector(tri[2])}
		area := verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[0]))
		switch {
		case area > areaEpsilon:
			shapes = append(shapes, cp.NewPolyShapeRaw(body, 3, verts, 0))
		case area < -areaEpsilon:
			verts[1], verts[2] = verts[2], verts[1]
			shapes = append(shapes, cp.NewPolyShapeRaw(body, 3, verts, 0))
		default:
			addEdge(verts[0], verts[1])
			addEdge(verts[1], verts[2])
			addEdge(verts[2], verts[0])
		}
	}
	return shapes
}

func toVector(v mgl32.Vec3) cp.Vector {
	return cp.Vector{X: float64(v.X()), Y: float64(v.Y())}
}
