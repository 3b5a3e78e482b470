package asset

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidMesh is returned when a mesh's index buffer does not describe
// whole triangles over its positions.
var ErrInvalidMesh = errors.New("asset: invalid mesh")

// Mesh is an indexed triangle list.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Indices   []uint32
}

// Validate checks that indices come in triples and reference existing
// positions.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: index %d at %d out of range (%d positions)", ErrInvalidMesh, idx, i, len(m.Positions))
		}
	}
	return nil
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Positions) == 0 || len(m.Indices) < 3
}

// TriangleCount returns the number of whole triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) [3]mgl32.Vec3 {
	base := i * 3
	return [3]mgl32.Vec3{
		m.Positions[m.Indices[base]],
		m.Positions[m.Indices[base+1]],
		m.Positions[m.Indices[base+2]],
	}
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for axis := range 3 {
			lo[axis] = min(lo[axis], p[axis])
			hi[axis] = max(hi[axis], p[axis])
		}
	}
	return lo, hi
}

// Cube builds an axis-aligned cube with the given edge length centred on the
// origin.
func Cube(size float32) *Mesh {
	h := size / 2
	positions := []mgl32.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 6, 2, 3, 7, 6, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return &Mesh{Name: "cube", Positions: positions, Indices: indices}
}

// Plane builds a square on the XZ plane with the given edge length.
func Plane(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Name: "plane",
		Positions: []mgl32.Vec3{
			{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}
