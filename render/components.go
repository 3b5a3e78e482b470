// Package render draws the scene with ebiten: wireframe meshes, overlay text
// and optional debug layers.
package render

import (
	"image/color"
	"math"

	"github.com/plus3/meshfall/asset"
	"github.com/plus3/meshfall/ecs"
)

// MeshRef points an entity at a mesh asset.
type MeshRef struct {
	Handle asset.Handle
}

// MaterialRef points an entity at an entry of the Materials resource.
type MaterialRef struct {
	ID int
}

// Material is a flat colour.
type Material struct {
	Name  string
	Color color.NRGBA
}

// Silver is the default material of scene bodies.
var Silver = Material{Name: "silver", Color: color.NRGBA{R: 192, G: 192, B: 192, A: 255}}

// Materials stores every material by index. It is kept as a resource.
type Materials struct {
	list []Material
}

// Add stores m and returns a reference to it.
func (m *Materials) Add(material Material) MaterialRef {
	m.list = append(m.list, material)
	return MaterialRef{ID: len(m.list) - 1}
}

// Get resolves ref.
func (m *Materials) Get(ref MaterialRef) (Material, bool) {
	if ref.ID < 0 || ref.ID >= len(m.list) {
		return Material{}, false
	}
	return m.list[ref.ID], true
}

// Len returns the number of stored materials.
func (m *Materials) Len() int {
	return len(m.list)
}

// Camera is a perspective camera; its pose comes from the entity's
// Transform.
type Camera struct {
	FOV  float32
	Near float32
	Far  float32
}

// DefaultCamera returns a 45 degree camera.
func DefaultCamera() Camera {
	return Camera{FOV: math.Pi / 4, Near: 0.1, Far: 1000}
}

// AmbientLight scales the brightness of every drawn material. It is kept as
// a resource.
type AmbientLight struct {
	Color      color.NRGBA
	Brightness float32
}

// RegisterComponents registers the render component types.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[MeshRef](registry)
	ecs.RegisterComponent[MaterialRef](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Text](registry)
}
