// Package spatial holds the placement component shared by physics and
// rendering.
package spatial

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in world space.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns a transform at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromXYZ returns an identity transform translated to (x, y, z).
func FromXYZ(x, y, z float32) Transform {
	t := Identity()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// FromTranslation returns an identity transform translated to v.
func FromTranslation(v mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// LookingAt rotates t so that its forward axis (-Z) points at target. up
// must not be parallel to the view direction.
func (t Transform) LookingAt(target, up mgl32.Vec3) Transform {
	dir := target.Sub(t.Translation)
	if dir.Len() == 0 {
		return t
	}
	view := mgl32.LookAtV(t.Translation, target, up)
	t.Rotation = mgl32.Mat4ToQuat(view.Inv()).Normalize()
	return t
}

// Forward returns the direction the transform faces.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Up returns the transform's local +Y axis in world space.
func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Matrix returns the model matrix translate * rotate * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Apply maps a local point into world space.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, t.Matrix())
}
