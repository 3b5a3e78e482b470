package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestFromXYZ(t *testing.T) {
	tr := FromXYZ(1.5, 2, 1)
	assert.Equal(t, mgl32.Vec3{1.5, 2, 1}, tr.Translation)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale)
	vecNear(t, mgl32.Vec3{2.5, 2, 1}, tr.Apply(mgl32.Vec3{1, 0, 0}))
}

func TestLookingAt(t *testing.T) {
	camera := FromXYZ(0, 3, 10).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	want := mgl32.Vec3{0, -3, -10}.Normalize()
	vecNear(t, want, camera.Forward())
	assert.Greater(t, camera.Up().Y(), float32(0))
}

func TestLookingAtSelfIsNoop(t *testing.T) {
	tr := FromXYZ(1, 1, 1)
	assert.Equal(t, tr, tr.LookingAt(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 0}))
}

func TestMatrixZeroScale(t *testing.T) {
	tr := Transform{Translation: mgl32.Vec3{0, 5, 0}, Rotation: mgl32.QuatIdent()}
	vecNear(t, mgl32.Vec3{0, 5, 0}, tr.Apply(mgl32.Vec3{}))
	vecNear(t, mgl32.Vec3{1, 5, 0}, tr.Apply(mgl32.Vec3{1, 0, 0}))
}
