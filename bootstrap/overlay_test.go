package bootstrap

import (
	"testing"

	"github.com/plus3/meshfall/diagnostics"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayText(t *testing.T) {
	assert.Equal(t,
		"This text changes in the bottom right - 59.9 fps, 16.694 ms/frame",
		OverlayText(59.94, 16.6941))
}

func newOverlayStorage(t *testing.T) (*ecs.Storage, *ecs.Scheduler, ecs.Entity, ecs.Entity) {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	scheduler := ecs.NewScheduler(storage)
	scheduler.AddStartup(ecs.SystemFunc(SpawnInfoText))
	scheduler.Register(&OverlaySystem{})
	require.NoError(t, scheduler.Once(0))

	require.Equal(t, 1, ecs.NewQuery[struct{ *FPSText }](storage).Count())

	var fps, static ecs.Entity
	for e, item := range ecs.NewQuery[struct {
		*render.Text
		FPS *FPSText `ecs:"optional"`
	}](storage).Iter() {
		if item.FPS != nil {
			fps = e
		} else {
			static = e
		}
	}
	return storage, scheduler, fps, static
}

func TestOverlayWithoutSamples(t *testing.T) {
	storage, scheduler, fps, static := newOverlayStorage(t)

	require.NoError(t, scheduler.Once(0.25))

	assert.Equal(t,
		"This text changes in the bottom right - 0.0 fps, 0.250 ms/frame",
		ecs.ReadComponent[render.Text](storage, fps).Value)

	text := ecs.ReadComponent[render.Text](storage, static)
	assert.Contains(t, text.Value, "line breaks")
	assert.Equal(t, render.BottomLeft, text.Corner)
	assert.Equal(t, float32(200), text.Width)
}

func TestOverlayUsesSmoothedSamples(t *testing.T) {
	storage, scheduler, fps, _ := newOverlayStorage(t)

	store := ecs.NewResource(storage, diagnostics.NewStore()).Get()
	store.Register(diagnostics.NewDiagnostic(diagnostics.FPS, "", 0))
	store.Register(diagnostics.NewDiagnostic(diagnostics.FrameTime, "ms", 0))
	store.Add(diagnostics.FPS, 60)
	store.Add(diagnostics.FrameTime, 16.667)

	require.NoError(t, scheduler.Once(0.25))

	text := ecs.ReadComponent[render.Text](storage, fps)
	assert.Equal(t, "This text changes in the bottom right - 60.0 fps, 16.667 ms/frame", text.Value)
	assert.Equal(t, render.BottomRight, text.Corner)
	assert.Equal(t, float32(15), text.MarginX)
	assert.Equal(t, float32(5), text.MarginY)
}
