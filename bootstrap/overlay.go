package bootstrap

import (
	"fmt"

	"github.com/plus3/meshfall/diagnostics"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/render"
)

// FPSText tags the overlay rewritten by OverlaySystem.
type FPSText struct{}

// OverlayText formats the frame-rate overlay.
func OverlayText(fps, frameTime float64) string {
	return fmt.Sprintf("This text changes in the bottom right - %.1f fps, %.3f ms/frame", fps, frameTime)
}

// OverlaySystem rewrites every FPSText overlay from the smoothed frame
// diagnostics. Missing fps reads as zero; missing frame time falls back to
// the raw frame delta.
type OverlaySystem struct {
	Store ecs.Resource[diagnostics.Store]
	Texts ecs.Query[struct {
		*render.Text
		*FPSText
	}]
}

// Execute implements ecs.System.
func (s *OverlaySystem) Execute(frame *ecs.UpdateFrame) {
	fps, frameTime := 0.0, frame.DeltaTime
	if store := s.Store.Get(); store != nil {
		if v, ok := store.Smoothed(diagnostics.FPS); ok {
			fps = v
		}
		if v, ok := store.Smoothed(diagnostics.FrameTime); ok {
			frameTime = v
		}
	}

	value := OverlayText(fps, frameTime)
	for item := range s.Texts.Values() {
		item.Value = value
	}
}

const (
	infoMarginX = 15
	infoMarginY = 5
	infoWidth   = 200
)

// SpawnInfoText spawns the two corner overlays: the changing frame-rate text
// and a static wrapped paragraph.
func SpawnInfoText(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(
		render.Text{
			Value:   "This text changes in the bottom right",
			Corner:  render.BottomRight,
			MarginX: infoMarginX,
			MarginY: infoMarginY,
		},
		FPSText{},
	)
	frame.Commands.Spawn(render.Text{
		Value:   "This\ntext has\nline breaks and also a set width in the bottom left",
		Corner:  render.BottomLeft,
		MarginX: infoMarginX,
		MarginY: infoMarginY,
		Width:   infoWidth,
	})
}
