package physics

import "github.com/jakecoffman/cp"

// DebugDraw renders every shape of the world through drawer.
func (w *World) DebugDraw(drawer cp.Drawer) {
	cp.DrawSpace(w.space, drawer)
}
