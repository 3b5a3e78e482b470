package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/meshfall/asset"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/ecs/debugui"
	debugui_ebiten "github.com/plus3/meshfall/ecs/debugui/ebiten"
	"github.com/plus3/meshfall/physics"
	"github.com/plus3/meshfall/spatial"
)

// Stepper advances the simulation by one frame.
type Stepper interface {
	Frame(dt float64) error
}

// Options configure a Game.
type Options struct {
	Width  int
	Height int
	// PhysicsDebug overlays collision shapes.
	PhysicsDebug bool
	// Imgui, when set, wraps every update in an ImGui frame and draws it on
	// top of the scene.
	Imgui *debugui_ebiten.ImguiBackend
	// Stats receives every frame delta.
	Stats *debugui.PerformanceStats
}

var background = color.NRGBA{R: 24, G: 26, B: 32, A: 255}

type cameraView struct {
	*spatial.Transform
	*Camera
}

type meshView struct {
	Transform *spatial.Transform
	Mesh      *MeshRef
	Material  *MaterialRef `ecs:"optional"`
}

// Game implements ebiten.Game over a Stepper and its storage.
type Game struct {
	stepper Stepper
	storage *ecs.Storage
	assets  *asset.Server
	options Options
	timer   *FrameTimer

	cameras *ecs.Query[cameraView]
	meshes  *ecs.Query[meshView]
	texts   *ecs.Query[struct{ *Text }]
}

// NewGame creates the host for stepper.
func NewGame(stepper Stepper, storage *ecs.Storage, assets *asset.Server, options Options) *Game {
	return &Game{
		stepper: stepper,
		storage: storage,
		assets:  assets,
		options: options,
		timer:   NewFrameTimer(),
		cameras: ecs.NewQuery[cameraView](storage),
		meshes:  ecs.NewQuery[meshView](storage),
		texts:   ecs.NewQuery[struct{ *Text }](storage),
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := g.timer.Delta()
	if g.options.Stats != nil {
		g.options.Stats.Record(dt)
	}
	if g.options.Imgui != nil {
		return g.options.Imgui.Frame(func() error { return g.stepper.Frame(dt) })
	}
	return g.stepper.Frame(dt)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if projector, ok := g.projector(); ok {
		g.drawMeshes(screen, projector)
		if g.options.PhysicsDebug {
			if world := ecs.GetResource[physics.World](g.storage); world != nil {
				world.DebugDraw(&physicsDrawer{screen: screen, projector: projector})
			}
		}
	}

	g.drawTexts(screen)

	if g.options.Imgui != nil {
		g.options.Imgui.Overlay(screen)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.options.Imgui != nil {
		g.options.Imgui.Layout(outsideWidth, outsideHeight)
	}
	return g.options.Width, g.options.Height
}

func (g *Game) projector() (Projector, bool) {
	for cam := range g.cameras.Values() {
		return NewProjector(*cam.Transform, *cam.Camera, g.options.Width, g.options.Height), true
	}
	return Projector{}, false
}

func (g *Game) drawMeshes(screen *ebiten.Image, projector Projector) {
	materials := ecs.GetResource[Materials](g.storage)
	brightness := float32(1)
	if light := ecs.GetResource[AmbientLight](g.storage); light != nil {
		brightness = light.Brightness
	}

	for item := range g.meshes.Values() {
		mesh, err := asset.Get[*asset.Mesh](g.assets, item.Mesh.Handle)
		if err != nil {
			continue
		}

		material := Silver
		if item.Material != nil && materials != nil {
			if m, ok := materials.Get(*item.Material); ok {
				material = m
			}
		}
		clr := shade(material.Color, brightness)

		model := item.Transform.Matrix()
		for i := range mesh.TriangleCount() {
			tri := mesh.Triangle(i)
			for j := range 3 {
				a := model.Mul4x1(tri[j].Vec4(1)).Vec3()
				b := model.Mul4x1(tri[(j+1)%3].Vec4(1)).Vec3()
				x0, y0, ok0 := projector.Project(a)
				x1, y1, ok1 := projector.Project(b)
				if !ok0 || !ok1 {
					continue
				}
				vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
			}
		}
	}
}

func (g *Game) drawTexts(screen *ebiten.Image) {
	bounds := screen.Bounds()
	for item := range g.texts.Values() {
		lines, xs, ys := item.Layout(bounds.Dx(), bounds.Dy())
		for i, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, xs[i], ys[i])
		}
	}
}

func shade(c color.NRGBA, brightness float32) color.NRGBA {
	scale := func(v uint8) uint8 {
		return uint8(min(float32(v)*brightness, 255))
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
