package bootstrap

import (
	"context"
	"io/fs"
	"log"

	"github.com/plus3/meshfall/asset"
	"github.com/plus3/meshfall/config"
	"github.com/plus3/meshfall/diagnostics"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/ecs/debugui"
	"github.com/plus3/meshfall/input"
	"github.com/plus3/meshfall/physics"
	"github.com/plus3/meshfall/render"
)

// Options configure an App.
type Options struct {
	Variant Variant
	// Source feeds the Keys resource every frame. Nil leaves the keys empty.
	Source input.Source
	// Assets overrides the filesystem derived from the configuration.
	Assets fs.FS
	Logger *log.Logger
	// Debug spawns the ImGui panels. The host must bracket frames with an
	// ImGui backend.
	Debug bool
	// LogDiagnostics periodically logs the frame diagnostics.
	LogDiagnostics bool
}

// App owns the storage, scheduler and state machine of one scene.
type App struct {
	Config    config.Config
	Variant   Variant
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Machine   *ecs.StateMachine[LoadState]
	Assets    *asset.Server
	// Stats is set when Options.Debug is.
	Stats *debugui.PerformanceStats
}

// RegisterComponents registers every component type the scene spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	physics.RegisterComponents(registry)
	render.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	ecs.RegisterComponent[FPSText](registry)
}

// NewApp builds the scene for cfg. Assets start loading immediately; the
// scene is built by the first frame after they resolve.
func NewApp(cfg config.Config, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	fsys := opts.Assets
	if fsys == nil {
		fsys = asset.Dir(cfg.Assets.Dir)
	}
	server := asset.NewServer(fsys, logger)
	ecs.InsertResource(storage, *LoadModels(server, cfg.Assets.Floor))
	ecs.InsertResource(storage, render.Materials{})
	physics.InsertWorld(storage, physics.Settings{Gravity: cfg.Physics.Gravity.Vec()}, logger)

	final := opts.Variant.Final()
	machine := ecs.NewStateMachine(storage, Loading, final, logger)
	machine.Update(Loading, asset.NewLoadingSystem[Models](server, machine, Ready))
	machine.OnEnter(Ready, NewSceneBuilder(server, cfg.Scene, opts.Variant, machine))

	app := &App{
		Config:    cfg,
		Variant:   opts.Variant,
		Storage:   storage,
		Scheduler: scheduler,
		Machine:   machine,
		Assets:    server,
	}

	scheduler.AddStartup(ecs.SystemFunc(SpawnInfoText))

	if opts.Source != nil {
		scheduler.Register(input.NewPollSystem(opts.Source))
	}
	scheduler.Register(diagnostics.InsertFrameTime(storage))
	scheduler.Register(machine)

	gate := machine.InState(final)
	if opts.Variant == Character {
		scheduler.RegisterIf(&ControllerSystem{}, gate)
	}
	scheduler.RegisterIf(&OverlaySystem{}, gate)

	scheduler.Register(&physics.SyncSystem{})
	scheduler.Register(&physics.CharacterSystem{})
	scheduler.Register(&physics.StepSystem{})

	if opts.LogDiagnostics {
		scheduler.Register(diagnostics.NewLogSystem(logger, cfg.Diagnostics.LogInterval))
	}
	if opts.Debug {
		app.Stats = debugui.SpawnDebugUI(storage, scheduler)
		storage.Spawn(debugui.ImguiItem{Render: debugui.StateWindow(machine, Loading, Ready, InGame)})
		scheduler.Register(&debugui.ImguiSystem{})
	}
	return app
}

// Frame runs one frame of dt seconds.
func (a *App) Frame(dt float64) error {
	return a.Scheduler.Once(dt)
}

// WaitAssets blocks until every requested asset has finished loading. The
// next frame then observes the completed collection.
func (a *App) WaitAssets(ctx context.Context) error {
	return a.Assets.Wait(ctx)
}

// State returns the current phase.
func (a *App) State() LoadState {
	return a.Machine.Current()
}

// Scene returns the spawned entities, or nil before the scene is built.
func (a *App) Scene() *Scene {
	return ecs.GetResource[Scene](a.Storage)
}
