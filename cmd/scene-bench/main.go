// Command scene-bench runs a scene headless with scripted input and prints a
// timing report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/meshfall/bootstrap"
	"github.com/plus3/meshfall/config"
	"github.com/plus3/meshfall/diagnostics"
	"github.com/plus3/meshfall/ecs"
	"github.com/plus3/meshfall/input"
	"github.com/plus3/meshfall/physics"
	"github.com/plus3/meshfall/spatial"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the run should last.")
	variantName := flag.String("variant", "character", "Scene to run: character or gravity.")
	configPath := flag.String("config", "", "YAML file overriding the default configuration.")
	assetsDir := flag.String("assets", "", "Directory searched for assets before the embedded ones.")
	script := flag.String("script", "right,right,right+w,right,left,left,up,down", "Comma-separated key frames replayed in a loop.")
	tps := flag.Int("tps", 0, "Fixed ticks per second; 0 keeps the configured value.")
	logDiagnostics := flag.Bool("log-diagnostics", false, "Periodically log frame diagnostics.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	variant, err := bootstrap.ParseVariant(*variantName)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}
	if *tps > 0 {
		cfg.Window.TPS = *tps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	source, err := input.ParseScript(*script)
	if err != nil {
		log.Fatal(err)
	}
	source.Loop = true

	app := bootstrap.NewApp(cfg, bootstrap.Options{
		Variant:        variant,
		Source:         source,
		LogDiagnostics: *logDiagnostics,
	})

	report := &Report{
		Duration:       *duration,
		Variant:        variant.String(),
		TPS:            cfg.Window.TPS,
		GCPauseMetrics: *gcPauseMetrics,
	}
	if err := run(app, report, *duration); err != nil {
		log.Fatal(err)
	}

	fmt.Println("\n\n--- Scene Bench Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// run steps app with a fixed delta until duration of wall time has passed.
func run(app *bootstrap.App, report *Report, duration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	loadStart := time.Now()
	if err := app.WaitAssets(ctx); err != nil {
		return fmt.Errorf("scene-bench: waiting for assets: %w", err)
	}
	report.LoadTime = time.Since(loadStart)

	runtime.ReadMemStats(&report.MemStatsStart)
	dt := 1 / float64(report.TPS)
	start := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			if err := app.Frame(dt); err != nil {
				return err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(start)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.collect(app)
	return nil
}

func (r *Report) collect(app *bootstrap.App) {
	r.FinalState = app.State().String()
	if world := ecs.GetResource[physics.World](app.Storage); world != nil {
		r.Bodies = world.BodyCount()
	}
	if store := ecs.GetResource[diagnostics.Store](app.Storage); store != nil {
		r.Diagnostics = store.Summary()
	}
	r.Systems = app.Scheduler.GetStats().Systems
	if scene := app.Scene(); scene != nil && scene.Character.Valid() {
		if t := ecs.ReadComponent[spatial.Transform](app.Storage, scene.Character); t != nil {
			r.Character = fmt.Sprintf("%.2f", t.Translation)
		}
	}
}
