// Package config loads the YAML settings of the example programs.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaults []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Vec3 decodes a three element YAML sequence.
type Vec3 [3]float32

// Vec returns v as a mathgl vector.
func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3(v)
}

// Config holds every setting of the example programs.
type Config struct {
	Window      Window      `yaml:"window"`
	Assets      Assets      `yaml:"assets"`
	Physics     Physics     `yaml:"physics"`
	Scene       Scene       `yaml:"scene"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
}

// Window sizes the ebiten window and its tick rate.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
}

// Assets locates the scene's mesh files.
type Assets struct {
	// Dir overrides the embedded assets with files on disk.
	Dir   string `yaml:"dir"`
	Floor string `yaml:"floor"`
}

// Physics configures the simulated world.
type Physics struct {
	Gravity Vec3 `yaml:"gravity"`
}

// Scene holds the placement and tuning of every spawned body.
type Scene struct {
	Camera    Camera    `yaml:"camera"`
	Falling   Falling   `yaml:"falling"`
	Pushed    Pushed    `yaml:"pushed"`
	Character Character `yaml:"character"`
}

// Camera places the scene camera, looking at Target.
type Camera struct {
	Position Vec3 `yaml:"position"`
	Target   Vec3 `yaml:"target"`
}

// Falling is the dynamic ball dropped onto the floor.
type Falling struct {
	Position       Vec3    `yaml:"position"`
	CubeSize       float32 `yaml:"cube_size"`
	BallRadius     float32 `yaml:"ball_radius"`
	GravityScale   float64 `yaml:"gravity_scale"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
}

// Pushed is the collider-less body driven by a constant force and a
// one-off impulse.
type Pushed struct {
	Force         Vec3 `yaml:"force"`
	Torque        Vec3 `yaml:"torque"`
	Impulse       Vec3 `yaml:"impulse"`
	TorqueImpulse Vec3 `yaml:"torque_impulse"`
}

// Character is the keyboard-driven kinematic body.
type Character struct {
	Position    Vec3    `yaml:"position"`
	HalfExtents Vec3    `yaml:"half_extents"`
	Offset      float64 `yaml:"offset"`
	Density     float64 `yaml:"density"`
}

// Diagnostics controls periodic logging of frame diagnostics.
type Diagnostics struct {
	Log         bool          `yaml:"log"`
	LogInterval time.Duration `yaml:"log_interval"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaults, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads path over the defaults; keys missing from the file keep their
// default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg.Validate()
}

// Validate checks ranges the scene relies on.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	case c.Assets.Floor == "":
		return fmt.Errorf("%w: assets.floor is empty", ErrInvalid)
	case c.Scene.Falling.BallRadius <= 0:
		return fmt.Errorf("%w: falling ball radius %v", ErrInvalid, c.Scene.Falling.BallRadius)
	case c.Scene.Falling.CubeSize <= 0:
		return fmt.Errorf("%w: falling cube size %v", ErrInvalid, c.Scene.Falling.CubeSize)
	case c.Scene.Falling.LinearDamping < 0 || c.Scene.Falling.AngularDamping < 0:
		return fmt.Errorf("%w: negative damping", ErrInvalid)
	case c.Scene.Character.Offset < 0:
		return fmt.Errorf("%w: character offset %v", ErrInvalid, c.Scene.Character.Offset)
	case c.Scene.Character.Density <= 0:
		return fmt.Errorf("%w: character density %v", ErrInvalid, c.Scene.Character.Density)
	}
	for _, h := range c.Scene.Character.HalfExtents {
		if h <= 0 {
			return fmt.Errorf("%w: character half extents %v", ErrInvalid, c.Scene.Character.HalfExtents)
		}
	}
	return nil
}
