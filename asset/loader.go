package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrNoLoader is returned when no loader claims a path's extension.
var ErrNoLoader = errors.New("asset: no loader for path")

// Loader decodes raw file contents into an asset value. Loaders run on
// loader goroutines and must not touch shared state.
type Loader interface {
	Extensions() []string
	Load(path string, data []byte) (any, error)
}

// MeshLoader decodes *.mesh.yaml files into *Mesh.
type MeshLoader struct{}

type meshSpec struct {
	Name      string      `yaml:"name"`
	Positions [][]float32 `yaml:"positions"`
	Indices   []uint32    `yaml:"indices"`
}

// Extensions implements Loader.
func (MeshLoader) Extensions() []string {
	return []string{".mesh.yaml", ".mesh.yml"}
}

// Load implements Loader.
func (MeshLoader) Load(path string, data []byte) (any, error) {
	var spec meshSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("asset: unmarshal %s: %w", path, err)
	}

	mesh := &Mesh{Name: spec.Name, Indices: spec.Indices}
	if mesh.Name == "" {
		mesh.Name = strings.TrimSuffix(path, ".mesh.yaml")
	}
	mesh.Positions = make([]mgl32.Vec3, len(spec.Positions))
	for i, p := range spec.Positions {
		if len(p) != 3 {
			return nil, fmt.Errorf("%w: %s: position %d has %d components", ErrInvalidMesh, path, i, len(p))
		}
		mesh.Positions[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("asset: %s: %w", path, err)
	}
	return mesh, nil
}

func loaderFor(loaders []Loader, path string) Loader {
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			if strings.HasSuffix(path, ext) {
				return l
			}
		}
	}
	return nil
}
