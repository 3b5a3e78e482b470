package asset

import (
	"embed"
	"io/fs"
	"os"
	"path"
)

//go:embed models/*.yaml
var embedded embed.FS

// Embedded returns the assets compiled into the binary.
func Embedded() fs.FS {
	return embedded
}

// overlayFS serves files from dir on disk first and falls back to the
// embedded assets.
type overlayFS struct {
	disk     fs.FS
	fallback fs.FS
}

// Dir returns a filesystem rooted at dir that falls back to the embedded
// assets for any file missing on disk. An empty dir yields the embedded
// assets only.
func Dir(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	return overlayFS{disk: os.DirFS(dir), fallback: embedded}
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if f, err := o.disk.Open(name); err == nil {
		return f, nil
	}
	return o.fallback.Open(name)
}

func (o overlayFS) ReadFile(name string) ([]byte, error) {
	if data, err := fs.ReadFile(o.disk, name); err == nil {
		return data, nil
	}
	return fs.ReadFile(o.fallback, name)
}

func cleanPath(p string) string {
	return path.Clean(path.Join(".", p))
}
