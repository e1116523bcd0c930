package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// diskDir is read before the embedded copies so designers can iterate
// without rebuilding. Empty disables overrides.
var diskDir = "prefabs"

func SetDiskDir(dir string) { diskDir = dir }
func DiskDir() string       { return diskDir }

// Source is the prefab file system: each file comes from diskDir when it
// exists there and from the embedded copy otherwise.
func Source() fs.FS {
	return overlay{disk: diskDir}
}

type overlay struct {
	disk string
}

func (o overlay) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if o.disk != "" {
		if f, err := os.DirFS(o.disk).Open(name); err == nil {
			return f, nil
		}
	}
	return embedded.Open(name)
}

// Load reads a prefab file. Names may carry a leading "prefabs/".
func Load(name string) ([]byte, error) {
	return fs.ReadFile(Source(), specPath(name))
}

// LoadScript reads an attack script by bare name or scripts/ path.
func LoadScript(name string) ([]byte, error) {
	return fs.ReadFile(Source(), scriptPath(name))
}

func specPath(name string) string {
	p := path.Clean(filepath.ToSlash(name))
	return strings.TrimPrefix(p, "prefabs/")
}

func scriptPath(name string) string {
	return path.Join("scripts", strings.TrimPrefix(specPath(name), "scripts/"))
}
