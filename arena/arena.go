// Package arena loads Tiled maps into static collision geometry and spawn
// points.
package arena

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/lafriks/go-tiled"

	"github.com/milk9111/hordewave/levels"
	"github.com/milk9111/hordewave/physics"
)

// Object group names read from a map.
const (
	GroupSolids      = "Solids"
	GroupObstacles   = "Obstacles"
	GroupEnemySpawn  = "EnemySpawn"
	GroupTargetSpawn = "TargetSpawn"
)

var ErrMissingLayer = errors.New("arena: collision layer not configured")

type Arena struct {
	Name   string
	Width  float64
	Height float64

	Solids    []cp.BB
	Obstacles []cp.BB

	// EnemySpawns are ordered left to right.
	EnemySpawns    []cp.Vector
	TargetSpawn    cp.Vector
	HasTargetSpawn bool
}

// Load parses the TMX file at path inside fsys.
func Load(fsys fs.FS, path string) (*Arena, error) {
	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("arena: load %s: %w", path, err)
	}

	a := &Arena{
		Name:   levels.Stem(path),
		Width:  float64(m.Width * m.TileWidth),
		Height: float64(m.Height * m.TileHeight),
	}
	for _, og := range m.ObjectGroups {
		for _, o := range og.Objects {
			switch og.Name {
			case GroupSolids:
				a.Solids = append(a.Solids, rect(o.X, o.Y, o.Width, o.Height))
			case GroupObstacles:
				a.Obstacles = append(a.Obstacles, rect(o.X, o.Y, o.Width, o.Height))
			case GroupEnemySpawn:
				a.EnemySpawns = append(a.EnemySpawns, cp.Vector{X: o.X, Y: o.Y})
			case GroupTargetSpawn:
				if !a.HasTargetSpawn {
					a.TargetSpawn = cp.Vector{X: o.X, Y: o.Y}
					a.HasTargetSpawn = true
				}
			}
		}
	}

	sort.SliceStable(a.EnemySpawns, func(i, j int) bool {
		return a.EnemySpawns[i].X < a.EnemySpawns[j].X
	})
	return a, nil
}

// LoadEmbedded loads one of the arenas shipped in the levels package.
func LoadEmbedded(name string) (*Arena, error) {
	return Load(levels.LevelsFS, name)
}

// Resolve loads name from disk when it is an existing .tmx path, and from
// the embedded levels otherwise. "" and "flat" give Flat(640, 240).
func Resolve(name string) (*Arena, error) {
	switch name {
	case "", "flat":
		return Flat(640, 240), nil
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return Load(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	if !strings.HasSuffix(name, ".tmx") {
		name += ".tmx"
	}
	return LoadEmbedded(name)
}

// Flat is a walled floor with a spawn point at each end, for tests and
// tools that do not need a map file.
func Flat(width, height float64) *Arena {
	const wall = 16
	floor := height - wall
	return &Arena{
		Name:   "flat",
		Width:  width,
		Height: height,
		Solids: []cp.BB{
			rect(0, floor, width, wall),
			rect(0, 0, wall, floor),
			rect(width-wall, 0, wall, floor),
		},
		EnemySpawns:    []cp.Vector{{X: wall * 3, Y: floor - wall}, {X: width - wall*3, Y: floor - wall}},
		TargetSpawn:    cp.Vector{X: width / 2, Y: floor - wall},
		HasTargetSpawn: true,
	}
}

// Build adds the arena's static geometry to w: solids on "ground",
// obstacles on "obstacle".
func (a *Arena) Build(w *physics.World) error {
	ground := w.Layers().Lookup(physics.NameGround)
	obstacle := w.Layers().Lookup(physics.NameObstacle)
	if ground == physics.LayerNone {
		return fmt.Errorf("%w: %q", ErrMissingLayer, physics.NameGround)
	}
	if len(a.Obstacles) > 0 && obstacle == physics.LayerNone {
		return fmt.Errorf("%w: %q", ErrMissingLayer, physics.NameObstacle)
	}
	for _, bb := range a.Solids {
		w.AddStaticBox(bb, ground)
	}
	for _, bb := range a.Obstacles {
		w.AddStaticBox(bb, obstacle)
	}
	return nil
}

func rect(x, y, width, height float64) cp.BB {
	return cp.BB{L: x, B: y, R: x + width, T: y + height}
}
