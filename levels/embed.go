package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// DefaultArena is the map used when no other is named.
const DefaultArena = "arena.tmx"

//go:embed *.tmx
var LevelsFS embed.FS

// Names lists the embedded arenas by file name.
func Names() ([]string, error) {
	matches, err := fs.Glob(LevelsFS, "*.tmx")
	if err != nil {
		return nil, fmt.Errorf("levels: glob: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Stem strips the .tmx suffix.
func Stem(name string) string {
	return strings.TrimSuffix(name, ".tmx")
}
