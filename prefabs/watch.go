package prefabs

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change names one prefab or script file that settled after being written.
type Change struct {
	Path   string
	Script bool
}

// Watcher reports prefab edits. Changes are emitted once a file has been
// quiet for the debounce window, so an editor's save burst arrives as one
// Change after the file is complete.
type Watcher struct {
	fsw      *fsnotify.Watcher
	changes  chan Change
	errs     chan error
	done     chan struct{}
	once     sync.Once
	debounce time.Duration
}

func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		fsw:      fsw,
		changes:  make(chan Change, 16),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go w.run()
	return w, nil
}

// WatchDiskDir watches the override directory and its scripts folder when
// present.
func WatchDiskDir() (*Watcher, error) {
	dirs := []string{diskDir}
	if scripts := filepath.Join(diskDir, "scripts"); isDir(scripts) {
		dirs = append(dirs, scripts)
	}
	return NewWatcher(150*time.Millisecond, dirs...)
}

// Changes is closed when the watcher stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }
func (w *Watcher) Errors() <-chan error   { return w.errs }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.changes)

	pending := make(map[string]Change)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			c, relevant := classify(event)
			if !relevant {
				continue
			}
			pending[c.Path] = c
			timer.Reset(w.debounce)
		case <-timer.C:
			for _, p := range slices.Sorted(maps.Keys(pending)) {
				select {
				case w.changes <- pending[p]:
				case <-w.done:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

func classify(event fsnotify.Event) (Change, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return Change{}, false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		return Change{Path: event.Name}, true
	case ".tengo":
		return Change{Path: event.Name, Script: true}, true
	}
	return Change{}, false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
