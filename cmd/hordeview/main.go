package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/levels"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/session"
)

const (
	heroHealth    = 300
	heroStep      = 8
	heroReach     = 36
	heroDamage    = 15
	heroKnockback = 160
)

func main() {
	arenaName := flag.String("arena", levels.DefaultArena, "arena: embedded name, .tmx path, or flat")
	prefabDir := flag.String("prefabs", "prefabs", "directory checked for prefab overrides before the embedded copies")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	logPath := flag.String("log", "", "write logs to this file (the terminal is busy)")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := run(logger, *arenaName, *prefabDir, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, arenaName, prefabDir string, seed uint64) error {
	prefabs.SetDiskDir(prefabDir)
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		return err
	}
	ar, err := arena.Resolve(arenaName)
	if err != nil {
		return err
	}
	sess, err := session.New(session.Config{Catalog: cat, Arena: ar, Seed: seed, Logger: logger})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	v := newViewer(sess, screen)
	sess.Start()
	v.loop()
	return nil
}

// viewer owns the hero target and the key bindings around one session.
type viewer struct {
	sess     *session.Session
	render   *renderer
	hero     ecs.Entity
	pos      cp.Vector
	paused   bool
	selected int
}

func newViewer(sess *session.Session, screen tcell.Screen) *viewer {
	hero := sess.AddDefaultTarget("hero", heroHealth)
	pos, _ := sess.TargetPosition(hero)
	return &viewer{
		sess:     sess,
		render:   &renderer{screen: screen, arena: sess.Arena(), ranges: true},
		hero:     hero,
		pos:      pos,
		selected: -1,
	}
}

func (v *viewer) loop() {
	ticker := time.NewTicker(common.FixedStepDuration)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.render.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.handle(ev) {
				return
			}
		case <-ticker.C:
			if !v.paused {
				v.sess.Tick(common.FixedStep)
			}
			view := v.sess.Snapshot()
			if v.selected >= len(view.Enemies) {
				v.selected = -1
			}
			v.render.Draw(view, v.selected, v.paused)
		}
	}
}

// handle applies one input event and reports whether to keep running.
func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.render.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.move(-heroStep)
		case tcell.KeyRight:
			v.move(heroStep)
		case tcell.KeyTab:
			v.cycle()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'h':
				v.move(-heroStep)
			case 'l':
				v.move(heroStep)
			case ' ':
				v.swing()
			case 'p':
				v.paused = !v.paused
			case 'r':
				v.render.ranges = !v.render.ranges
			}
		}
	}
	return true
}

func (v *viewer) move(dx float64) {
	v.pos.X = common.Clamp(v.pos.X+dx, 0, v.sess.Arena().Width)
	v.sess.MoveTarget(v.hero, v.pos)
}

func (v *viewer) swing() {
	for _, e := range v.sess.EnemiesNear(v.pos, heroReach) {
		v.sess.DamageEnemy(e, heroDamage, heroKnockback, v.hero, v.pos)
	}
}

func (v *viewer) cycle() {
	n := len(v.sess.Snapshot().Enemies)
	if n == 0 {
		v.selected = -1
		return
	}
	v.selected = (v.selected + 1) % n
}
