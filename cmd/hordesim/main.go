package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/levels"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/save"
	"github.com/milk9111/hordewave/session"
	"github.com/milk9111/hordewave/telemetry"
)

const appName = "hordewave"

func main() {
	arenaName := flag.String("arena", "", "arena: embedded name, .tmx path, or flat (default: embedded default arena)")
	prefabDir := flag.String("prefabs", "prefabs", "directory checked for prefab overrides before the embedded copies")
	seed := flag.Uint64("seed", 1, "random seed")
	duration := flag.Duration("duration", 2*time.Minute, "simulated time to run")
	realtime := flag.Bool("realtime", false, "pace ticks to wall-clock time")
	watch := flag.Bool("watch", false, "reload prefabs when files in -prefabs change")
	listen := flag.String("listen", "", "serve the spectator websocket on this address (e.g. :8080)")
	persist := flag.Bool("save", false, "resume from and store wave progress in the user data directory")
	reset := flag.Bool("reset", false, "clear stored progress before starting")
	autopilot := flag.Bool("autopilot", true, "drive a target that moves and fights back")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, options{
		arena:     *arenaName,
		prefabDir: *prefabDir,
		seed:      *seed,
		duration:  *duration,
		realtime:  *realtime,
		watch:     *watch,
		listen:    *listen,
		persist:   *persist,
		reset:     *reset,
		autopilot: *autopilot,
	}); err != nil {
		logger.Error("hordesim failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	arena     string
	prefabDir string
	seed      uint64
	duration  time.Duration
	realtime  bool
	watch     bool
	listen    string
	persist   bool
	reset     bool
	autopilot bool
}

func run(logger *slog.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prefabs.SetDiskDir(opts.prefabDir)
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return err
	}

	name := opts.arena
	if name == "" {
		name = levels.DefaultArena
	}
	ar, err := arena.Resolve(name)
	if err != nil {
		return err
	}

	sinks := telemetry.Fanout{telemetry.NewLogSink(logger)}
	if opts.listen != "" {
		hub := telemetry.NewHub(logger)
		defer hub.Close()
		srv := &http.Server{Addr: opts.listen, Handler: hub, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator server stopped", "err", err)
			}
		}()
		defer srv.Close()
		logger.Info("spectator stream listening", "addr", opts.listen)
		sinks = append(sinks, hub)
	}

	tally := newTally(logger)
	sess, err := session.New(session.Config{
		Catalog: cat,
		Arena:   ar,
		Seed:    opts.seed,
		Logger:  logger,
		Hooks:   session.Hooks{Rewards: tally, BossFight: tally, Events: sinks},
	})
	if err != nil {
		return err
	}

	var store *save.ProgressStore
	if opts.persist {
		if store, err = openStore(sess, logger, opts.reset); err != nil {
			return err
		}
	}

	var reloads <-chan prefabs.Change
	if opts.watch {
		w, err := prefabs.WatchDiskDir()
		if err != nil {
			logger.Warn("prefab watch unavailable", "dir", opts.prefabDir, "err", err)
		} else {
			defer w.Close()
			reloads = w.Changes()
			logger.Info("watching prefabs", "dir", opts.prefabDir)
		}
	}

	var driver *pilot
	if opts.autopilot {
		driver = newPilot(sess)
	}

	sess.Start()
	steps := int(opts.duration.Seconds() / common.FixedStep)
	ticker := time.NewTicker(common.FixedStepDuration)
	defer ticker.Stop()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", "sim_time", sess.Clock())
		case c, ok := <-reloads:
			if !ok {
				reloads = nil
				break
			}
			reload(sess, logger, c.Path)
		default:
		}
		if ctx.Err() != nil {
			break
		}
		if driver != nil {
			driver.Step()
			if driver.Down() {
				logger.Info("target down", "sim_time", sess.Clock(), "wave", sess.Orchestrator().Wave())
				break
			}
		}
		sess.Tick(common.FixedStep)
		if opts.realtime {
			<-ticker.C
		}
	}

	progress := sess.Progress()
	logger.Info("run finished",
		"sim_time", sess.Clock(),
		"wave", progress.Wave,
		"kills", progress.Kills,
		"experience", tally.experience,
		"boss_fights", tally.bossFights,
		"drops", tally.drops,
	)
	if store != nil {
		if err := store.Save(progress); err != nil {
			return err
		}
	}
	return nil
}

func openStore(sess *session.Session, logger *slog.Logger, reset bool) (*save.ProgressStore, error) {
	store, err := save.Open(appName, logger)
	if err != nil {
		return nil, err
	}
	if reset {
		if err := store.Clear(); err != nil {
			return nil, err
		}
		return store, nil
	}
	rec, err := store.Load()
	switch {
	case errors.Is(err, save.ErrNoProgress):
	case err != nil:
		logger.Warn("stored progress unreadable; starting fresh", "err", err)
	default:
		sess.Restore(rec.Progress)
		logger.Info("progress restored", "wave", rec.Progress.Wave, "kills", rec.Progress.Kills, "best_wave", rec.BestWave)
	}
	return store, nil
}

func reload(sess *session.Session, logger *slog.Logger, file string) {
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		logger.Warn("prefab reload failed; keeping current catalog", "file", file, "err", err)
		return
	}
	if err := cat.Validate(); err != nil {
		logger.Warn("reloaded prefabs invalid; keeping current catalog", "file", file, "err", err)
		return
	}
	sess.ReloadCatalog(cat)
}
