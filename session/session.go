// Package session owns one running horde encounter: the ECS and physics
// worlds, the catalog, the wave orchestrator and the outside collaborators.
// It is the spawn, target-lookup and strike surface the AI packages call
// back into.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ai/behavior"
	"github.com/milk9111/hordewave/ai/boss"
	"github.com/milk9111/hordewave/ai/combat"
	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/system"
	"github.com/milk9111/hordewave/physics"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/telemetry"
	"github.com/milk9111/hordewave/wave"
)

var (
	ErrNoCatalog     = errors.New("session: catalog required")
	ErrNoSpawnPoints = errors.New("session: arena has no enemy spawn points")
)

const (
	defaultGravity = 900
	targetRadius   = 6
	// corpseFrames is how many fixed steps a dead enemy stays visible.
	corpseFrames = 45
)

// Hooks are the optional outside collaborators. Nil members are no-ops.
type Hooks struct {
	Rewards   actor.RewardSink
	BossFight boss.FightHooks
	Events    telemetry.Sink
}

type Config struct {
	Catalog *prefabs.Catalog
	// Arena defaults to a flat walled floor.
	Arena   *arena.Arena
	Seed    uint64
	Gravity float64
	Logger  *slog.Logger
	Hooks   Hooks
}

type masks struct {
	ground, obstacle, enemy, target physics.Layer
}

type Session struct {
	catalog *prefabs.Catalog
	arena   *arena.Arena
	ents    *ecs.World
	phys    *physics.World
	sched   *ecs.Scheduler
	waves   *wave.Orchestrator
	shots   *combat.ProjectileSet
	rng     *rand.Rand
	logger  *slog.Logger
	hooks   Hooks
	events  telemetry.Sink
	masks   masks
	clock   float64

	selectors map[string]combat.Selector
}

var (
	_ wave.Spawner     = (*Session)(nil)
	_ behavior.Targets = (*Session)(nil)
	_ combat.Striker   = (*Session)(nil)
)

func New(cfg Config) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if cfg.Arena == nil {
		cfg.Arena = arena.Flat(640, 240)
	}
	if len(cfg.Arena.EnemySpawns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSpawnPoints, cfg.Arena.Name)
	}
	if cfg.Gravity == 0 {
		cfg.Gravity = defaultGravity
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	layers := physics.DefaultLayers()
	if names := cfg.Catalog.Layers(); len(names) > 0 {
		var err error
		if layers, err = physics.NewLayers(names...); err != nil {
			return nil, fmt.Errorf("session: layers: %w", err)
		}
	}
	phys := physics.NewWorld(layers, cfg.Gravity)
	if err := cfg.Arena.Build(phys); err != nil {
		return nil, fmt.Errorf("session: build arena: %w", err)
	}

	s := &Session{
		catalog: cfg.Catalog,
		arena:   cfg.Arena,
		ents:    ecs.NewWorld(),
		phys:    phys,
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		logger:  logger.With("subsystem", "session"),
		hooks:   cfg.Hooks,
		events:  cfg.Hooks.Events,
		masks: masks{
			ground:   layers.Lookup(physics.NameGround),
			obstacle: layers.Lookup(physics.NameObstacle),
			enemy:    layers.Lookup(physics.NameEnemy),
			target:   layers.Lookup(physics.NameTarget),
		},
		selectors: make(map[string]combat.Selector),
	}
	if s.hooks.Rewards == nil {
		s.hooks.Rewards = actor.NopRewards{}
	}
	if s.events == nil {
		s.events = telemetry.Nop{}
	}

	s.shots = combat.NewProjectileSet(phys, s.masks.ground|s.masks.obstacle)
	s.shots.OnHit(func(evt combat.HitEvent) {
		s.emit(telemetry.Event{Type: telemetry.EventTargetHit, Entity: uint64(evt.Target), Archetype: evt.Attack, Amount: evt.Damage})
	})

	s.waves = wave.New(cfg.Catalog.Wave(), cfg.Catalog, s, wave.Options{
		Rand:        s.childRand(),
		SpawnPoints: cfg.Arena.EnemySpawns,
		Logger:      logger,
	})
	s.waves.OnWaveStarted(func(n int, bossWave bool) {
		evt := telemetry.Event{Type: telemetry.EventWaveStarted, Wave: n}
		if bossWave {
			evt.Phase = "boss"
		}
		s.emit(evt)
	})
	s.waves.OnWaveCleared(func(n int) {
		s.emit(telemetry.Event{Type: telemetry.EventWaveCleared, Wave: n})
	})

	s.sched = ecs.NewScheduler(common.FixedStep)
	s.sched.AddFixed(system.NewAISenseSystem())
	s.sched.AddFixed(system.NewPhysicsSystem(phys))
	s.sched.AddFixed(system.NewProjectileSystem(s.shots, s))
	s.sched.AddFixed(system.NewTTLSystem(phys))
	s.sched.Add(system.NewAIControllerSystem())
	s.sched.Add(system.NewBossSystem())
	s.sched.Add(system.NewWaveSystem(s.waves))

	s.logger.Info("session created", "arena", cfg.Arena.Name, "spawn_points", len(cfg.Arena.EnemySpawns), "seed", cfg.Seed)
	return s, nil
}

func (s *Session) childRand() *rand.Rand {
	return rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
}

func (s *Session) World() *ecs.World                { return s.ents }
func (s *Session) Physics() *physics.World          { return s.phys }
func (s *Session) Arena() *arena.Arena              { return s.arena }
func (s *Session) Catalog() *prefabs.Catalog        { return s.catalog }
func (s *Session) Orchestrator() *wave.Orchestrator { return s.waves }
func (s *Session) Clock() float64                   { return s.clock }

// Start triggers the first wave.
func (s *Session) Start() {
	s.waves.Start()
}

// Tick advances the encounter by dt seconds and flushes queued events to
// the event sink.
func (s *Session) Tick(dt float64) {
	s.clock += dt
	s.sched.Update(s.ents, dt)
	s.flush()
}

func (s *Session) Progress() wave.Progress { return s.waves.Snapshot() }

// Restore seeds wave progress. It only applies before Start.
func (s *Session) Restore(p wave.Progress) bool {
	return s.waves.Restore(p)
}

// ReloadCatalog swaps in a freshly loaded catalog between ticks. Live
// enemies keep the clones they were spawned from.
func (s *Session) ReloadCatalog(c *prefabs.Catalog) {
	if c == nil {
		return
	}
	if !slices.Equal(c.Layers(), s.catalog.Layers()) {
		s.logger.Warn("layer table changed; keeping the running layout until restart")
	}
	s.catalog = c
	s.waves.Reload(c, c.Wave())
	clear(s.selectors)
	s.logger.Info("catalog reloaded", "archetypes", len(c.Names()))
}

func (s *Session) emit(evt telemetry.Event) {
	evt.Time = s.clock
	s.ents.Events().Push(ecs.Event{Type: evt.Type, Entity: ecs.Entity(evt.Entity), Data: evt})
}

func (s *Session) flush() {
	s.ents.Events().Dispatch(func(e ecs.Event) {
		if evt, ok := e.Data.(telemetry.Event); ok {
			s.events.Emit(evt)
		}
	})
}

func (s *Session) layerOr(name, fallback string) physics.Layer {
	if name == "" {
		name = fallback
	}
	return s.phys.Layers().Lookup(name)
}

func facingFor(pos cp.Vector, width float64) float64 {
	if pos.X > width/2 {
		return -1
	}
	return 1
}
