// Package wave runs survival waves: it picks archetypes from a weighted,
// wave-gated pool, scales clones, spawns them under a population cap and
// tracks when each wave is cleared.
package wave

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/prefabs"
)

var ErrNoEligibleEntries = errors.New("wave: no eligible pool entries")

type State int

const (
	Idle State = iota
	Rest
	Spawning
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rest:
		return "rest"
	case Spawning:
		return "spawning"
	case Active:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Archetypes resolves pool entry names to shared templates.
type Archetypes interface {
	Archetype(name string) (*prefabs.ArchetypeSpec, bool)
}

// Instance is the handle returned by a spawn. OnDied must fire at most once.
type Instance interface {
	Entity() ecs.Entity
	OnDied(fn func(evt actor.DeathEvent))
}

// Spawner instantiates an already scaled clone at pos.
type Spawner interface {
	Spawn(spec *prefabs.ArchetypeSpec, pos cp.Vector) (Instance, error)
}

type Options struct {
	// Rand drives pool selection. Nil seeds from the runtime.
	Rand        *rand.Rand
	SpawnPoints []cp.Vector
	Logger      *slog.Logger
}

type Orchestrator struct {
	cfg        prefabs.WaveSpec
	archetypes Archetypes
	spawner    Spawner
	rng        *rand.Rand
	points     []cp.Vector
	nextPoint  int
	logger     *slog.Logger

	state   State
	wave    int
	boss    bool
	timer   float64
	planned int
	spawned int
	alive   map[ecs.Entity]struct{}
	kills   int

	startedFns []func(wave int, boss bool)
	clearedFns []func(wave int)
	spawnedFns []func(inst Instance, spec *prefabs.ArchetypeSpec)
}

func New(cfg prefabs.WaveSpec, archetypes Archetypes, spawner Spawner, opts Options) *Orchestrator {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:        cfg,
		archetypes: archetypes,
		spawner:    spawner,
		rng:        rng,
		points:     append([]cp.Vector(nil), opts.SpawnPoints...),
		logger:     logger.With("subsystem", "wave"),
		alive:      make(map[ecs.Entity]struct{}),
	}
}

func (o *Orchestrator) OnWaveStarted(fn func(wave int, boss bool)) {
	if fn != nil {
		o.startedFns = append(o.startedFns, fn)
	}
}

func (o *Orchestrator) OnWaveCleared(fn func(wave int)) {
	if fn != nil {
		o.clearedFns = append(o.clearedFns, fn)
	}
}

func (o *Orchestrator) OnSpawned(fn func(inst Instance, spec *prefabs.ArchetypeSpec)) {
	if fn != nil {
		o.spawnedFns = append(o.spawnedFns, fn)
	}
}

func (o *Orchestrator) State() State             { return o.state }
func (o *Orchestrator) Wave() int                { return o.wave }
func (o *Orchestrator) BossWave() bool           { return o.boss }
func (o *Orchestrator) Alive() int               { return len(o.alive) }
func (o *Orchestrator) Planned() int             { return o.planned }
func (o *Orchestrator) Spawned() int             { return o.spawned }
func (o *Orchestrator) Kills() int               { return o.kills }
func (o *Orchestrator) Timer() float64           { return o.timer }
func (o *Orchestrator) Config() prefabs.WaveSpec { return o.cfg }

// Reload swaps the pool source and coefficients. Live instances keep the
// clones they were spawned with; the current wave's plan is unchanged.
func (o *Orchestrator) Reload(archetypes Archetypes, cfg prefabs.WaveSpec) {
	o.archetypes = archetypes
	o.cfg = cfg
}

// Start leaves Idle and begins the first wave immediately.
func (o *Orchestrator) Start() {
	if o.state != Idle {
		return
	}
	o.beginWave(max(o.wave, 1))
}

// Update advances the rest countdown, the spawn cadence and wave
// completion.
func (o *Orchestrator) Update(dt float64) {
	switch o.state {
	case Rest:
		o.timer -= dt
		if o.timer <= 1e-9 {
			o.beginWave(o.wave)
		}
	case Spawning:
		o.timer -= dt
		for o.timer <= 1e-9 && o.spawned < o.planned {
			if o.atCap() {
				// Throttled; try again as soon as someone dies.
				o.timer = 0
				return
			}
			if !o.spawnOne() {
				continue
			}
			o.timer += o.cfg.SpawnInterval
			if o.cfg.SpawnInterval <= 0 {
				o.timer = 0
			}
		}
		if o.spawned >= o.planned {
			o.state = Active
			o.checkCleared()
		}
	case Active:
		o.checkCleared()
	}
}

func (o *Orchestrator) atCap() bool {
	return o.cfg.MaxAlive > 0 && len(o.alive) >= o.cfg.MaxAlive
}

func (o *Orchestrator) beginWave(n int) {
	o.wave = n
	o.boss = o.cfg.IsBossWave(n)
	o.planned = o.cfg.CountFor(n)
	if o.boss {
		if _, ok := o.archetypes.Archetype(o.cfg.BossArchetype); ok {
			o.planned = 1
		} else {
			o.logger.Warn("boss archetype missing; using the regular pool", "wave", n, "archetype", o.cfg.BossArchetype)
			o.boss = false
		}
	}
	o.spawned = 0
	o.timer = 0
	o.state = Spawning
	o.logger.Info("wave started", "wave", n, "boss", o.boss, "planned", o.planned)
	for _, fn := range o.startedFns {
		fn(n, o.boss)
	}
}

func (o *Orchestrator) checkCleared() {
	if len(o.alive) > 0 {
		return
	}
	cleared := o.wave
	o.wave++
	o.state = Rest
	o.timer = o.cfg.RestTime
	o.logger.Info("wave cleared", "wave", cleared, "kills", o.kills)
	for _, fn := range o.clearedFns {
		fn(cleared)
	}
}

// spawnOne consumes one planned slot whether or not the spawn succeeds, so
// bad data cannot stall a wave. Failed attempts do not wait out the spawn
// interval.
func (o *Orchestrator) spawnOne() bool {
	o.spawned++
	name := o.cfg.BossArchetype
	if !o.boss {
		var err error
		name, err = o.Pick(o.wave)
		if err != nil {
			o.logger.Warn("skipping spawn", "wave", o.wave, "err", err)
			return false
		}
	}
	base, ok := o.archetypes.Archetype(name)
	if !ok {
		o.logger.Warn("skipping spawn", "wave", o.wave, "err", fmt.Errorf("%w: %q", prefabs.ErrUnknownArchetype, name))
		return false
	}
	spec := base.Clone()
	o.cfg.ScaleFor(o.wave).Apply(spec)

	inst, err := o.spawner.Spawn(spec, o.spawnPoint())
	if err != nil {
		o.logger.Warn("spawn failed", "wave", o.wave, "archetype", name, "err", err)
		return false
	}
	e := inst.Entity()
	o.alive[e] = struct{}{}
	inst.OnDied(func(actor.DeathEvent) { o.onDied(e) })
	o.logger.Debug("spawned", "wave", o.wave, "archetype", name, "entity", e, "alive", len(o.alive))
	for _, fn := range o.spawnedFns {
		fn(inst, spec)
	}
	return true
}

func (o *Orchestrator) spawnPoint() cp.Vector {
	if len(o.points) == 0 {
		return cp.Vector{}
	}
	p := o.points[o.nextPoint%len(o.points)]
	o.nextPoint++
	return p
}

func (o *Orchestrator) onDied(e ecs.Entity) {
	if _, ok := o.alive[e]; !ok {
		return
	}
	delete(o.alive, e)
	o.kills++
}

// Pick draws one archetype name for wave. Entries gated above wave, with a
// non-positive weight or naming an unknown archetype are skipped.
func (o *Orchestrator) Pick(wave int) (string, error) {
	var total float64
	eligible := make([]prefabs.PoolEntrySpec, 0, len(o.cfg.Pool))
	for _, e := range o.cfg.Pool {
		if e.MinWave > wave || e.Weight <= 0 {
			continue
		}
		if _, ok := o.archetypes.Archetype(e.Archetype); !ok {
			o.logger.Warn("pool entry skipped", "archetype", e.Archetype, "err", prefabs.ErrUnknownArchetype)
			continue
		}
		eligible = append(eligible, e)
		total += e.Weight
	}
	if len(eligible) == 0 {
		return "", fmt.Errorf("%w: wave %d", ErrNoEligibleEntries, wave)
	}
	r := o.rng.Float64() * total
	for _, e := range eligible {
		r -= e.Weight
		if r < 0 {
			return e.Archetype, nil
		}
	}
	return eligible[len(eligible)-1].Archetype, nil
}
