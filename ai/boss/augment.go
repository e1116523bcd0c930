// Package boss layers HP-threshold phases over an enemy. Each phase scales
// speed, damage and cooldown at the point of use; base stats stay intact.
package boss

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/prefabs"
)

type Phase int

const (
	Phase1 Phase = iota
	Phase2
	Enraged
	Dead
)

func (p Phase) String() string {
	switch p {
	case Phase1:
		return "phase1"
	case Phase2:
		return "phase2"
	case Enraged:
		return "enraged"
	case Dead:
		return "dead"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// FightHooks is the session collaborator told when a boss fight starts and
// ends. A nil FightHooks is a no-op.
type FightHooks interface {
	EnterBossFight()
	ExitBossFight()
}

type stage struct {
	threshold float64
	speed     float64
	damage    float64
	cooldown  float64
}

func stageFrom(s prefabs.BossStageSpec) stage {
	st := stage{threshold: s.Threshold, speed: s.Speed, damage: s.Damage, cooldown: s.Cooldown}
	if st.speed <= 0 {
		st.speed = 1
	}
	if st.damage <= 0 {
		st.damage = 1
	}
	if st.cooldown <= 0 {
		st.cooldown = 1
	}
	return st
}

// Augment tracks the phase of one boss. Phases only advance.
type Augment struct {
	health *actor.Health
	hooks  FightHooks
	logger *slog.Logger

	stages  [Dead]stage
	present [Dead]bool
	phase   Phase
	live    Phase
	active  bool

	phaseFns []func(from, to Phase)
}

func New(spec prefabs.BossSpec, health *actor.Health, hooks FightHooks, logger *slog.Logger) *Augment {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Augment{health: health, hooks: hooks, logger: logger.With("subsystem", "boss")}
	a.stages[Phase1] = stageFrom(spec.Phase1)
	a.present[Phase1] = true
	if spec.Phase2 != nil {
		a.stages[Phase2] = stageFrom(*spec.Phase2)
		a.present[Phase2] = true
	}
	if spec.Enraged != nil {
		a.stages[Enraged] = stageFrom(*spec.Enraged)
		a.present[Enraged] = true
	}
	if health != nil {
		health.OnDamageTaken(func(*actor.Health, actor.DamageEvent) { a.Evaluate() })
		health.OnDeath(func(*actor.Health, actor.DamageEvent) { a.die() })
	}
	return a
}

func (a *Augment) OnPhaseChanged(fn func(from, to Phase)) {
	if fn != nil {
		a.phaseFns = append(a.phaseFns, fn)
	}
}

func (a *Augment) Phase() Phase { return a.phase }
func (a *Augment) Active() bool { return a.active }

// Activate starts the fight once. Later calls do nothing.
func (a *Augment) Activate() {
	if a.active || a.phase == Dead {
		return
	}
	a.active = true
	a.logger.Info("boss fight started")
	if a.hooks != nil {
		a.hooks.EnterBossFight()
	}
}

// Evaluate advances through every phase whose threshold the current HP
// fraction has crossed, emitting one change per phase.
func (a *Augment) Evaluate() {
	if a.phase == Dead || !a.health.IsAlive() {
		return
	}
	frac := a.health.Fraction()
	for next := a.phase + 1; next < Dead; next++ {
		if !a.present[next] {
			continue
		}
		if frac > a.stages[next].threshold {
			break
		}
		a.setPhase(next)
	}
}

func (a *Augment) die() {
	if a.phase == Dead {
		return
	}
	a.setPhase(Dead)
	if a.active {
		a.active = false
		a.logger.Info("boss fight ended")
		if a.hooks != nil {
			a.hooks.ExitBossFight()
		}
	}
}

func (a *Augment) setPhase(to Phase) {
	from := a.phase
	a.phase = to
	if to != Dead {
		a.live = to
	}
	a.logger.Info("boss phase changed", "from", from.String(), "to", to.String())
	for _, fn := range a.phaseFns {
		fn(from, to)
	}
}

// current is the multiplier row in effect. Dead keeps the last live row.
func (a *Augment) current() stage {
	for p := a.live; p >= Phase1; p-- {
		if a.present[p] {
			return a.stages[p]
		}
	}
	return stage{speed: 1, damage: 1, cooldown: 1}
}

func (a *Augment) SpeedMultiplier() float64    { return a.current().speed }
func (a *Augment) DamageMultiplier() float64   { return a.current().damage }
func (a *Augment) CooldownMultiplier() float64 { return a.current().cooldown }

var _ actor.Modifiers = (*Augment)(nil)
