// Package behavior is the per-enemy state machine. It owns state timers
// and arbitrates between perception, locomotion, combat and health.
package behavior

import (
	"errors"
	"log/slog"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ai/combat"
	"github.com/milk9111/hordewave/ai/locomotion"
	"github.com/milk9111/hordewave/ai/perception"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
	"github.com/milk9111/hordewave/prefabs"
)

var ErrMissingPart = errors.New("behavior: missing part")

// Targets resolves a weak target handle. ok is false once the target is
// gone.
type Targets interface {
	TargetPosition(target ecs.Entity) (cp.Vector, bool)
}

// Parts are the collaborators a controller drives. Body, Sensor, Mover,
// Combat and Health are required.
type Parts struct {
	Body      locomotion.Body
	Sensor    *perception.Sensor
	Mover     locomotion.Mover
	Combat    *combat.Executor
	Health    *actor.Health
	Targets   Targets
	Striker   combat.Striker
	Modifiers actor.Modifiers
	Logger    *slog.Logger
}

type Controller struct {
	owner     ecs.Entity
	archetype string
	cfg       Config
	reward    actor.Reward
	p         Parts
	mods      actor.Modifiers
	logger    *slog.Logger

	state State
	timer float64

	target     ecs.Entity
	hasTarget  bool
	lastTarget cp.Vector
	attackDist float64
	killer     ecs.Entity

	stateFns []func(from, to State)
	diedFns  []func(evt actor.DeathEvent)
}

// New wires the controller to its parts. Subscriptions are made here so no
// event can arrive before the controller is listening.
func New(owner ecs.Entity, archetype string, cfg Config, reward actor.Reward, parts Parts) (*Controller, error) {
	switch {
	case parts.Body == nil:
		return nil, errors.Join(ErrMissingPart, errors.New("body"))
	case parts.Sensor == nil:
		return nil, errors.Join(ErrMissingPart, errors.New("sensor"))
	case parts.Mover == nil:
		return nil, errors.Join(ErrMissingPart, errors.New("mover"))
	case parts.Combat == nil:
		return nil, errors.Join(ErrMissingPart, errors.New("combat"))
	case parts.Health == nil:
		return nil, errors.Join(ErrMissingPart, errors.New("health"))
	}
	logger := parts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		owner:     owner,
		archetype: archetype,
		cfg:       cfg,
		reward:    reward,
		p:         parts,
		mods:      actor.OrUnmodified(parts.Modifiers),
		logger:    logger.With("subsystem", "behavior", "entity", owner, "archetype", archetype),
		state:     Idle,
		timer:     cfg.IdleTime,
	}
	parts.Sensor.OnTargetDetected(c.onTargetDetected)
	parts.Sensor.OnTargetLost(c.onTargetLost)
	parts.Combat.OnAttackComplete(c.onAttackComplete)
	parts.Health.OnDamageTaken(c.onDamageTaken)
	parts.Health.OnDeath(c.onDeath)
	return c, nil
}

func (c *Controller) OnStateChanged(fn func(from, to State)) {
	if fn != nil {
		c.stateFns = append(c.stateFns, fn)
	}
}

// OnDied fires exactly once, after the transition to Dead.
func (c *Controller) OnDied(fn func(evt actor.DeathEvent)) {
	if fn != nil {
		c.diedFns = append(c.diedFns, fn)
	}
}

func (c *Controller) Owner() ecs.Entity          { return c.owner }
func (c *Controller) Archetype() string          { return c.archetype }
func (c *Controller) State() State               { return c.state }
func (c *Controller) Timer() float64             { return c.timer }
func (c *Controller) Health() *actor.Health      { return c.p.Health }
func (c *Controller) Combat() *combat.Executor   { return c.p.Combat }
func (c *Controller) Sensor() *perception.Sensor { return c.p.Sensor }
func (c *Controller) Mover() locomotion.Mover    { return c.p.Mover }

// Target returns the remembered target.
func (c *Controller) Target() (ecs.Entity, bool) { return c.target, c.hasTarget }

// FixedUpdate runs on the physics cadence: perception first, then
// locomotion for the moving states.
func (c *Controller) FixedUpdate() {
	if c.state == Dead {
		return
	}
	c.p.Sensor.Tick(c.p.Body.Position(), c.p.Mover.Facing(), physics.LayerNone)
	switch c.state {
	case Patrol:
		c.p.Mover.Patrol()
	case Chase:
		if pos, ok := c.targetPosition(); ok {
			c.p.Mover.ChaseTarget(pos)
		}
	}
}

// Update runs timers, transitions and the attack timeline.
func (c *Controller) Update(dt float64) {
	switch c.state {
	case Idle:
		if c.countdown(dt) {
			c.transition(Patrol)
		}
	case Alert:
		if c.countdown(dt) {
			c.resume()
		}
	case Chase:
		c.updateChase()
	case Attack:
		c.updateAttack(dt)
	case Cooldown, Stunned:
		if c.countdown(dt) {
			c.resume()
		}
	}
}

func (c *Controller) updateChase() {
	pos, ok := c.targetPosition()
	if !ok {
		c.transition(Patrol)
		return
	}
	d := c.p.Body.Position().Distance(pos)
	if !c.p.Combat.HasAttacks() || d > c.p.Combat.MaxRange() {
		return
	}
	if _, ok := c.p.Combat.Select(d); !ok {
		return
	}
	c.attackDist = d
	c.transition(Attack)
}

func (c *Controller) updateAttack(dt float64) {
	if !c.p.Combat.Busy() {
		c.transition(Cooldown)
		return
	}
	target := c.lastTarget
	if pos, ok := c.targetPosition(); ok {
		target = pos
	}
	c.p.Combat.Tick(dt, combat.Frame{
		Origin:  c.p.Body.Position(),
		Facing:  c.p.Mover.Facing(),
		Target:  target,
		Striker: c.p.Striker,
	})
}

// resume leaves Cooldown or Stunned toward the remembered target, or back
// to Patrol when there is none.
func (c *Controller) resume() {
	if _, ok := c.targetPosition(); ok {
		c.transition(Chase)
		return
	}
	c.transition(Patrol)
}

func (c *Controller) countdown(dt float64) bool {
	c.timer -= dt
	return c.timer <= 1e-9
}

func (c *Controller) targetPosition() (cp.Vector, bool) {
	if !c.hasTarget || c.p.Targets == nil {
		return cp.Vector{}, false
	}
	pos, ok := c.p.Targets.TargetPosition(c.target)
	if ok {
		c.lastTarget = pos
	}
	return pos, ok
}

// transition moves to `to` and follows any immediate follow-up state the
// entry produces. Dead is terminal.
func (c *Controller) transition(to State) {
	for {
		if c.state == Dead {
			return
		}
		from := c.state
		if from == Attack {
			c.p.Combat.Interrupt()
		}
		c.state = to
		c.timer = 0
		next, follow := c.enter(to)
		for _, fn := range c.stateFns {
			fn(from, to)
		}
		c.logger.Debug("state changed", "from", from.String(), "to", to.String())
		if to == Dead {
			c.dispatchDeath()
			return
		}
		if !follow {
			return
		}
		to = next
	}
}

func (c *Controller) enter(s State) (State, bool) {
	switch s {
	case Idle:
		c.timer = c.cfg.IdleTime
		c.p.Mover.Stop()
	case Patrol:
		if c.hasTarget {
			return Alert, true
		}
	case Alert:
		c.timer = c.cfg.AlertDelay
		c.p.Mover.Stop()
	case Attack:
		c.p.Mover.Stop()
		if !c.p.Combat.Begin(c.attackDist) {
			c.logger.Warn("no attack matches distance; resuming chase", "distance", c.attackDist)
			return Chase, true
		}
	case Cooldown:
		c.timer = c.cfg.Cooldown * c.mods.CooldownMultiplier()
	case Stunned:
		c.timer = c.cfg.StunDuration
		c.p.Mover.Stop()
	case Dead:
		c.p.Combat.Interrupt()
		c.p.Mover.Stop()
		c.p.Sensor.Reset()
		c.hasTarget = false
	}
	return s, false
}

func (c *Controller) dispatchDeath() {
	evt := actor.DeathEvent{
		Entity:    c.owner,
		Archetype: c.archetype,
		Reward:    c.reward,
		Position:  c.p.Body.Position(),
		Killer:    c.killer,
	}
	for _, fn := range c.diedFns {
		fn(evt)
	}
}

func (c *Controller) onTargetDetected(target ecs.Entity) {
	c.target = target
	c.hasTarget = true
	if c.state == Patrol {
		c.transition(Alert)
	}
}

func (c *Controller) onTargetLost() {
	c.hasTarget = false
	c.target = 0
	if c.state == Chase || c.state == Alert {
		c.transition(Patrol)
	}
}

func (c *Controller) onAttackComplete(prefabs.AttackSpec) {
	if c.state == Attack {
		c.transition(Cooldown)
	}
}

func (c *Controller) onDamageTaken(h *actor.Health, evt actor.DamageEvent) {
	if c.state == Dead || !h.IsAlive() || h.StunImmune() {
		return
	}
	c.transition(Stunned)
	if evt.HasOrigin && evt.Knockback > 0 {
		dir := c.p.Body.Position().Sub(evt.Origin)
		if dir.LengthSq() > 0 {
			impulse := dir.Normalize().Mult(evt.Knockback * (1 - h.KnockbackResistance))
			c.p.Body.SetVelocity(c.p.Body.Velocity().Add(impulse))
		}
	}
}

func (c *Controller) onDeath(_ *actor.Health, evt actor.DamageEvent) {
	c.killer = evt.Source
	c.transition(Dead)
}
