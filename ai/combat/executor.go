// Package combat runs timed attacks: wind-up, active frames, recovery.
package combat

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/prefabs"
)

type Phase int

const (
	PhaseNone Phase = iota
	PhaseWindUp
	PhaseActive
	PhaseRecovery
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseWindUp:
		return "wind_up"
	case PhaseActive:
		return "active"
	case PhaseRecovery:
		return "recovery"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Damager applies damage to a target on behalf of an attacker.
type Damager interface {
	Strike(attacker, target ecs.Entity, amount, knockback float64, origin cp.Vector) bool
}

// Striker is the world surface an executor needs during active frames.
type Striker interface {
	Damager
	MeleeTargets(attacker ecs.Entity, center cp.Vector, radius float64) []ecs.Entity
	Launch(p Projectile)
}

// Frame is the per-tick context handed to Tick.
type Frame struct {
	Origin  cp.Vector
	Facing  cp.Vector
	Target  cp.Vector
	Striker Striker
}

// HitEvent reports damage dealt by a melee swing or projectile.
type HitEvent struct {
	Attacker ecs.Entity
	Target   ecs.Entity
	Attack   string
	Damage   float64
}

type Options struct {
	Selector  Selector
	Modifiers actor.Modifiers
}

// Executor owns the attack timeline of one enemy. At most one attack is in
// flight; Begin refuses while a phase is running.
type Executor struct {
	owner    ecs.Entity
	attacks  []prefabs.AttackSpec
	selector Selector
	mods     actor.Modifiers

	phase    Phase
	current  int
	elapsed  float64
	hits     HitTracker
	launched bool

	started  []func(atk prefabs.AttackSpec)
	hitFns   []func(evt HitEvent)
	complete []func(atk prefabs.AttackSpec)
	phaseFns []func(from, to Phase)
}

func NewExecutor(owner ecs.Entity, attacks []prefabs.AttackSpec, opts Options) *Executor {
	sel := opts.Selector
	if sel == nil {
		sel = FirstMatch{}
	}
	return &Executor{
		owner:    owner,
		attacks:  append([]prefabs.AttackSpec(nil), attacks...),
		selector: sel,
		mods:     actor.OrUnmodified(opts.Modifiers),
		current:  -1,
	}
}

func (x *Executor) OnAttackStarted(fn func(atk prefabs.AttackSpec)) {
	if fn != nil {
		x.started = append(x.started, fn)
	}
}

func (x *Executor) OnAttackHit(fn func(evt HitEvent)) {
	if fn != nil {
		x.hitFns = append(x.hitFns, fn)
	}
}

func (x *Executor) OnAttackComplete(fn func(atk prefabs.AttackSpec)) {
	if fn != nil {
		x.complete = append(x.complete, fn)
	}
}

func (x *Executor) OnPhaseChanged(fn func(from, to Phase)) {
	if fn != nil {
		x.phaseFns = append(x.phaseFns, fn)
	}
}

func (x *Executor) Phase() Phase { return x.phase }

// Busy reports whether an attack is in flight.
func (x *Executor) Busy() bool { return x.phase != PhaseNone }

// Current returns the attack in flight.
func (x *Executor) Current() (prefabs.AttackSpec, bool) {
	if x.current < 0 || x.phase == PhaseNone {
		return prefabs.AttackSpec{}, false
	}
	return x.attacks[x.current], true
}

// MaxRange is the largest MaxRange over all attacks.
func (x *Executor) MaxRange() float64 {
	var r float64
	for _, a := range x.attacks {
		r = max(r, a.MaxRange)
	}
	return r
}

// HasAttacks reports whether any attack is configured.
func (x *Executor) HasAttacks() bool { return len(x.attacks) > 0 }

// Select returns the index of the attack to use at distance.
func (x *Executor) Select(distance float64) (int, bool) {
	var idx []int
	for i, a := range x.attacks {
		if a.Matches(distance) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return -1, false
	}
	if len(idx) == 1 {
		return idx[0], true
	}
	candidates := make([]prefabs.AttackSpec, len(idx))
	for i, j := range idx {
		candidates[i] = x.attacks[j]
	}
	c := x.selector.Choose(candidates, distance)
	if c < 0 || c >= len(idx) {
		c = 0
	}
	return idx[c], true
}

// Begin starts the attack matching distance. It returns false while busy or
// when no range window matches.
func (x *Executor) Begin(distance float64) bool {
	if x.Busy() {
		return false
	}
	i, ok := x.Select(distance)
	if !ok {
		return false
	}
	x.current = i
	x.elapsed = 0
	x.hits.Reset()
	x.launched = false
	x.setPhase(PhaseWindUp)
	for _, fn := range x.started {
		fn(x.attacks[i])
	}
	return true
}

// Interrupt cancels the attack in flight without completing it.
func (x *Executor) Interrupt() bool {
	if !x.Busy() {
		return false
	}
	x.setPhase(PhaseNone)
	x.current = -1
	x.elapsed = 0
	return true
}

// Tick advances the timeline by dt, carrying leftover time into the next
// phase so several phases can end within one tick.
func (x *Executor) Tick(dt float64, f Frame) {
	if !x.Busy() {
		return
	}
	x.elapsed += dt
	for x.Busy() {
		atk := x.attacks[x.current]
		if x.phase == PhaseActive {
			x.applyActive(atk, f)
		}
		d := x.duration(atk)
		if x.elapsed < d {
			return
		}
		x.elapsed -= d
		switch x.phase {
		case PhaseWindUp:
			x.setPhase(PhaseActive)
		case PhaseActive:
			x.setPhase(PhaseRecovery)
		case PhaseRecovery:
			x.setPhase(PhaseNone)
			x.current = -1
			x.elapsed = 0
			for _, fn := range x.complete {
				fn(atk)
			}
		}
	}
}

func (x *Executor) duration(atk prefabs.AttackSpec) float64 {
	switch x.phase {
	case PhaseWindUp:
		return atk.WindUp
	case PhaseActive:
		return atk.Active
	case PhaseRecovery:
		return atk.Recovery
	}
	return 0
}

func (x *Executor) setPhase(to Phase) {
	from := x.phase
	x.phase = to
	for _, fn := range x.phaseFns {
		fn(from, to)
	}
}

func (x *Executor) applyActive(atk prefabs.AttackSpec, f Frame) {
	if f.Striker == nil {
		return
	}
	damage := atk.Damage * x.mods.DamageMultiplier()
	switch atk.Kind {
	case prefabs.AttackProjectile:
		if x.launched {
			return
		}
		x.launched = true
		dir := f.Target.Sub(f.Origin)
		if dir.LengthSq() == 0 {
			dir = f.Facing
		}
		if dir.LengthSq() == 0 {
			dir = cp.Vector{X: 1}
		}
		f.Striker.Launch(Projectile{
			Owner:     x.owner,
			Attack:    atk.Name,
			Position:  f.Origin,
			Velocity:  dir.Normalize().Mult(atk.Projectile.Speed),
			Radius:    atk.Projectile.Radius,
			Damage:    damage,
			Knockback: atk.Knockback,
			Lifetime:  atk.Projectile.Lifetime,
		})
	default:
		facing := 1.0
		if f.Facing.X < 0 {
			facing = -1
		}
		center := f.Origin.Add(cp.Vector{X: atk.Hitbox.OffsetX * facing, Y: atk.Hitbox.OffsetY})
		for _, target := range f.Striker.MeleeTargets(x.owner, center, atk.Hitbox.Radius) {
			if !x.hits.Mark(target) {
				continue
			}
			if f.Striker.Strike(x.owner, target, damage, atk.Knockback, f.Origin) {
				evt := HitEvent{Attacker: x.owner, Target: target, Attack: atk.Name, Damage: damage}
				for _, fn := range x.hitFns {
					fn(evt)
				}
			}
		}
	}
}

// HitTracker remembers which targets one activation has already damaged.
type HitTracker struct {
	hit map[ecs.Entity]struct{}
}

func (t *HitTracker) Reset() {
	clear(t.hit)
}

// Mark records target and reports whether it was new.
func (t *HitTracker) Mark(target ecs.Entity) bool {
	if t.hit == nil {
		t.hit = make(map[ecs.Entity]struct{})
	}
	if _, ok := t.hit[target]; ok {
		return false
	}
	t.hit[target] = struct{}{}
	return true
}

func (t *HitTracker) Len() int { return len(t.hit) }
