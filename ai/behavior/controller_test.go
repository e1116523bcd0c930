package behavior

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ai/combat"
	"github.com/milk9111/hordewave/ai/locomotion"
	"github.com/milk9111/hordewave/ai/perception"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
	"github.com/milk9111/hordewave/prefabs"
)

const dt = 0.25

type striker struct {
	reach   []ecs.Entity
	strikes int
}

func (s *striker) MeleeTargets(ecs.Entity, cp.Vector, float64) []ecs.Entity { return s.reach }
func (s *striker) Launch(combat.Projectile)                                 {}
func (s *striker) Strike(_, _ ecs.Entity, _, _ float64, _ cp.Vector) bool {
	s.strikes++
	return true
}

type harness struct {
	phys     *physics.World
	body     *physics.Body
	target   *physics.Body
	targetID ecs.Entity
	health   *actor.Health
	exec     *combat.Executor
	striker  *striker
	ctrl     *Controller

	states []State
	deaths []actor.DeathEvent
}

func (h *harness) TargetPosition(e ecs.Entity) (cp.Vector, bool) {
	b, ok := h.phys.Body(e)
	if !ok {
		return cp.Vector{}, false
	}
	return b.Position(), true
}

type option func(*harness, *Config)

func newHarness(t *testing.T, targetAt cp.Vector, opts ...option) *harness {
	t.Helper()
	ents := ecs.NewWorld()
	h := &harness{phys: physics.NewWorld(physics.DefaultLayers(), 0)}
	layers := h.phys.Layers()
	owner := ecs.CreateEntity(ents)
	h.targetID = ecs.CreateEntity(ents)
	h.body = h.phys.AddActor(owner, cp.Vector{}, 5, layers.Lookup("enemy"), physics.LayerNone, false)
	h.target = h.phys.AddActor(h.targetID, targetAt, 0.5, layers.Lookup("target"), physics.LayerNone, false)
	h.health = actor.NewHealth(20)
	h.exec = combat.NewExecutor(owner, []prefabs.AttackSpec{{
		Name:     "swipe",
		Kind:     prefabs.AttackMelee,
		Damage:   5,
		WindUp:   0.5,
		Active:   0.25,
		Recovery: 0.25,
		MaxRange: 20,
		Hitbox:   prefabs.HitboxSpec{Radius: 6},
	}}, combat.Options{})
	h.striker = &striker{reach: []ecs.Entity{h.targetID}}

	cfg := Config{IdleTime: dt, AlertDelay: dt, Cooldown: 2 * dt, StunDuration: 2 * dt}
	for _, o := range opts {
		o(h, &cfg)
	}
	sensor := perception.New(perception.Config{
		Mode:           perception.Radius,
		DetectionRange: 50,
		LoseAggroRange: 80,
		TargetMask:     layers.Lookup("target"),
	}, h.phys)
	ctrl, err := New(owner, "grunt", cfg, actor.Reward{Experience: 3}, Parts{
		Body:    h.body,
		Sensor:  sensor,
		Mover:   locomotion.New(h.body, h.phys, locomotion.Options{Kind: locomotion.Stationary}),
		Combat:  h.exec,
		Health:  h.health,
		Targets: h,
		Striker: h.striker,
	})
	require.NoError(t, err)
	ctrl.OnStateChanged(func(_, to State) { h.states = append(h.states, to) })
	ctrl.OnDied(func(evt actor.DeathEvent) { h.deaths = append(h.deaths, evt) })
	h.ctrl = ctrl
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.ctrl.FixedUpdate()
		h.ctrl.Update(dt)
	}
}

// toAttack drives a fresh harness with the target in reach until Attack.
func (h *harness) toAttack(t *testing.T) {
	t.Helper()
	h.tick(1)
	h.target.SetPosition(cp.Vector{X: 15})
	h.tick(2)
	require.Equal(t, Attack, h.ctrl.State())
}

func TestMissingParts(t *testing.T) {
	_, err := New(1, "x", Config{}, actor.Reward{}, Parts{})
	assert.ErrorIs(t, err, ErrMissingPart)
}

func TestEngagementCycle(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	assert.Equal(t, Idle, h.ctrl.State())

	h.tick(1)
	assert.Equal(t, Patrol, h.ctrl.State())

	h.target.SetPosition(cp.Vector{X: 15})
	h.tick(1)
	assert.Equal(t, Chase, h.ctrl.State(), "alert delay elapsed in the same tick")

	h.tick(1)
	require.Equal(t, Attack, h.ctrl.State())
	assert.Equal(t, combat.PhaseWindUp, h.exec.Phase())

	h.tick(4)
	assert.Equal(t, Cooldown, h.ctrl.State())
	assert.Equal(t, 1, h.striker.strikes)

	h.tick(2)
	assert.Equal(t, Chase, h.ctrl.State())
	assert.Equal(t, []State{Patrol, Alert, Chase, Attack, Cooldown, Chase}, h.states)
}

func TestChaseOutOfReachStaysInChase(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 40})
	h.tick(4)
	assert.Equal(t, Chase, h.ctrl.State())
	assert.Equal(t, combat.PhaseNone, h.exec.Phase())
}

func TestLosingTargetReturnsToPatrol(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 40})
	h.tick(3)
	require.Equal(t, Chase, h.ctrl.State())

	h.target.SetPosition(cp.Vector{X: 70})
	h.tick(1)
	assert.Equal(t, Chase, h.ctrl.State(), "inside lose range")

	h.target.SetPosition(cp.Vector{X: 200})
	h.tick(1)
	assert.Equal(t, Patrol, h.ctrl.State())
	_, ok := h.ctrl.Target()
	assert.False(t, ok)
}

func TestLosingTargetDuringAlertReturnsToPatrol(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100}, func(_ *harness, c *Config) { c.AlertDelay = 4 * dt })
	h.tick(1)
	h.target.SetPosition(cp.Vector{X: 40})
	h.tick(1)
	require.Equal(t, Alert, h.ctrl.State())

	h.target.SetPosition(cp.Vector{X: 200})
	h.tick(1)
	assert.Equal(t, Patrol, h.ctrl.State())
	assert.Equal(t, []State{Patrol, Alert, Patrol}, h.states, "no chase in between")

	h.tick(4)
	assert.Equal(t, Patrol, h.ctrl.State())
}

func TestTargetSeenWhileIdleAlertsOnPatrol(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 15}, func(_ *harness, c *Config) { c.IdleTime = 4 * dt })
	h.tick(3)
	assert.Equal(t, Idle, h.ctrl.State())
	_, ok := h.ctrl.Target()
	assert.True(t, ok, "target remembered while idle")

	h.tick(1)
	assert.Equal(t, Alert, h.ctrl.State())
	assert.Equal(t, []State{Patrol, Alert}, h.states)
}

func TestStunInterruptsWindUp(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	completed := 0
	h.exec.OnAttackComplete(func(prefabs.AttackSpec) { completed++ })
	h.toAttack(t)
	h.tick(1)

	require.True(t, h.health.ApplyDamage(1, 0))
	assert.Equal(t, Stunned, h.ctrl.State())
	assert.Equal(t, combat.PhaseNone, h.exec.Phase())
	assert.Equal(t, 19.0, h.health.Current, "damage stands")

	h.tick(1)
	assert.Equal(t, Stunned, h.ctrl.State())
	h.tick(1)
	assert.Equal(t, Chase, h.ctrl.State())
	assert.Zero(t, completed)
	assert.Zero(t, h.striker.strikes)
}

func TestStunDuringActiveKeepsAppliedHit(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	completed := 0
	h.exec.OnAttackComplete(func(prefabs.AttackSpec) { completed++ })
	h.toAttack(t)
	for i := 0; i < 4 && (h.exec.Phase() != combat.PhaseActive || h.striker.strikes == 0); i++ {
		h.tick(1)
	}
	require.Equal(t, combat.PhaseActive, h.exec.Phase())
	require.Equal(t, 1, h.striker.strikes)

	require.True(t, h.health.ApplyDamage(1, 0))
	assert.Equal(t, Stunned, h.ctrl.State())
	assert.Equal(t, combat.PhaseNone, h.exec.Phase())
	assert.Equal(t, 1, h.striker.strikes, "the landed hit stands")

	h.tick(2)
	assert.Equal(t, Chase, h.ctrl.State())
	assert.Equal(t, 1, h.striker.strikes)
	assert.Zero(t, completed)
}

func TestRestunRestartsTimer(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	h.tick(1)
	h.health.ApplyDamage(1, 0)
	h.tick(1)
	h.health.ApplyDamage(1, 0)
	assert.Equal(t, 2*dt, h.ctrl.Timer())
	h.tick(1)
	assert.Equal(t, Stunned, h.ctrl.State())
	h.tick(1)
	assert.Equal(t, Patrol, h.ctrl.State())
}

func TestStunImmuneKeepsAttacking(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	h.health.KnockbackResistance = 1
	h.toAttack(t)

	h.health.Apply(actor.DamageEvent{Amount: 1, Knockback: 100, Origin: cp.Vector{X: -10}, HasOrigin: true})
	assert.Equal(t, Attack, h.ctrl.State())
	assert.Equal(t, combat.PhaseWindUp, h.exec.Phase())
	assert.Zero(t, h.body.Velocity().X)
}

func TestKnockbackScaledByResistance(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	h.health.KnockbackResistance = 0.5
	h.health.Apply(actor.DamageEvent{Amount: 1, Knockback: 100, Origin: cp.Vector{X: -10}, HasOrigin: true})
	assert.Equal(t, Stunned, h.ctrl.State())
	assert.InDelta(t, 50, h.body.Velocity().X, 1e-9)
}

func TestDeathIsTerminal(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	h.toAttack(t)

	killer := ecs.Entity(77)
	h.health.Apply(actor.DamageEvent{Amount: 100, Source: killer})
	assert.Equal(t, Dead, h.ctrl.State())
	assert.Equal(t, combat.PhaseNone, h.exec.Phase())
	require.Len(t, h.deaths, 1)
	assert.Equal(t, "grunt", h.deaths[0].Archetype)
	assert.Equal(t, killer, h.deaths[0].Killer)
	assert.Equal(t, 3, h.deaths[0].Reward.Experience)

	assert.False(t, h.health.ApplyDamage(5, 0))
	h.tick(10)
	assert.Equal(t, Dead, h.ctrl.State())
	assert.Len(t, h.deaths, 1)
	assert.Equal(t, Dead, h.states[len(h.states)-1])
}

type slowCooldown struct{ actor.Unmodified }

func (slowCooldown) CooldownMultiplier() float64 { return 2 }

func TestCooldownUsesModifiers(t *testing.T) {
	h := newHarness(t, cp.Vector{X: 100})
	h.ctrl.mods = slowCooldown{}
	h.toAttack(t)
	h.tick(4)
	require.Equal(t, Cooldown, h.ctrl.State())
	assert.Equal(t, 4*dt, h.ctrl.Timer())
}
