package locomotion

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
)

const step = 1.0 / 60.0

type arena struct {
	phys   *physics.World
	ground physics.Layer
	ents   *ecs.World
}

// newArena builds a floor whose top surface is y=100 spanning [0,floorEnd].
func newArena(t *testing.T, floorEnd float64, wallAt float64) *arena {
	t.Helper()
	phys := physics.NewWorld(physics.DefaultLayers(), 900)
	a := &arena{phys: phys, ground: phys.Layers().Lookup("ground"), ents: ecs.NewWorld()}
	phys.AddStaticBox(cp.BB{L: 0, B: 100, R: floorEnd, T: 120}, a.ground)
	if wallAt > 0 {
		phys.AddStaticBox(cp.BB{L: wallAt, B: 0, R: wallAt + 10, T: 100}, a.ground)
	}
	return a
}

func (a *arena) spawn(pos cp.Vector, gravity bool) *physics.Body {
	e := ecs.CreateEntity(a.ents)
	return a.phys.AddActor(e, pos, 5, a.phys.Layers().Lookup("enemy"), a.ground, gravity)
}

func (a *arena) run(steps int, fn func()) {
	for i := 0; i < steps; i++ {
		fn()
		a.phys.Step(step)
	}
}

func TestGroundPatrolTurnsAtWall(t *testing.T) {
	a := newArena(t, 300, 190)
	body := a.spawn(cp.Vector{X: 150, Y: 95}, true)
	m := New(body, a.phys, Options{Kind: GroundPatrol, Step: step, MoveSpeed: 60, Ground: GroundConfig{GroundMask: a.ground, TurnPause: 0.25}}).(*groundMover)

	flips, sawPause := 0, false
	last := m.Direction()
	a.run(120, func() {
		m.Patrol()
		if m.Paused() {
			sawPause = true
		}
		if m.Direction() != last {
			flips++
			last = m.Direction()
		}
	})

	assert.Equal(t, 1, flips)
	assert.True(t, sawPause, "turning pauses the mover")
	assert.Equal(t, -1.0, m.Direction())
	assert.Less(t, body.Position().X, 190.0)
	assert.Equal(t, TierLayer, m.Tier())
}

func TestGroundPatrolTurnsAtLedge(t *testing.T) {
	a := newArena(t, 100, 0)
	body := a.spawn(cp.Vector{X: 50, Y: 95}, true)
	m := New(body, a.phys, Options{Kind: GroundPatrol, Step: step, MoveSpeed: 60, Ground: GroundConfig{GroundMask: a.ground}}).(*groundMover)

	a.run(180, m.Patrol)

	pos := body.Position()
	assert.InDelta(t, 95, pos.Y, 1, "never walks off the ledge")
	assert.GreaterOrEqual(t, pos.X, 0.0)
	assert.LessOrEqual(t, pos.X, 100.0)
}

func TestGroundProbeFallsBackWhenLayerMisconfigured(t *testing.T) {
	a := newArena(t, 300, 0)
	obstacle := a.phys.Layers().Lookup("obstacle")

	for name, mask := range map[string]physics.Layer{"wrong_layer": obstacle, "unset": physics.LayerNone} {
		t.Run(name, func(t *testing.T) {
			body := a.spawn(cp.Vector{X: 150, Y: 95}, true)
			m := New(body, a.phys, Options{Kind: GroundPatrol, Step: step, MoveSpeed: 30, Ground: GroundConfig{GroundMask: mask}}).(*groundMover)
			m.Patrol()
			assert.Equal(t, TierUnfiltered, m.Tier())
			assert.InDelta(t, 30, body.Velocity().X, 1e-9, "still patrols")
			a.phys.RemoveActor(body.Owner())
		})
	}

	t.Run("velocity_heuristic", func(t *testing.T) {
		body := a.spawn(cp.Vector{X: 150, Y: 95}, true)
		m := New(body, nil, Options{Kind: GroundPatrol, Step: step, MoveSpeed: 30}).(*groundMover)
		m.Patrol()
		assert.Equal(t, TierVelocity, m.Tier())
	})
}

type doubleSpeed struct{}

func (doubleSpeed) SpeedMultiplier() float64    { return 2 }
func (doubleSpeed) DamageMultiplier() float64   { return 1 }
func (doubleSpeed) CooldownMultiplier() float64 { return 1 }

func TestGroundChaseHoldsAtStoppingDistance(t *testing.T) {
	a := newArena(t, 300, 0)
	body := a.spawn(cp.Vector{X: 100, Y: 95}, true)
	m := New(body, a.phys, Options{Kind: GroundPatrol, Step: step, ChaseSpeed: 50, StoppingDistance: 20, Modifiers: doubleSpeed{}, Ground: GroundConfig{GroundMask: a.ground}})

	m.ChaseTarget(cp.Vector{X: 40, Y: 95})
	assert.InDelta(t, -100, body.Velocity().X, 1e-9)
	assert.Equal(t, cp.Vector{X: -1}, m.Facing())

	m.ChaseTarget(cp.Vector{X: 110, Y: 95})
	assert.Zero(t, body.Velocity().X)
	assert.Equal(t, cp.Vector{X: 1}, m.Facing())
}

func TestFlyingPatrolStaysNearHome(t *testing.T) {
	a := newArena(t, 300, 0)
	home := cp.Vector{X: 150, Y: 40}
	body := a.spawn(home, false)
	m := New(body, a.phys, Options{
		Kind:      Flying,
		Step:      step,
		MoveSpeed: 80,
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Flying:    FlyingConfig{Home: home, PatrolRadius: 30, Retarget: 0.5, HoverAmplitude: 3, HoverPeriod: 1},
	}).(*flyingMover)

	for i := 0; i < 200; i++ {
		m.pickGoal()
		assert.LessOrEqual(t, m.goal.Distance(home), 30.0+1e-9)
	}

	a.run(300, m.Patrol)
	// the body can lag or overshoot a little, but stays in the neighbourhood
	assert.Less(t, body.Position().Distance(home), 30.0+3+10)
}

func TestFlyingChaseClosesDistance(t *testing.T) {
	a := newArena(t, 300, 0)
	body := a.spawn(cp.Vector{X: 50, Y: 20}, false)
	m := New(body, a.phys, Options{Kind: Flying, Step: step, ChaseSpeed: 120, StoppingDistance: 4, Flying: FlyingConfig{SmoothTime: 0.2}})

	target := cp.Vector{X: 200, Y: 60}
	start := body.Position().Distance(target)
	a.run(120, func() { m.ChaseTarget(target) })
	end := body.Position().Distance(target)

	require.Less(t, end, start)
	assert.Less(t, end, 20.0)
	assert.Equal(t, cp.Vector{X: 1}, m.Facing())
}

func TestStationaryNeverMoves(t *testing.T) {
	a := newArena(t, 300, 0)
	body := a.spawn(cp.Vector{X: 100, Y: 95}, true)
	m := New(body, a.phys, Options{Kind: Stationary, Step: step, MoveSpeed: 100})

	a.run(60, func() {
		m.Patrol()
		m.ChaseTarget(cp.Vector{X: 10, Y: 95})
	})
	assert.InDelta(t, 100, body.Position().X, 1e-6)
	assert.Equal(t, cp.Vector{X: -1}, m.Facing())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("flying")
	require.NoError(t, err)
	assert.Equal(t, Flying, k)
	_, err = ParseKind("swimming")
	assert.Error(t, err)
}
