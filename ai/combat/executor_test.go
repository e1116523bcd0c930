package combat

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/prefabs"
)

type strike struct {
	target ecs.Entity
	amount float64
}

type fakeStriker struct {
	inReach  []ecs.Entity
	strikes  []strike
	launched []Projectile
}

func (f *fakeStriker) MeleeTargets(ecs.Entity, cp.Vector, float64) []ecs.Entity {
	return f.inReach
}

func (f *fakeStriker) Strike(_, target ecs.Entity, amount, _ float64, _ cp.Vector) bool {
	f.strikes = append(f.strikes, strike{target, amount})
	return true
}

func (f *fakeStriker) Launch(p Projectile) {
	f.launched = append(f.launched, p)
}

func swing(name string, minR, maxR float64) prefabs.AttackSpec {
	return prefabs.AttackSpec{
		Name:     name,
		Kind:     prefabs.AttackMelee,
		Damage:   10,
		WindUp:   0.5,
		Active:   0.25,
		Recovery: 0.5,
		MinRange: minR,
		MaxRange: maxR,
		Hitbox:   prefabs.HitboxSpec{Radius: 5},
	}
}

type transition struct {
	at       float64
	from, to Phase
}

func TestPhaseTimeline(t *testing.T) {
	x := NewExecutor(1, []prefabs.AttackSpec{swing("a", 0, 10)}, Options{})
	var now float64
	var got []transition
	var started []string
	completed := 0
	x.OnPhaseChanged(func(from, to Phase) { got = append(got, transition{now, from, to}) })
	x.OnAttackStarted(func(atk prefabs.AttackSpec) { started = append(started, atk.Name) })
	x.OnAttackComplete(func(prefabs.AttackSpec) { completed++ })

	require.True(t, x.Begin(5))
	assert.Equal(t, []string{"a"}, started)
	f := Frame{Striker: &fakeStriker{}}
	for i := 0; i < 8 && x.Busy(); i++ {
		now += 0.25
		x.Tick(0.25, f)
	}

	assert.Equal(t, []transition{
		{0, PhaseNone, PhaseWindUp},
		{0.5, PhaseWindUp, PhaseActive},
		{0.75, PhaseActive, PhaseRecovery},
		{1.25, PhaseRecovery, PhaseNone},
	}, got)
	assert.Equal(t, []string{"a"}, started)
	assert.Equal(t, 1, completed)
}

func TestMeleeHitsEachTargetOncePerActivation(t *testing.T) {
	atk := swing("a", 0, 10)
	atk.Active = 0.5
	x := NewExecutor(1, []prefabs.AttackSpec{atk}, Options{})
	s := &fakeStriker{inReach: []ecs.Entity{7, 8}}
	hits := 0
	x.OnAttackHit(func(HitEvent) { hits++ })

	for round := 0; round < 2; round++ {
		require.True(t, x.Begin(3))
		for x.Busy() {
			x.Tick(0.125, Frame{Striker: s})
		}
	}

	assert.Len(t, s.strikes, 4, "two targets, two activations")
	assert.Equal(t, 4, hits)
}

func TestZeroDurationPhasesResolveInOneTick(t *testing.T) {
	atk := swing("quick", 0, 10)
	atk.WindUp, atk.Active, atk.Recovery = 0, 0, 0
	x := NewExecutor(1, []prefabs.AttackSpec{atk}, Options{})
	s := &fakeStriker{inReach: []ecs.Entity{9}}
	completed := false
	x.OnAttackComplete(func(prefabs.AttackSpec) { completed = true })

	require.True(t, x.Begin(1))
	x.Tick(0.125, Frame{Striker: s})
	assert.True(t, completed)
	assert.Len(t, s.strikes, 1)
	assert.False(t, x.Busy())
}

func TestSelectionByRange(t *testing.T) {
	x := NewExecutor(1, []prefabs.AttackSpec{swing("near", 0, 10), swing("far", 5, 40)}, Options{})

	i, ok := x.Select(7)
	require.True(t, ok)
	assert.Equal(t, 0, i, "first matching attack wins")

	i, ok = x.Select(20)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = x.Select(50)
	assert.False(t, ok)
	assert.False(t, x.Begin(50))
	assert.Equal(t, 40.0, x.MaxRange())

	require.True(t, x.Begin(20))
	assert.False(t, x.Begin(20), "refuses while an attack is in flight")
	cur, ok := x.Current()
	require.True(t, ok)
	assert.Equal(t, "far", cur.Name)
}

type multiplier float64

func (m multiplier) SpeedMultiplier() float64    { return 1 }
func (m multiplier) DamageMultiplier() float64   { return float64(m) }
func (m multiplier) CooldownMultiplier() float64 { return 1 }

func TestInterruptCancelsWithoutCompleting(t *testing.T) {
	x := NewExecutor(1, []prefabs.AttackSpec{swing("a", 0, 10)}, Options{Modifiers: multiplier(1.5)})
	s := &fakeStriker{inReach: []ecs.Entity{3}}
	completed := 0
	x.OnAttackComplete(func(prefabs.AttackSpec) { completed++ })

	require.True(t, x.Begin(1))
	x.Tick(0.25, Frame{Striker: s})
	require.True(t, x.Interrupt())
	assert.Equal(t, PhaseNone, x.Phase())
	assert.False(t, x.Interrupt())
	assert.Zero(t, completed)
	assert.Empty(t, s.strikes, "interrupted during wind-up")

	require.True(t, x.Begin(1))
	for x.Busy() {
		x.Tick(0.25, Frame{Striker: s})
	}
	require.Len(t, s.strikes, 1)
	assert.InDelta(t, 15, s.strikes[0].amount, 1e-9)
	assert.Equal(t, 1, completed)
}

func TestProjectileLaunchedOnce(t *testing.T) {
	atk := prefabs.AttackSpec{
		Name:       "bolt", Kind: prefabs.AttackProjectile, Damage: 4,
		WindUp:     0.25, Active: 0.5, Recovery: 0.25, MaxRange: 100,
		Projectile: prefabs.ProjectileSpec{Speed: 100, Lifetime: 1, Radius: 2},
	}
	x := NewExecutor(1, []prefabs.AttackSpec{atk}, Options{})
	s := &fakeStriker{}
	require.True(t, x.Begin(50))
	for x.Busy() {
		x.Tick(0.125, Frame{Origin: cp.Vector{}, Target: cp.Vector{X: 0, Y: 50}, Striker: s})
	}
	require.Len(t, s.launched, 1)
	p := s.launched[0]
	assert.InDelta(t, 100, p.Velocity.Y, 1e-9)
	assert.InDelta(t, 0, p.Velocity.X, 1e-9)
	assert.Empty(t, s.strikes)
}

func TestScriptSelectorOverridesFirstMatch(t *testing.T) {
	src, err := prefabs.LoadScript("brute_select.tengo")
	require.NoError(t, err)
	sel, err := NewScriptSelector("brute_select.tengo", src, nil)
	require.NoError(t, err)

	x := NewExecutor(1, []prefabs.AttackSpec{swing("jab", 0, 34), swing("slam", 0, 30)}, Options{Selector: sel})
	i, ok := x.Select(10)
	require.True(t, ok)
	assert.Equal(t, 1, i, "script prefers the heavy swing up close")

	i, _ = x.Select(28)
	assert.Equal(t, 0, i)

	byName, err := NewScriptSelector("inline", []byte(`choice = candidates[1].name`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, byName.Choose([]prefabs.AttackSpec{{Name: "a"}, {Name: "b"}}, 0))

	_, err = NewScriptSelector("broken", []byte(`choice = (`), nil)
	assert.Error(t, err)
}
