package combat

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
)

func TestProjectileHitsTargetOnce(t *testing.T) {
	phys := physics.NewWorld(physics.DefaultLayers(), 0)
	targetLayer := phys.Layers().Lookup("target")
	ents := ecs.NewWorld()
	shooter := ecs.CreateEntity(ents)
	target := ecs.CreateEntity(ents)
	phys.AddActor(target, cp.Vector{X: 30}, 5, targetLayer, physics.LayerNone, false)

	set := NewProjectileSet(phys, phys.Layers().Lookup("obstacle"))
	s := &fakeStriker{}
	var hits []HitEvent
	set.OnHit(func(evt HitEvent) { hits = append(hits, evt) })
	set.Launch(Projectile{Owner: shooter, Attack: "bolt", Velocity: cp.Vector{X: 100}, Radius: 2, Damage: 3, Lifetime: 2, TargetMask: targetLayer})

	for i := 0; i < 40; i++ {
		set.Tick(0.05, s)
	}
	require.Len(t, s.strikes, 1)
	assert.Equal(t, target, s.strikes[0].target)
	assert.Len(t, hits, 1)
	assert.Zero(t, set.Len())
}

func TestProjectileStoppedByObstacle(t *testing.T) {
	phys := physics.NewWorld(physics.DefaultLayers(), 0)
	targetLayer := phys.Layers().Lookup("target")
	obstacle := phys.Layers().Lookup("obstacle")
	ents := ecs.NewWorld()
	phys.AddActor(ecs.CreateEntity(ents), cp.Vector{X: 30}, 5, targetLayer, physics.LayerNone, false)
	phys.AddStaticBox(cp.BB{L: 12, B: -10, R: 16, T: 10}, obstacle)

	set := NewProjectileSet(phys, obstacle)
	s := &fakeStriker{}
	set.Launch(Projectile{Owner: 99, Velocity: cp.Vector{X: 100}, Radius: 1, Damage: 3, Lifetime: 2, TargetMask: targetLayer})
	for i := 0; i < 40; i++ {
		set.Tick(0.05, s)
	}
	assert.Empty(t, s.strikes)
	assert.Zero(t, set.Len())
}

func TestProjectileExpires(t *testing.T) {
	set := NewProjectileSet(nil, physics.LayerNone)
	set.Launch(Projectile{Velocity: cp.Vector{X: 1}, Lifetime: 0.5})
	set.Launch(Projectile{Lifetime: 0})
	require.Equal(t, 1, set.Len())
	set.Tick(0.25, nil)
	assert.Equal(t, 1, set.Len())
	set.Tick(0.25, nil)
	assert.Zero(t, set.Len())
}
