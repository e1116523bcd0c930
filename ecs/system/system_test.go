package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hordewave/ai/behavior"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/physics"
)

func TestTTLDestroysEntityAndBody(t *testing.T) {
	w := ecs.NewWorld()
	phys := physics.NewWorld(physics.DefaultLayers(), 0)
	enemy := phys.Layers().Lookup(physics.NameEnemy)

	e := ecs.CreateEntity(w)
	phys.AddActor(e, cp.Vector{X: 10, Y: 10}, 4, enemy, physics.LayerNone, false)
	require.NoError(t, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: 3}))

	sys := NewTTLSystem(phys)
	sys.Update(w, 0)
	sys.Update(w, 0)
	assert.True(t, ecs.IsAlive(w, e))

	sys.Update(w, 0)
	assert.False(t, ecs.IsAlive(w, e))
	_, ok := phys.Body(e)
	assert.False(t, ok)
}

func TestTTLZeroExpiresImmediately(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{}))
	NewTTLSystem(nil).Update(w, 0)
	assert.False(t, ecs.IsAlive(w, e))
}

func TestEngagedStates(t *testing.T) {
	for s := behavior.Idle; s <= behavior.Dead; s++ {
		want := s != behavior.Idle && s != behavior.Patrol && s != behavior.Dead
		assert.Equal(t, want, engaged(s), s.String())
	}
}

func TestSystemsTolerateNilWorld(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTTLSystem(nil).Update(nil, 0)
		NewBossSystem().Update(nil, 0)
	})
}
