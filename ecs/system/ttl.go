package system

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/physics"
)

// TTLSystem counts down TTL components each fixed step and destroys the
// entity, and its physics body, when one reaches zero.
type TTLSystem struct {
	world *physics.World
}

func NewTTLSystem(world *physics.World) *TTLSystem {
	return &TTLSystem{world: world}
}

func (s *TTLSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}
		if s.world != nil {
			s.world.RemoveActor(e)
		}
		ecs.DestroyEntity(w, e)
	})
}
