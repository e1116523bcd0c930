package system

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
)

// PhysicsSystem integrates the collision space once per fixed step.
type PhysicsSystem struct {
	world *physics.World
}

func NewPhysicsSystem(world *physics.World) *PhysicsSystem {
	return &PhysicsSystem{world: world}
}

func (s *PhysicsSystem) Update(_ *ecs.World, dt float64) {
	if s.world == nil {
		return
	}
	s.world.Step(dt)
}
