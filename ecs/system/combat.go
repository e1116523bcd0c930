package system

import (
	"github.com/milk9111/hordewave/ai/combat"
	"github.com/milk9111/hordewave/ecs"
)

// ProjectileSystem advances live projectiles after the physics step.
type ProjectileSystem struct {
	set     *combat.ProjectileSet
	damager combat.Damager
}

func NewProjectileSystem(set *combat.ProjectileSet, damager combat.Damager) *ProjectileSystem {
	return &ProjectileSystem{set: set, damager: damager}
}

func (s *ProjectileSystem) Update(_ *ecs.World, dt float64) {
	if s.set == nil {
		return
	}
	s.set.Tick(dt, s.damager)
}
