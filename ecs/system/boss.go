package system

import (
	"github.com/milk9111/hordewave/ai/behavior"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
)

// BossSystem starts a boss fight the first time the boss engages and keeps
// its phase in step with its health.
type BossSystem struct{}

func NewBossSystem() *BossSystem {
	return &BossSystem{}
}

func (s *BossSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.BossComponent.Kind(), component.AIComponent.Kind(), func(e ecs.Entity, b *component.Boss, ai *component.AI) {
		if b.Augment == nil || ai.Controller == nil {
			return
		}
		if engaged(ai.Controller.State()) {
			b.Augment.Activate()
		}
		b.Augment.Evaluate()
	})
}

func engaged(s behavior.State) bool {
	switch s {
	case behavior.Alert, behavior.Chase, behavior.Attack, behavior.Cooldown, behavior.Stunned:
		return true
	}
	return false
}
