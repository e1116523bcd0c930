package system

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
)

// AISenseSystem runs on the fixed step: perception scans, then movers write
// velocities for the physics step that follows.
type AISenseSystem struct{}

func NewAISenseSystem() *AISenseSystem {
	return &AISenseSystem{}
}

func (s *AISenseSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.AIComponent.Kind(), func(e ecs.Entity, ai *component.AI) {
		if ai.Controller == nil || ecs.Has(w, e, component.DeadTagComponent.Kind()) {
			return
		}
		ai.Controller.FixedUpdate()
	})
}

// AIControllerSystem runs once per frame: state timers, transitions and
// attack timelines.
type AIControllerSystem struct{}

func NewAIControllerSystem() *AIControllerSystem {
	return &AIControllerSystem{}
}

func (s *AIControllerSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.AIComponent.Kind(), func(e ecs.Entity, ai *component.AI) {
		if ai.Controller == nil || ecs.Has(w, e, component.DeadTagComponent.Kind()) {
			return
		}
		ai.Controller.Update(dt)
	})
}
