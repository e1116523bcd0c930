package component

import (
	"github.com/milk9111/hordewave/ai/behavior"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/prefabs"
)

// AI binds an enemy's state machine to its entity. Spec is the scaled clone
// the enemy was spawned from.
type AI struct {
	Spec       *prefabs.ArchetypeSpec
	Controller *behavior.Controller
}

var AIComponent = ecs.NewComponent[AI]()
