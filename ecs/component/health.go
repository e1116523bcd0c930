package component

import (
	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ecs"
)

// HealthComponent stores the shared health collaborator for enemies and
// targets alike.
var HealthComponent = ecs.NewComponent[actor.Health]()
