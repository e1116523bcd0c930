package component

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
)

type PhysicsBody struct {
	Body *physics.Body
}

var PhysicsBodyComponent = ecs.NewComponent[PhysicsBody]()
