package component

import "github.com/milk9111/hordewave/ecs"

// TTL destroys its entity after the given number of fixed steps.
type TTL struct {
	Frames int
}

var TTLComponent = ecs.NewComponent[TTL]()
