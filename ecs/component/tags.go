package component

import "github.com/milk9111/hordewave/ecs"

type EnemyTag struct{}

var EnemyTagComponent = ecs.NewComponent[EnemyTag]()

// Target is something enemies hunt, usually a player.
type Target struct {
	Name string
}

var TargetComponent = ecs.NewComponent[Target]()

// DeadTag marks an enemy that has dispatched its death and is waiting for
// cleanup.
type DeadTag struct{}

var DeadTagComponent = ecs.NewComponent[DeadTag]()
