package component

import (
	"github.com/milk9111/hordewave/ai/boss"
	"github.com/milk9111/hordewave/ecs"
)

// Boss marks an enemy spawned with a phase table.
type Boss struct {
	Augment *boss.Augment
}

var BossComponent = ecs.NewComponent[Boss]()
