package actor

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/ecs"
)

// Reward is what an enemy pays out on death.
type Reward struct {
	Experience int
	DropTable  string
	DropChance float64
}

// DeathEvent is dispatched exactly once when an enemy enters Dead.
type DeathEvent struct {
	Entity    ecs.Entity
	Archetype string
	Reward    Reward
	Position  cp.Vector
	Killer    ecs.Entity
}

// RewardSink receives experience and loot notifications.
type RewardSink interface {
	GrantReward(evt DeathEvent)
}

// NopRewards discards reward notifications.
type NopRewards struct{}

func (NopRewards) GrantReward(DeathEvent) {}
