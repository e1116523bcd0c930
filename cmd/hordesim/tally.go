package main

import (
	"log/slog"

	"github.com/milk9111/hordewave/actor"
)

// tally is the reward and boss-fight collaborator for a headless run.
type tally struct {
	logger     *slog.Logger
	experience int
	drops      map[string]int
	bossFights int
}

func newTally(logger *slog.Logger) *tally {
	return &tally{logger: logger.With("subsystem", "rewards"), drops: make(map[string]int)}
}

func (t *tally) GrantReward(evt actor.DeathEvent) {
	t.experience += evt.Reward.Experience
	if evt.Reward.DropTable != "" {
		t.drops[evt.Reward.DropTable]++
	}
	t.logger.Debug("reward granted",
		"archetype", evt.Archetype,
		"experience", evt.Reward.Experience,
		"drop_table", evt.Reward.DropTable,
		"total", t.experience,
	)
}

func (t *tally) EnterBossFight() {
	t.bossFights++
	t.logger.Info("boss music on")
}

func (t *tally) ExitBossFight() {
	t.logger.Info("boss music off")
}
