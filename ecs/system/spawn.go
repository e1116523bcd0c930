package system

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/wave"
)

// WaveSystem drives the wave orchestrator on the frame cadence.
type WaveSystem struct {
	orchestrator *wave.Orchestrator
}

func NewWaveSystem(o *wave.Orchestrator) *WaveSystem {
	return &WaveSystem{orchestrator: o}
}

func (s *WaveSystem) Update(_ *ecs.World, dt float64) {
	if s.orchestrator == nil {
		return
	}
	s.orchestrator.Update(dt)
}
