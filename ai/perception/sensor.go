// Package perception decides whether an enemy currently tracks a target.
// It reports acquisition and loss as edges, never as levels.
package perception

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
	"github.com/milk9111/hordewave/prefabs"
)

type Mode int

const (
	Radius Mode = iota
	Cone
	LineOfSight
)

func (m Mode) String() string {
	switch m {
	case Radius:
		return prefabs.PerceptionRadius
	case Cone:
		return prefabs.PerceptionCone
	case LineOfSight:
		return prefabs.PerceptionLineOfSight
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", prefabs.PerceptionRadius:
		return Radius, nil
	case prefabs.PerceptionCone:
		return Cone, nil
	case prefabs.PerceptionLineOfSight, "los":
		return LineOfSight, nil
	}
	return Radius, fmt.Errorf("perception: unknown mode %q", s)
}

type Config struct {
	Mode           Mode
	DetectionRange float64
	// LoseAggroRange is clamped to at least DetectionRange.
	LoseAggroRange float64
	// DetectionAngle is the full cone width in degrees.
	DetectionAngle float64
	TargetMask     physics.Layer
	ObstacleMask   physics.Layer
	// ScanEvery runs the scan once per N fixed steps.
	ScanEvery int
}

// Sensor tracks at most one target with hysteresis: acquire inside
// DetectionRange, release only beyond LoseAggroRange.
type Sensor struct {
	cfg      Config
	query    physics.Query
	detector detector

	target   ecs.Entity
	tracking bool
	skip     int

	detected []func(target ecs.Entity)
	lost     []func()
}

func New(cfg Config, q physics.Query) *Sensor {
	if cfg.LoseAggroRange < cfg.DetectionRange {
		cfg.LoseAggroRange = cfg.DetectionRange
	}
	if cfg.DetectionAngle <= 0 {
		cfg.DetectionAngle = 90
	}
	if cfg.ScanEvery < 1 {
		cfg.ScanEvery = 1
	}
	return &Sensor{cfg: cfg, query: q, detector: detectorFor(cfg)}
}

func (s *Sensor) OnTargetDetected(fn func(target ecs.Entity)) {
	if fn != nil {
		s.detected = append(s.detected, fn)
	}
}

func (s *Sensor) OnTargetLost(fn func()) {
	if fn != nil {
		s.lost = append(s.lost, fn)
	}
}

func (s *Sensor) Config() Config { return s.cfg }

// Target returns the tracked target, if any.
func (s *Sensor) Target() (ecs.Entity, bool) {
	return s.target, s.tracking
}

// Tick scans once. obstacleMask overrides the configured obstacle layers
// when non-zero.
func (s *Sensor) Tick(origin, facing cp.Vector, obstacleMask physics.Layer) {
	if s.skip > 0 {
		s.skip--
		return
	}
	s.skip = s.cfg.ScanEvery - 1
	if obstacleMask == physics.LayerNone {
		obstacleMask = s.cfg.ObstacleMask
	}

	if s.tracking {
		if s.retains(origin, obstacleMask) {
			return
		}
		s.tracking = false
		s.target = 0
		for _, fn := range s.lost {
			fn()
		}
		return
	}

	if target, ok := s.acquire(origin, facing, obstacleMask); ok {
		s.target = target
		s.tracking = true
		for _, fn := range s.detected {
			fn(target)
		}
	}
}

// Reset drops the target silently. Used when the owner dies.
func (s *Sensor) Reset() {
	s.target = 0
	s.tracking = false
	s.skip = 0
}

func (s *Sensor) acquire(origin, facing cp.Vector, obstacles physics.Layer) (ecs.Entity, bool) {
	if s.query == nil || s.cfg.DetectionRange <= 0 {
		return 0, false
	}
	best, bestDist := ecs.Entity(0), math.Inf(1)
	for _, h := range s.query.OverlapCircle(origin, s.cfg.DetectionRange, s.cfg.TargetMask) {
		if h.Body == nil {
			continue
		}
		pos := h.Body.Position()
		d := pos.Distance(origin)
		if d > s.cfg.DetectionRange || d >= bestDist {
			continue
		}
		if !s.detector.accepts(s, origin, facing, pos, obstacles) {
			continue
		}
		best, bestDist = h.Body.Owner(), d
	}
	return best, best.Valid()
}

// retains keeps the current target while it stays within LoseAggroRange.
// Line of sight must also stay clear; the cone is only used to acquire.
func (s *Sensor) retains(origin cp.Vector, obstacles physics.Layer) bool {
	if s.query == nil {
		return false
	}
	for _, h := range s.query.OverlapCircle(origin, s.cfg.LoseAggroRange, s.cfg.TargetMask) {
		if h.Body == nil || h.Body.Owner() != s.target {
			continue
		}
		pos := h.Body.Position()
		if pos.Distance(origin) > s.cfg.LoseAggroRange {
			return false
		}
		if s.cfg.Mode == LineOfSight {
			return s.clearLine(origin, pos, obstacles)
		}
		return true
	}
	return false
}

func (s *Sensor) clearLine(from, to cp.Vector, obstacles physics.Layer) bool {
	if obstacles == physics.LayerNone {
		return true
	}
	_, blocked := s.query.Raycast(from, to, obstacles)
	return !blocked
}
