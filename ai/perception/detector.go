package perception

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/physics"
)

// detector is the per-mode acceptance test applied after the range check.
type detector interface {
	accepts(s *Sensor, origin, facing, pos cp.Vector, obstacles physics.Layer) bool
}

func detectorFor(cfg Config) detector {
	switch cfg.Mode {
	case Cone:
		return coneDetector{half: cfg.DetectionAngle / 2}
	case LineOfSight:
		return sightDetector{}
	}
	return radiusDetector{}
}

type radiusDetector struct{}

func (radiusDetector) accepts(*Sensor, cp.Vector, cp.Vector, cp.Vector, physics.Layer) bool {
	return true
}

type coneDetector struct {
	half float64
}

func (d coneDetector) accepts(_ *Sensor, origin, facing, pos cp.Vector, _ physics.Layer) bool {
	return physics.WithinCone(facing, pos.Sub(origin), d.half)
}

type sightDetector struct{}

func (sightDetector) accepts(s *Sensor, origin, _ cp.Vector, pos cp.Vector, obstacles physics.Layer) bool {
	return s.clearLine(origin, pos, obstacles)
}
