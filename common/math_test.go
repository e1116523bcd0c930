package common

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestSmoothDampConverges(t *testing.T) {
	pos := cp.Vector{}
	goal := cp.Vector{X: 100, Y: -40}
	var vel cp.Vector
	for i := 0; i < 600; i++ {
		pos = SmoothDamp(pos, goal, &vel, 0.3, 0, FixedStep)
	}
	assert.InDelta(t, goal.X, pos.X, 0.01)
	assert.InDelta(t, goal.Y, pos.Y, 0.01)
}

func TestSmoothDampRespectsMaxSpeed(t *testing.T) {
	pos := cp.Vector{}
	goal := cp.Vector{X: 1000}
	var vel cp.Vector
	next := SmoothDamp(pos, goal, &vel, 0.5, 60, FixedStep)
	// one step can never travel further than maxSpeed allows
	assert.LessOrEqual(t, next.Sub(pos).Length(), 60*FixedStep+1e-9)
}

func TestRandomInDiscStaysInside(t *testing.T) {
	center := cp.Vector{X: 10, Y: 10}
	for _, s := range [][2]float64{{0, 0}, {0.999, 0.25}, {0.5, 0.5}, {1, 0.75}} {
		p := RandomInDisc(center, 30, s[0], s[1])
		assert.LessOrEqual(t, p.Distance(center), 30+1e-9)
	}
}

func TestFixedStepDurationMatchesStep(t *testing.T) {
	assert.InDelta(t, FixedStep, FixedStepDuration.Seconds(), 1e-9)
}
