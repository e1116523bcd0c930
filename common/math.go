package common

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

// FixedStep is the physics cadence in seconds.
const FixedStep = 1.0 / 60.0

// FixedStepDuration is FixedStep as a wall-clock interval for tickers.
const FixedStepDuration = time.Second / 60

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SmoothDamp moves current toward target like a critically damped spring.
// velocity carries state between calls. maxSpeed <= 0 disables the cap.
func SmoothDamp(current, target cp.Vector, velocity *cp.Vector, smoothTime, maxSpeed, dt float64) cp.Vector {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	goal := target
	change := current.Sub(target)
	if maxSpeed > 0 {
		maxChange := maxSpeed * smoothTime
		if l := change.Length(); l > maxChange {
			change = change.Mult(maxChange / l)
		}
	}
	target = current.Sub(change)

	temp := velocity.Add(change.Mult(omega)).Mult(dt)
	*velocity = velocity.Sub(temp.Mult(omega)).Mult(decay)
	out := target.Add(change.Add(temp).Mult(decay))

	// do not overshoot the goal
	if goal.Sub(current).Dot(out.Sub(goal)) > 0 {
		out = goal
		*velocity = cp.Vector{}
	}
	return out
}

// RandomInDisc returns a uniformly distributed point within radius of
// center, given two uniform samples in [0,1).
func RandomInDisc(center cp.Vector, radius, u, v float64) cp.Vector {
	r := radius * math.Sqrt(u)
	theta := v * 2 * math.Pi
	return center.Add(cp.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
}
