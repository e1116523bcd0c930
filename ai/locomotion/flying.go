package locomotion

import (
	"log/slog"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/milk9111/hordewave/common"
)

type FlyingConfig struct {
	Home           cp.Vector
	PatrolRadius   float64
	Retarget       float64
	SmoothTime     float64
	ArriveDistance float64
	HoverAmplitude float64
	HoverPeriod    float64
}

// flyingMover wanders between random points near Home and layers a
// sinusoidal hover on top of whatever it is doing.
type flyingMover struct {
	body   Body
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger

	goal     cp.Vector
	hasGoal  bool
	retarget float64
	smooth   cp.Vector
	facing   cp.Vector

	hoverUp     *gween.Tween
	hoverDown   *gween.Tween
	hoverRising bool
	hoverOffset float64
}

func newFlyingMover(body Body, opts Options) *flyingMover {
	f := opts.Flying
	if f.SmoothTime <= 0 {
		f.SmoothTime = 0.4
	}
	if f.ArriveDistance <= 0 {
		f.ArriveDistance = 6
	}
	if f.Retarget <= 0 {
		f.Retarget = 3
	}
	if f.HoverPeriod <= 0 {
		f.HoverPeriod = 1.5
	}
	opts.Flying = f
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(body.Owner()), 0x5eed))
	}
	m := &flyingMover{
		body:   body,
		opts:   opts,
		rng:    rng,
		logger: opts.Logger,
		facing: cp.Vector{X: 1},
	}
	if f.HoverAmplitude > 0 {
		half := float32(f.HoverPeriod / 2)
		amp := float32(f.HoverAmplitude)
		m.hoverUp = gween.New(-amp, amp, half, ease.InOutSine)
		m.hoverDown = gween.New(amp, -amp, half, ease.InOutSine)
		m.hoverRising = true
		m.hoverOffset = -f.HoverAmplitude
	}
	return m
}

func (m *flyingMover) Kind() Kind { return Flying }

func (m *flyingMover) Facing() cp.Vector { return m.facing }

// Goal returns the current patrol destination.
func (m *flyingMover) Goal() (cp.Vector, bool) { return m.goal, m.hasGoal }

func (m *flyingMover) Patrol() {
	m.retarget -= m.opts.Step
	pos := m.body.Position()
	if !m.hasGoal || m.retarget <= 0 || pos.Distance(m.goal) <= m.opts.Flying.ArriveDistance {
		m.pickGoal()
	}
	m.approach(m.goal, m.opts.MoveSpeed)
}

func (m *flyingMover) pickGoal() {
	f := m.opts.Flying
	m.goal = common.RandomInDisc(f.Home, f.PatrolRadius, m.rng.Float64(), m.rng.Float64())
	m.hasGoal = true
	m.retarget = f.Retarget
}

func (m *flyingMover) ChaseTarget(target cp.Vector) {
	pos := m.body.Position()
	if pos.Distance(target) <= m.opts.StoppingDistance {
		target = pos
	}
	m.approach(target, m.opts.ChaseSpeed)
	// resume a fresh wander once the chase ends
	m.hasGoal = false
}

func (m *flyingMover) Stop() {
	m.smooth = cp.Vector{}
	m.body.SetVelocity(cp.Vector{})
}

func (m *flyingMover) approach(goal cp.Vector, speed float64) {
	step := m.opts.Step
	pos := m.body.Position()
	next := common.SmoothDamp(pos, goal, &m.smooth, m.opts.Flying.SmoothTime, speed*m.opts.Modifiers.SpeedMultiplier(), step)
	drive := next.Sub(pos).Mult(1 / step)
	if drive.X != 0 {
		m.facing = cp.Vector{X: sign(drive.X)}
	}
	m.body.SetVelocity(drive.Add(cp.Vector{Y: m.hoverVelocity()}))
}

// hoverVelocity advances the ping-pong tween one step and returns the
// vertical speed that reproduces the change in offset.
func (m *flyingMover) hoverVelocity() float64 {
	if m.hoverUp == nil {
		return 0
	}
	tw := m.hoverDown
	if m.hoverRising {
		tw = m.hoverUp
	}
	cur, done := tw.Update(float32(m.opts.Step))
	prev := m.hoverOffset
	m.hoverOffset = float64(cur)
	if done {
		tw.Reset()
		m.hoverRising = !m.hoverRising
	}
	return (m.hoverOffset - prev) / m.opts.Step
}
