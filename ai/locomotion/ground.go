package locomotion

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/physics"
)

type GroundConfig struct {
	// GroundMask is the layer walls and floors live on. LayerNone disables
	// the wall and ledge checks and leaves only the fallback ground tiers.
	GroundMask physics.Layer
	WallProbe  float64
	LedgeProbe float64
	TurnPause  float64
	// InitialDirection is -1 or 1; zero starts moving right.
	InitialDirection float64
	// RestingSpeed is the vertical speed under which a gravity body counts
	// as grounded when no geometry query answers.
	RestingSpeed float64
}

// SurfaceTier reports which check established grounding.
type SurfaceTier int

const (
	TierNone SurfaceTier = iota
	TierLayer
	TierUnfiltered
	TierVelocity
)

// surfaceProbe answers grounded/wall/ledge questions for one body.
type surfaceProbe struct {
	body Body
	q    physics.Query
	cfg  GroundConfig
}

func (p surfaceProbe) feet() cp.Vector {
	pos := p.body.Position()
	return cp.Vector{X: pos.X, Y: pos.Y + p.body.Radius()}
}

// grounded tries a layer-filtered ray, then an unfiltered overlap at the
// feet that ignores the body itself, then the resting-velocity heuristic.
func (p surfaceProbe) grounded() (bool, SurfaceTier) {
	if p.q != nil {
		feet := p.feet()
		if p.cfg.GroundMask != physics.LayerNone {
			below := cp.Vector{X: feet.X, Y: feet.Y + p.cfg.LedgeProbe}
			if _, ok := p.q.Raycast(p.body.Position(), below, p.cfg.GroundMask); ok {
				return true, TierLayer
			}
		}
		for _, h := range p.q.OverlapCircle(feet, 1, physics.LayerAll) {
			if h.Body != nil && h.Body.Owner() == p.body.Owner() {
				continue
			}
			return true, TierUnfiltered
		}
	}
	if p.body.GravityEnabled() && math.Abs(p.body.Velocity().Y) <= p.cfg.RestingSpeed {
		return true, TierVelocity
	}
	return false, TierNone
}

func (p surfaceProbe) wallAhead(dir float64) bool {
	if p.q == nil || p.cfg.GroundMask == physics.LayerNone {
		return false
	}
	pos := p.body.Position()
	ahead := cp.Vector{X: pos.X + dir*(p.body.Radius()+p.cfg.WallProbe), Y: pos.Y}
	_, hit := p.q.Raycast(pos, ahead, p.cfg.GroundMask)
	return hit
}

func (p surfaceProbe) ledgeAhead(dir float64) bool {
	if p.q == nil || p.cfg.GroundMask == physics.LayerNone {
		return false
	}
	pos := p.body.Position()
	r := p.body.Radius()
	from := cp.Vector{X: pos.X + dir*(r+p.cfg.WallProbe), Y: pos.Y}
	to := cp.Vector{X: from.X, Y: pos.Y + r + p.cfg.LedgeProbe}
	_, hit := p.q.Raycast(from, to, p.cfg.GroundMask)
	return !hit
}

type groundMover struct {
	body   Body
	probe  surfaceProbe
	opts   Options
	logger *slog.Logger

	dir   float64
	pause float64
	tier  SurfaceTier
}

func newGroundMover(body Body, q physics.Query, opts Options) *groundMover {
	g := opts.Ground
	if g.WallProbe <= 0 {
		g.WallProbe = 4
	}
	if g.LedgeProbe <= 0 {
		g.LedgeProbe = 6
	}
	if g.RestingSpeed <= 0 {
		g.RestingSpeed = 1
	}
	opts.Ground = g
	dir := 1.0
	if g.InitialDirection < 0 {
		dir = -1
	}
	if g.GroundMask == physics.LayerNone {
		opts.Logger.Warn("ground layer not configured; wall and ledge checks disabled", "owner", body.Owner())
	}
	return &groundMover{
		body:   body,
		probe:  surfaceProbe{body: body, q: q, cfg: g},
		opts:   opts,
		logger: opts.Logger,
		dir:    dir,
	}
}

func (m *groundMover) Kind() Kind { return GroundPatrol }

func (m *groundMover) Facing() cp.Vector { return cp.Vector{X: m.dir} }

// Direction is -1 or 1.
func (m *groundMover) Direction() float64 { return m.dir }

// Tier reports how grounding was last established.
func (m *groundMover) Tier() SurfaceTier { return m.tier }

// Paused reports whether the mover is waiting after a turn.
func (m *groundMover) Paused() bool { return m.pause > 0 }

func (m *groundMover) Patrol() {
	if m.pause > 0 {
		m.pause = math.Max(0, m.pause-m.opts.Step)
		m.setHorizontal(0)
		return
	}
	grounded, tier := m.probe.grounded()
	m.tier = tier
	if !grounded {
		return
	}
	if m.blocked(tier) {
		m.dir = -m.dir
		m.pause = m.opts.Ground.TurnPause
		m.setHorizontal(0)
		return
	}
	m.setHorizontal(m.dir * m.opts.MoveSpeed * m.opts.Modifiers.SpeedMultiplier())
}

// ChaseTarget runs toward target horizontally and holds at walls, ledges
// and the stopping distance.
func (m *groundMover) ChaseTarget(target cp.Vector) {
	m.pause = 0
	dx := target.X - m.body.Position().X
	if dx != 0 {
		m.dir = sign(dx)
	}
	grounded, tier := m.probe.grounded()
	m.tier = tier
	if math.Abs(dx) <= m.opts.StoppingDistance {
		m.setHorizontal(0)
		return
	}
	if !grounded {
		return
	}
	if m.blocked(tier) {
		m.setHorizontal(0)
		return
	}
	m.setHorizontal(m.dir * m.opts.ChaseSpeed * m.opts.Modifiers.SpeedMultiplier())
}

// blocked reports a wall or ledge ahead. The checks only run when the
// configured ground layer itself established grounding.
func (m *groundMover) blocked(tier SurfaceTier) bool {
	if tier != TierLayer {
		return false
	}
	return m.probe.wallAhead(m.dir) || m.probe.ledgeAhead(m.dir)
}

func (m *groundMover) Stop() {
	m.body.SetVelocity(cp.Vector{})
}

func (m *groundMover) setHorizontal(vx float64) {
	v := m.body.Velocity()
	m.body.SetVelocity(cp.Vector{X: vx, Y: v.Y})
}
