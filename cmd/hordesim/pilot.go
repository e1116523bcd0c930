package main

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/session"
)

const (
	pilotHealth    = 400
	pilotSpeed     = 70
	pilotReach     = 36
	pilotDamage    = 12
	pilotKnockback = 140
	pilotSwing     = 0.45
	pilotMargin    = 40
)

// pilot stands in for a player: it walks the arena floor back and forth
// and swings at whatever enemies are close.
type pilot struct {
	sess  *session.Session
	e     ecs.Entity
	pos   cp.Vector
	dir   float64
	swing float64
	minX  float64
	maxX  float64
}

func newPilot(sess *session.Session) *pilot {
	e := sess.AddDefaultTarget("pilot", pilotHealth)
	pos, _ := sess.TargetPosition(e)
	ar := sess.Arena()
	return &pilot{
		sess: sess,
		e:    e,
		pos:  pos,
		dir:  1,
		minX: pilotMargin,
		maxX: ar.Width - pilotMargin,
	}
}

func (p *pilot) Down() bool {
	_, ok := p.sess.TargetPosition(p.e)
	return !ok
}

// Step moves one fixed step and swings when the swing timer allows.
func (p *pilot) Step() {
	if p.Down() {
		return
	}
	p.pos.X += p.dir * pilotSpeed * common.FixedStep
	if p.pos.X >= p.maxX || p.pos.X <= p.minX {
		p.pos.X = common.Clamp(p.pos.X, p.minX, p.maxX)
		p.dir = -p.dir
	}
	p.sess.MoveTarget(p.e, p.pos)

	p.swing -= common.FixedStep
	if p.swing > 0 {
		return
	}
	near := p.sess.EnemiesNear(p.pos, pilotReach)
	if len(near) == 0 {
		return
	}
	p.swing = pilotSwing
	for _, e := range near {
		p.sess.DamageEnemy(e, pilotDamage, pilotKnockback, p.e, p.pos)
	}
}
