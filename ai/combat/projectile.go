package combat

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
)

// Projectile is a kinematic shot. It is swept against obstacles and
// overlapped against targets each tick rather than simulated as a body.
type Projectile struct {
	Owner     ecs.Entity
	Attack    string
	Position  cp.Vector
	Velocity  cp.Vector
	Radius    float64
	Damage    float64
	Knockback float64
	Lifetime  float64
	// TargetMask is filled in by the world when launched.
	TargetMask physics.Layer
}

// ProjectileSet advances live projectiles. A projectile deals damage at
// most once and is removed on hit, on obstacle contact or on expiry.
type ProjectileSet struct {
	q         physics.Query
	obstacles physics.Layer
	items     []Projectile
	onHit     []func(evt HitEvent)
}

func NewProjectileSet(q physics.Query, obstacles physics.Layer) *ProjectileSet {
	return &ProjectileSet{q: q, obstacles: obstacles}
}

func (s *ProjectileSet) OnHit(fn func(evt HitEvent)) {
	if fn != nil {
		s.onHit = append(s.onHit, fn)
	}
}

func (s *ProjectileSet) Launch(p Projectile) {
	if p.Lifetime <= 0 {
		return
	}
	s.items = append(s.items, p)
}

func (s *ProjectileSet) Len() int { return len(s.items) }

// Positions returns a snapshot of live projectile positions.
func (s *ProjectileSet) Positions() []cp.Vector {
	out := make([]cp.Vector, len(s.items))
	for i, p := range s.items {
		out[i] = p.Position
	}
	return out
}

// Clear drops every projectile.
func (s *ProjectileSet) Clear() {
	s.items = s.items[:0]
}

func (s *ProjectileSet) Tick(dt float64, dmg Damager) {
	live := s.items[:0]
	for _, p := range s.items {
		if s.advance(&p, dt, dmg) {
			live = append(live, p)
		}
	}
	clear(s.items[len(live):])
	s.items = live
}

func (s *ProjectileSet) advance(p *Projectile, dt float64, dmg Damager) bool {
	next := p.Position.Add(p.Velocity.Mult(dt))
	if s.q != nil && s.obstacles != physics.LayerNone {
		if _, hit := s.q.Raycast(p.Position, next, s.obstacles); hit {
			return false
		}
	}
	p.Position = next
	if s.q != nil && p.TargetMask != physics.LayerNone {
		for _, h := range s.q.OverlapCircle(next, p.Radius, p.TargetMask) {
			if h.Body == nil || h.Body.Owner() == p.Owner {
				continue
			}
			if dmg != nil && dmg.Strike(p.Owner, h.Body.Owner(), p.Damage, p.Knockback, next.Sub(p.Velocity)) {
				evt := HitEvent{Attacker: p.Owner, Target: h.Body.Owner(), Attack: p.Attack, Damage: p.Damage}
				for _, fn := range s.onHit {
					fn(evt)
				}
			}
			return false
		}
	}
	p.Lifetime -= dt
	return p.Lifetime > 0
}
