package session

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ai/combat"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/physics"
	"github.com/milk9111/hordewave/telemetry"
)

// AddTarget registers something for enemies to hunt. Its position is
// driven from outside with MoveTarget.
func (s *Session) AddTarget(name string, pos cp.Vector, maxHealth float64) ecs.Entity {
	e := ecs.CreateEntity(s.ents)
	body := s.phys.AddActor(e, pos, targetRadius, s.masks.target, physics.LayerNone, false)
	health := actor.NewHealth(maxHealth)
	health.OnDeath(func(*actor.Health, actor.DamageEvent) {
		s.phys.RemoveActor(e)
		s.logger.Info("target down", "target", name, "entity", e)
	})
	_ = ecs.Add(s.ents, e, component.TargetComponent.Kind(), &component.Target{Name: name})
	_ = ecs.Add(s.ents, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body})
	_ = ecs.Add(s.ents, e, component.HealthComponent.Kind(), health)
	return e
}

// AddDefaultTarget places a target at the arena's target spawn, or its
// centre when the map has none.
func (s *Session) AddDefaultTarget(name string, maxHealth float64) ecs.Entity {
	pos := cp.Vector{X: s.arena.Width / 2, Y: s.arena.Height / 2}
	if s.arena.HasTargetSpawn {
		pos = s.arena.TargetSpawn
	}
	return s.AddTarget(name, pos, maxHealth)
}

func (s *Session) MoveTarget(e ecs.Entity, pos cp.Vector) bool {
	if !ecs.Has(s.ents, e, component.TargetComponent.Kind()) {
		return false
	}
	body, ok := s.phys.Body(e)
	if !ok {
		return false
	}
	body.SetPosition(pos)
	return true
}

// TargetPosition resolves a weak target handle. Destroyed or dead targets
// report false.
func (s *Session) TargetPosition(e ecs.Entity) (cp.Vector, bool) {
	if !ecs.Has(s.ents, e, component.TargetComponent.Kind()) {
		return cp.Vector{}, false
	}
	if h, ok := ecs.Get(s.ents, e, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		return cp.Vector{}, false
	}
	body, ok := s.phys.Body(e)
	if !ok {
		return cp.Vector{}, false
	}
	return body.Position(), true
}

// MeleeTargets lists live targets overlapping a hitbox, nearest first.
func (s *Session) MeleeTargets(_ ecs.Entity, center cp.Vector, radius float64) []ecs.Entity {
	hits := s.phys.OverlapCircle(center, radius, s.masks.target)
	out := make([]ecs.Entity, 0, len(hits))
	for _, hit := range hits {
		owner := hit.Body.Owner()
		if _, ok := s.TargetPosition(owner); ok {
			out = append(out, owner)
		}
	}
	return out
}

// Strike applies enemy damage to a target.
func (s *Session) Strike(attacker, target ecs.Entity, amount, knockback float64, origin cp.Vector) bool {
	if !ecs.Has(s.ents, target, component.TargetComponent.Kind()) {
		return false
	}
	h, ok := ecs.Get(s.ents, target, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	applied := h.Apply(actor.DamageEvent{Amount: amount, Knockback: knockback, Source: attacker, Origin: origin, HasOrigin: true})
	if applied {
		s.emit(telemetry.Event{Type: telemetry.EventTargetHit, Entity: uint64(target), Amount: amount})
	}
	return applied
}

func (s *Session) Launch(p combat.Projectile) {
	p.TargetMask = s.masks.target
	s.shots.Launch(p)
}

// DamageEnemy is the entry point for player attacks against an enemy.
func (s *Session) DamageEnemy(e ecs.Entity, amount, knockback float64, source ecs.Entity, origin cp.Vector) bool {
	if !ecs.Has(s.ents, e, component.EnemyTagComponent.Kind()) || ecs.Has(s.ents, e, component.DeadTagComponent.Kind()) {
		return false
	}
	h, ok := ecs.Get(s.ents, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	return h.Apply(actor.DamageEvent{Amount: amount, Knockback: knockback, Source: source, Origin: origin, HasOrigin: true})
}

// EnemiesNear lists live enemies within radius of center, nearest first.
func (s *Session) EnemiesNear(center cp.Vector, radius float64) []ecs.Entity {
	hits := s.phys.OverlapCircle(center, radius, s.masks.enemy)
	out := make([]ecs.Entity, 0, len(hits))
	for _, hit := range hits {
		owner := hit.Body.Owner()
		if ecs.Has(s.ents, owner, component.DeadTagComponent.Kind()) {
			continue
		}
		out = append(out, owner)
	}
	return out
}
