package session

import (
	"cmp"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
)

// EnemyView is a read-only copy of one enemy for renderers.
type EnemyView struct {
	Entity         ecs.Entity
	Archetype      string
	Position       cp.Vector
	Facing         cp.Vector
	Radius         float64
	State          string
	Combat         string
	Health         float64
	MaxHealth      float64
	DetectionRange float64
	LoseAggroRange float64
	Boss           string
	Dead           bool
}

type TargetView struct {
	Entity    ecs.Entity
	Name      string
	Position  cp.Vector
	Health    float64
	MaxHealth float64
}

// View is everything a renderer needs for one frame.
type View struct {
	Time        float64
	Wave        int
	WaveState   string
	BossWave    bool
	Alive       int
	Kills       int
	Enemies     []EnemyView
	Targets     []TargetView
	Projectiles []cp.Vector
}

// Snapshot copies the current state. Nothing in it aliases live objects.
func (s *Session) Snapshot() View {
	v := View{
		Time:        s.clock,
		Wave:        s.waves.Wave(),
		WaveState:   s.waves.State().String(),
		BossWave:    s.waves.BossWave(),
		Alive:       s.waves.Alive(),
		Kills:       s.waves.Kills(),
		Projectiles: s.shots.Positions(),
	}

	ecs.ForEach2(s.ents, component.AIComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, ai *component.AI, pb *component.PhysicsBody) {
		ctrl := ai.Controller
		cfg := ctrl.Sensor().Config()
		ev := EnemyView{
			Entity:         e,
			Archetype:      ctrl.Archetype(),
			Position:       pb.Body.Position(),
			Facing:         ctrl.Mover().Facing(),
			Radius:         pb.Body.Radius(),
			State:          ctrl.State().String(),
			Combat:         ctrl.Combat().Phase().String(),
			Health:         ctrl.Health().Current,
			MaxHealth:      ctrl.Health().Max,
			DetectionRange: cfg.DetectionRange,
			LoseAggroRange: cfg.LoseAggroRange,
			Dead:           ecs.Has(s.ents, e, component.DeadTagComponent.Kind()),
		}
		if b, ok := ecs.Get(s.ents, e, component.BossComponent.Kind()); ok && b.Augment != nil {
			ev.Boss = b.Augment.Phase().String()
		}
		v.Enemies = append(v.Enemies, ev)
	})

	ecs.ForEach2(s.ents, component.TargetComponent.Kind(), component.HealthComponent.Kind(), func(e ecs.Entity, t *component.Target, h *actor.Health) {
		tv := TargetView{Entity: e, Name: t.Name, Health: h.Current, MaxHealth: h.Max}
		if body, ok := s.phys.Body(e); ok {
			tv.Position = body.Position()
		}
		v.Targets = append(v.Targets, tv)
	})

	slices.SortFunc(v.Enemies, func(a, b EnemyView) int { return cmp.Compare(a.Entity, b.Entity) })
	slices.SortFunc(v.Targets, func(a, b TargetView) int { return cmp.Compare(a.Entity, b.Entity) })
	return v
}
