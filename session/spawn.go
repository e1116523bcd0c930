package session

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ai/behavior"
	"github.com/milk9111/hordewave/ai/boss"
	"github.com/milk9111/hordewave/ai/combat"
	"github.com/milk9111/hordewave/ai/locomotion"
	"github.com/milk9111/hordewave/ai/perception"
	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/telemetry"
	"github.com/milk9111/hordewave/wave"
)

type instance struct {
	e    ecs.Entity
	ctrl *behavior.Controller
}

func (i *instance) Entity() ecs.Entity                   { return i.e }
func (i *instance) OnDied(fn func(evt actor.DeathEvent)) { i.ctrl.OnDied(fn) }
func (i *instance) Controller() *behavior.Controller     { return i.ctrl }

// Spawn builds a fully wired enemy from an already scaled clone. The
// orchestrator calls it; tools may call it directly.
func (s *Session) Spawn(spec *prefabs.ArchetypeSpec, pos cp.Vector) (wave.Instance, error) {
	if spec == nil {
		return nil, fmt.Errorf("session: spawn: %w", prefabs.ErrUnknownArchetype)
	}
	kind, err := locomotion.ParseKind(spec.Locomotion)
	if err != nil {
		return nil, fmt.Errorf("session: spawn %s: %w", spec.Name, err)
	}
	mode, err := perception.ParseMode(spec.Perception.Mode)
	if err != nil {
		return nil, fmt.Errorf("session: spawn %s: %w", spec.Name, err)
	}
	logger := s.logger.With("archetype", spec.Name)

	e := ecs.CreateEntity(s.ents)
	body := s.phys.AddActor(e, pos, spec.Radius, s.masks.enemy, s.masks.ground|s.masks.obstacle, kind == locomotion.GroundPatrol)

	health := actor.NewHealth(spec.Health)
	health.KnockbackResistance = spec.KnockbackResistance

	var mods actor.Modifiers = actor.Unmodified{}
	var aug *boss.Augment
	if spec.Boss != nil {
		aug = boss.New(*spec.Boss, health, &fightHooks{s: s, e: e, name: spec.Name}, logger)
		aug.OnPhaseChanged(func(_, to boss.Phase) {
			s.emit(telemetry.Event{Type: telemetry.EventBossPhase, Entity: uint64(e), Archetype: spec.Name, Phase: to.String()})
		})
		mods = aug
	}

	sensor := perception.New(perception.Config{
		Mode:           mode,
		DetectionRange: spec.Perception.DetectionRange,
		LoseAggroRange: spec.Perception.LoseAggroRange,
		DetectionAngle: spec.Perception.DetectionAngle,
		TargetMask:     s.layerOr(spec.Perception.TargetLayer, "target"),
		ObstacleMask:   s.masks.ground | s.layerOr(spec.Perception.ObstacleLayer, "obstacle"),
		ScanEvery:      spec.Perception.ScanEvery,
	}, s.phys)

	mover := locomotion.New(body, s.phys, locomotion.Options{
		Kind:             kind,
		Step:             common.FixedStep,
		MoveSpeed:        spec.MoveSpeed,
		ChaseSpeed:       spec.ChaseSpeed,
		StoppingDistance: spec.StoppingDistance,
		Modifiers:        mods,
		Ground: locomotion.GroundConfig{
			GroundMask:       s.layerOr(spec.Ground.GroundLayer, "ground"),
			WallProbe:        spec.Ground.WallProbe,
			LedgeProbe:       spec.Ground.LedgeProbe,
			TurnPause:        spec.Ground.TurnPause,
			InitialDirection: facingFor(pos, s.arena.Width),
		},
		Flying: locomotion.FlyingConfig{
			Home:           pos,
			PatrolRadius:   spec.Flying.PatrolRadius,
			Retarget:       spec.Flying.Retarget,
			SmoothTime:     spec.Flying.SmoothTime,
			ArriveDistance: spec.Flying.ArriveDistance,
			HoverAmplitude: spec.Flying.HoverAmplitude,
			HoverPeriod:    spec.Flying.HoverPeriod,
		},
		Rand:   s.childRand(),
		Logger: logger,
	})

	exec := combat.NewExecutor(e, spec.Attacks, combat.Options{
		Selector:  s.selector(spec.AttackScript),
		Modifiers: mods,
	})
	exec.OnAttackStarted(func(atk prefabs.AttackSpec) {
		s.emit(telemetry.Event{Type: telemetry.EventTelegraph, Entity: uint64(e), Archetype: spec.Name, Attack: atk.Name})
	})

	ctrl, err := behavior.New(e, spec.Name, behavior.Config{
		IdleTime:     spec.Behavior.IdleTime,
		AlertDelay:   spec.Behavior.AlertDelay,
		Cooldown:     spec.Behavior.Cooldown,
		StunDuration: spec.Behavior.StunDuration,
	}, actor.Reward{
		Experience: spec.Reward.Experience,
		DropTable:  spec.Reward.DropTable,
		DropChance: spec.Reward.DropChance,
	}, behavior.Parts{
		Body:      body,
		Sensor:    sensor,
		Mover:     mover,
		Combat:    exec,
		Health:    health,
		Targets:   s,
		Striker:   s,
		Modifiers: mods,
		Logger:    logger,
	})
	if err != nil {
		s.phys.RemoveActor(e)
		ecs.DestroyEntity(s.ents, e)
		return nil, fmt.Errorf("session: spawn %s: %w", spec.Name, err)
	}
	ctrl.OnDied(s.onEnemyDied)

	_ = ecs.Add(s.ents, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
	_ = ecs.Add(s.ents, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body})
	_ = ecs.Add(s.ents, e, component.HealthComponent.Kind(), health)
	_ = ecs.Add(s.ents, e, component.AIComponent.Kind(), &component.AI{Spec: spec, Controller: ctrl})
	if aug != nil {
		_ = ecs.Add(s.ents, e, component.BossComponent.Kind(), &component.Boss{Augment: aug})
	}

	s.emit(telemetry.Event{Type: telemetry.EventSpawned, Entity: uint64(e), Archetype: spec.Name, Wave: s.waves.Wave(), X: pos.X, Y: pos.Y})
	return &instance{e: e, ctrl: ctrl}, nil
}

// SpawnArchetype clones, scales for wave n and spawns a catalog archetype.
func (s *Session) SpawnArchetype(name string, n int, pos cp.Vector) (wave.Instance, error) {
	base, err := s.catalog.MustArchetype(name)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	spec := base.Clone()
	s.catalog.Wave().ScaleFor(n).Apply(spec)
	return s.Spawn(spec, pos)
}

func (s *Session) selector(script string) combat.Selector {
	if script == "" {
		return nil
	}
	if sel, ok := s.selectors[script]; ok {
		return sel
	}
	var sel combat.Selector
	if src, ok := s.catalog.Script(script); !ok {
		s.logger.Warn("attack script missing; using first match", "script", script)
	} else if compiled, err := combat.NewScriptSelector(script, src, s.logger); err != nil {
		s.logger.Warn("attack script failed to compile; using first match", "script", script, "err", err)
	} else {
		sel = compiled
	}
	s.selectors[script] = sel
	return sel
}

func (s *Session) onEnemyDied(evt actor.DeathEvent) {
	_ = ecs.Add(s.ents, evt.Entity, component.DeadTagComponent.Kind(), &component.DeadTag{})
	_ = ecs.Add(s.ents, evt.Entity, component.TTLComponent.Kind(), &component.TTL{Frames: corpseFrames})
	s.hooks.Rewards.GrantReward(evt)
	s.emit(telemetry.Event{
		Type:      telemetry.EventDied,
		Entity:    uint64(evt.Entity),
		Archetype: evt.Archetype,
		Wave:      s.waves.Wave(),
		X:         evt.Position.X,
		Y:         evt.Position.Y,
	})
}

// fightHooks reports boss fights to telemetry and the outside collaborator.
type fightHooks struct {
	s    *Session
	e    ecs.Entity
	name string
}

func (h *fightHooks) EnterBossFight() {
	h.s.emit(telemetry.Event{Type: telemetry.EventBossFightStarted, Entity: uint64(h.e), Archetype: h.name, Wave: h.s.waves.Wave()})
	if h.s.hooks.BossFight != nil {
		h.s.hooks.BossFight.EnterBossFight()
	}
}

func (h *fightHooks) ExitBossFight() {
	h.s.emit(telemetry.Event{Type: telemetry.EventBossFightEnded, Entity: uint64(h.e), Archetype: h.name, Wave: h.s.waves.Wave()})
	if h.s.hooks.BossFight != nil {
		h.s.hooks.BossFight.ExitBossFight()
	}
}
