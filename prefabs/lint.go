package prefabs

import (
	"errors"
	"fmt"
	"sort"
)

const (
	LocomotionGround     = "ground"
	LocomotionFlying     = "flying"
	LocomotionStationary = "stationary"

	PerceptionRadius      = "radius"
	PerceptionCone        = "cone"
	PerceptionLineOfSight = "line_of_sight"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one finding from Lint. File is the prefab file it belongs to.
type Issue struct {
	Severity Severity
	File     string
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.File, i.Path, i.Message)
}

type linter struct {
	issues []Issue
}

func (l *linter) errorf(file, path, format string, args ...any) {
	l.issues = append(l.issues, Issue{SeverityError, file, path, fmt.Sprintf(format, args...)})
}

func (l *linter) warnf(file, path, format string, args ...any) {
	l.issues = append(l.issues, Issue{SeverityWarning, file, path, fmt.Sprintf(format, args...)})
}

// Lint checks cross-references between archetypes, waves and layers.
// Warnings describe configurations the runtime tolerates with a fallback.
func (c *Catalog) Lint() []Issue {
	l := &linter{}
	layers := make(map[string]bool, len(c.layers))
	for i, name := range c.layers {
		if layers[name] {
			l.errorf(LayersFileName, fmt.Sprintf("layers[%d]", i), "duplicate layer %q", name)
		}
		layers[name] = true
	}
	checkLayer := func(path, name string) {
		if name != "" && len(layers) > 0 && !layers[name] {
			l.errorf(ArchetypesFileName, path, "layer %q is not defined in %s", name, LayersFileName)
		}
	}

	seen := make(map[string]bool)
	for i, name := range c.order {
		base := fmt.Sprintf("archetypes[%d]", i)
		if name == "" {
			l.errorf(ArchetypesFileName, base, "archetype has no name")
			continue
		}
		if seen[name] {
			l.errorf(ArchetypesFileName, base, "duplicate archetype %q", name)
			continue
		}
		seen[name] = true
		c.lintArchetype(l, base, c.archetypes[name], checkLayer)
	}
	c.lintWave(l)
	return l.issues
}

func (c *Catalog) lintArchetype(l *linter, base string, a *ArchetypeSpec, checkLayer func(path, name string)) {
	if a.Health <= 0 {
		l.errorf(ArchetypesFileName, base+".health", "must be positive, got %v", a.Health)
	}
	switch a.Locomotion {
	case LocomotionGround:
		if a.Ground.GroundLayer == "" {
			l.warnf(ArchetypesFileName, base+".ground.ground_layer", "not set; wall and ledge checks are disabled")
		}
		checkLayer(base+".ground.ground_layer", a.Ground.GroundLayer)
	case LocomotionFlying:
		if a.Flying.PatrolRadius <= 0 {
			l.warnf(ArchetypesFileName, base+".flying.patrol_radius", "not set; flyer will hover in place")
		}
	case LocomotionStationary:
	default:
		l.errorf(ArchetypesFileName, base+".locomotion", "unknown locomotion %q", a.Locomotion)
	}

	p := a.Perception
	switch p.Mode {
	case PerceptionRadius, PerceptionCone:
	case PerceptionLineOfSight:
		if p.ObstacleLayer == "" {
			l.warnf(ArchetypesFileName, base+".perception.obstacle_layer", "line_of_sight without obstacle layer behaves like radius")
		}
	default:
		l.errorf(ArchetypesFileName, base+".perception.mode", "unknown mode %q", p.Mode)
	}
	if p.DetectionRange <= 0 {
		l.errorf(ArchetypesFileName, base+".perception.detection_range", "must be positive")
	}
	if p.LoseAggroRange != 0 && p.LoseAggroRange < p.DetectionRange {
		l.warnf(ArchetypesFileName, base+".perception.lose_aggro_range", "%v below detection range %v; clamped", p.LoseAggroRange, p.DetectionRange)
	}
	checkLayer(base+".perception.target_layer", p.TargetLayer)
	checkLayer(base+".perception.obstacle_layer", p.ObstacleLayer)

	if a.KnockbackResistance < 0 || a.KnockbackResistance > 1 {
		l.errorf(ArchetypesFileName, base+".knockback_resistance", "must be within [0,1], got %v", a.KnockbackResistance)
	}
	if len(a.Attacks) == 0 && a.Locomotion != LocomotionStationary {
		l.warnf(ArchetypesFileName, base+".attacks", "no attacks; enemy will chase forever")
	}
	for j, atk := range a.Attacks {
		path := fmt.Sprintf("%s.attacks[%d]", base, j)
		switch atk.Kind {
		case AttackMelee:
			if atk.Hitbox.Radius <= 0 {
				l.errorf(ArchetypesFileName, path+".hitbox.radius", "melee attack needs a hitbox")
			}
		case AttackProjectile:
			if atk.Projectile.Speed <= 0 || atk.Projectile.Lifetime <= 0 {
				l.errorf(ArchetypesFileName, path+".projectile", "speed and lifetime must be positive")
			}
		default:
			l.errorf(ArchetypesFileName, path+".kind", "unknown attack kind %q", atk.Kind)
		}
		if atk.MaxRange < atk.MinRange {
			l.errorf(ArchetypesFileName, path, "max_range %v below min_range %v", atk.MaxRange, atk.MinRange)
		}
		if atk.WindUp < 0 || atk.Active < 0 || atk.Recovery < 0 {
			l.errorf(ArchetypesFileName, path, "phase durations must not be negative")
		}
	}
	if a.AttackScript != "" && len(c.scripts) > 0 {
		if _, ok := c.scripts[a.AttackScript]; !ok {
			l.errorf(ArchetypesFileName, base+".attack_script", "script %q not found", a.AttackScript)
		}
	}
	if b := a.Boss; b != nil {
		last := 1.0
		for _, st := range []struct {
			name  string
			stage *BossStageSpec
		}{{"phase2", b.Phase2}, {"enraged", b.Enraged}} {
			if st.stage == nil {
				continue
			}
			if st.stage.Threshold <= 0 || st.stage.Threshold >= last {
				l.errorf(ArchetypesFileName, base+".boss."+st.name+".threshold", "must be in (0,%v), got %v", last, st.stage.Threshold)
				continue
			}
			last = st.stage.Threshold
		}
	}
}

func (c *Catalog) lintWave(l *linter) {
	w := c.wave
	if w.MaxAlive <= 0 {
		l.errorf(WavesFileName, "max_alive", "must be positive")
	}
	if w.BaseCount <= 0 {
		l.errorf(WavesFileName, "base_count", "must be positive")
	}
	if len(w.Pool) == 0 {
		l.errorf(WavesFileName, "pool", "spawn pool is empty")
	}
	minWave := 0
	for i, e := range w.Pool {
		path := fmt.Sprintf("pool[%d]", i)
		if e.Archetype == "" {
			l.warnf(WavesFileName, path, "entry has no archetype and will be skipped")
		} else if _, ok := c.archetypes[e.Archetype]; !ok {
			l.warnf(WavesFileName, path, "archetype %q is not defined and will be skipped", e.Archetype)
		}
		if e.Weight <= 0 {
			l.warnf(WavesFileName, path+".weight", "non-positive weight; entry never selected")
		}
		if i == 0 || e.MinWave < minWave {
			minWave = e.MinWave
		}
	}
	if len(w.Pool) > 0 && minWave > 1 {
		l.warnf(WavesFileName, "pool", "no entry is eligible before wave %d", minWave)
	}
	if w.BossArchetype != "" {
		a, ok := c.archetypes[w.BossArchetype]
		switch {
		case !ok:
			l.errorf(WavesFileName, "boss_archetype", "archetype %q is not defined", w.BossArchetype)
		case a.Boss == nil:
			l.warnf(WavesFileName, "boss_archetype", "archetype %q has no boss phase table", w.BossArchetype)
		}
	}
}

// Validate returns the error-level Lint findings joined, or nil.
func (c *Catalog) Validate() error {
	var errs []error
	for _, is := range c.Lint() {
		if is.Severity == SeverityError {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidSpec, is.Error()))
		}
	}
	return errors.Join(errs...)
}

// SortIssues orders issues by file then path for stable output.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Path < issues[j].Path
	})
}
