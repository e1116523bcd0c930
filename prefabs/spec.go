package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownArchetype = errors.New("prefabs: unknown archetype")
	ErrInvalidSpec      = errors.New("prefabs: invalid spec")
)

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := LoadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// LoadInto decodes filename over dst, leaving fields the file omits at
// whatever dst already holds.
func LoadInto(filename string, dst any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// ArchetypeSpec is the immutable template an enemy is spawned from.
// Instances always work on a Clone.
type ArchetypeSpec struct {
	Name                string         `yaml:"name"`
	Health              float64        `yaml:"health"`
	MoveSpeed           float64        `yaml:"move_speed"`
	ChaseSpeed          float64        `yaml:"chase_speed"`
	Radius              float64        `yaml:"radius"`
	KnockbackResistance float64        `yaml:"knockback_resistance"`
	StoppingDistance    float64        `yaml:"stopping_distance"`
	Locomotion          string         `yaml:"locomotion"`
	Perception          PerceptionSpec `yaml:"perception"`
	Ground              GroundSpec     `yaml:"ground"`
	Flying              FlyingSpec     `yaml:"flying"`
	Behavior            BehaviorSpec   `yaml:"behavior"`
	Attacks             []AttackSpec   `yaml:"attacks"`
	AttackScript        string         `yaml:"attack_script"`
	Reward              RewardSpec     `yaml:"reward"`
	Boss                *BossSpec      `yaml:"boss"`
}

type PerceptionSpec struct {
	Mode           string  `yaml:"mode"`
	DetectionRange float64 `yaml:"detection_range"`
	LoseAggroRange float64 `yaml:"lose_aggro_range"`
	DetectionAngle float64 `yaml:"detection_angle"`
	TargetLayer    string  `yaml:"target_layer"`
	ObstacleLayer  string  `yaml:"obstacle_layer"`
	ScanEvery      int     `yaml:"scan_every"`
}

type GroundSpec struct {
	GroundLayer string  `yaml:"ground_layer"`
	WallProbe   float64 `yaml:"wall_probe"`
	LedgeProbe  float64 `yaml:"ledge_probe"`
	TurnPause   float64 `yaml:"turn_pause"`
}

type FlyingSpec struct {
	PatrolRadius   float64 `yaml:"patrol_radius"`
	Retarget       float64 `yaml:"retarget"`
	SmoothTime     float64 `yaml:"smooth_time"`
	ArriveDistance float64 `yaml:"arrive_distance"`
	HoverAmplitude float64 `yaml:"hover_amplitude"`
	HoverPeriod    float64 `yaml:"hover_period"`
}

type BehaviorSpec struct {
	IdleTime     float64 `yaml:"idle_time"`
	AlertDelay   float64 `yaml:"alert_delay"`
	Cooldown     float64 `yaml:"cooldown"`
	StunDuration float64 `yaml:"stun_duration"`
}

const (
	AttackMelee      = "melee"
	AttackProjectile = "projectile"
)

// AttackSpec is one attack an archetype can perform. Durations are seconds.
type AttackSpec struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"`
	Damage     float64        `yaml:"damage"`
	Knockback  float64        `yaml:"knockback"`
	WindUp     float64        `yaml:"wind_up"`
	Active     float64        `yaml:"active"`
	Recovery   float64        `yaml:"recovery"`
	MinRange   float64        `yaml:"min_range"`
	MaxRange   float64        `yaml:"max_range"`
	Hitbox     HitboxSpec     `yaml:"hitbox"`
	Projectile ProjectileSpec `yaml:"projectile"`
}

// Matches reports whether distance lies within [MinRange, MaxRange].
func (a AttackSpec) Matches(distance float64) bool {
	return distance >= a.MinRange && distance <= a.MaxRange
}

type HitboxSpec struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Radius  float64 `yaml:"radius"`
}

type ProjectileSpec struct {
	Speed    float64 `yaml:"speed"`
	Lifetime float64 `yaml:"lifetime"`
	Radius   float64 `yaml:"radius"`
}

type RewardSpec struct {
	Experience int     `yaml:"experience"`
	DropTable  string  `yaml:"drop_table"`
	DropChance float64 `yaml:"drop_chance"`
}

// BossSpec configures the phase table. Phase1 carries no threshold.
type BossSpec struct {
	Phase1  BossStageSpec  `yaml:"phase1"`
	Phase2  *BossStageSpec `yaml:"phase2"`
	Enraged *BossStageSpec `yaml:"enraged"`
}

type BossStageSpec struct {
	Threshold float64 `yaml:"threshold"`
	Speed     float64 `yaml:"speed"`
	Damage    float64 `yaml:"damage"`
	Cooldown  float64 `yaml:"cooldown"`
}

// Clone returns a deep copy safe to scale per instance.
func (a *ArchetypeSpec) Clone() *ArchetypeSpec {
	if a == nil {
		return nil
	}
	c := *a
	c.Attacks = append([]AttackSpec(nil), a.Attacks...)
	if a.Boss != nil {
		b := *a.Boss
		if a.Boss.Phase2 != nil {
			p := *a.Boss.Phase2
			b.Phase2 = &p
		}
		if a.Boss.Enraged != nil {
			p := *a.Boss.Enraged
			b.Enraged = &p
		}
		c.Boss = &b
	}
	return &c
}

// MaxAttackRange is the largest MaxRange over all attacks.
func (a *ArchetypeSpec) MaxAttackRange() float64 {
	var r float64
	for _, atk := range a.Attacks {
		r = max(r, atk.MaxRange)
	}
	return r
}

func (a *ArchetypeSpec) applyDefaults() {
	if a.Radius <= 0 {
		a.Radius = 10
	}
	if a.MoveSpeed <= 0 {
		a.MoveSpeed = 40
	}
	if a.ChaseSpeed <= 0 {
		a.ChaseSpeed = a.MoveSpeed * 1.5
	}
	if a.Locomotion == "" {
		a.Locomotion = "ground"
	}
	p := &a.Perception
	if p.Mode == "" {
		p.Mode = "radius"
	}
	if p.TargetLayer == "" {
		p.TargetLayer = "target"
	}
	if p.ScanEvery <= 0 {
		p.ScanEvery = 1
	}
	if p.DetectionAngle <= 0 {
		p.DetectionAngle = 90
	}
	g := &a.Ground
	if g.WallProbe <= 0 {
		g.WallProbe = 4
	}
	if g.LedgeProbe <= 0 {
		g.LedgeProbe = 6
	}
	f := &a.Flying
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
	for i := range a.Attacks {
		if a.Attacks[i].Kind == "" {
			a.Attacks[i].Kind = AttackMelee
		}
	}
	if a.Boss != nil {
		a.Boss.Phase1.normalize()
		if a.Boss.Phase2 != nil {
			a.Boss.Phase2.normalize()
		}
		if a.Boss.Enraged != nil {
			a.Boss.Enraged.normalize()
		}
	}
}

func (s *BossStageSpec) normalize() {
	if s.Speed <= 0 {
		s.Speed = 1
	}
	if s.Damage <= 0 {
		s.Damage = 1
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 1
	}
}

// ArchetypesFile is the on-disk layout of archetypes.yaml.
type ArchetypesFile struct {
	Archetypes []ArchetypeSpec `yaml:"archetypes"`
}

// LayersFile is the on-disk layout of layers.yaml.
type LayersFile struct {
	Layers []string `yaml:"layers"`
}
