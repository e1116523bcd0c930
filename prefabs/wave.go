package prefabs

// WaveSpec drives the wave orchestrator.
type WaveSpec struct {
	RestTime             float64         `yaml:"rest_time"`
	SpawnInterval        float64         `yaml:"spawn_interval"`
	BaseCount            int             `yaml:"base_count"`
	CountIncreasePerWave int             `yaml:"count_increase_per_wave"`
	MaxAlive             int             `yaml:"max_alive"`
	HealthScalePerWave   float64         `yaml:"health_scale_per_wave"`
	DamageScalePerWave   float64         `yaml:"damage_scale_per_wave"`
	SpeedScalePerWave    float64         `yaml:"speed_scale_per_wave"`
	BossWaveInterval     int             `yaml:"boss_wave_interval"`
	BossArchetype        string          `yaml:"boss_archetype"`
	Pool                 []PoolEntrySpec `yaml:"pool"`
}

type PoolEntrySpec struct {
	Archetype string  `yaml:"archetype"`
	Weight    float64 `yaml:"weight"`
	MinWave   int     `yaml:"min_wave"`
}

// DefaultWaveSpec holds the values used for anything waves.yaml omits.
func DefaultWaveSpec() WaveSpec {
	return WaveSpec{
		RestTime:             5,
		SpawnInterval:        0.75,
		BaseCount:            4,
		CountIncreasePerWave: 2,
		MaxAlive:             12,
		HealthScalePerWave:   0.15,
		DamageScalePerWave:   0.10,
		SpeedScalePerWave:    0.05,
		BossWaveInterval:     5,
	}
}

// Scale holds the per-wave stat multipliers.
type Scale struct {
	Health float64
	Damage float64
	Speed  float64
}

// ScaleFor returns 1 + (wave-1)*coefficient for each stat.
func (s WaveSpec) ScaleFor(wave int) Scale {
	n := float64(max(wave, 1) - 1)
	return Scale{
		Health: 1 + n*s.HealthScalePerWave,
		Damage: 1 + n*s.DamageScalePerWave,
		Speed:  1 + n*s.SpeedScalePerWave,
	}
}

// CountFor returns the planned enemy count for wave, capped at MaxAlive.
func (s WaveSpec) CountFor(wave int) int {
	n := s.BaseCount + (max(wave, 1)-1)*s.CountIncreasePerWave
	if s.MaxAlive > 0 {
		n = min(n, s.MaxAlive)
	}
	return max(n, 0)
}

// IsBossWave reports whether wave is replaced by a boss encounter.
func (s WaveSpec) IsBossWave(wave int) bool {
	return s.BossWaveInterval > 0 && s.BossArchetype != "" && wave > 0 && wave%s.BossWaveInterval == 0
}

// Apply scales a cloned archetype in place.
func (sc Scale) Apply(a *ArchetypeSpec) {
	if a == nil {
		return
	}
	a.Health *= sc.Health
	a.MoveSpeed *= sc.Speed
	a.ChaseSpeed *= sc.Speed
	for i := range a.Attacks {
		a.Attacks[i].Damage *= sc.Damage
	}
}
