package perception

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
)

type fixture struct {
	phys     *physics.World
	target   *physics.Body
	targetID ecs.Entity
	detected []ecs.Entity
	lost     int
}

func newFixture(t *testing.T, targetPos cp.Vector) *fixture {
	t.Helper()
	f := &fixture{phys: physics.NewWorld(physics.DefaultLayers(), 0)}
	ents := ecs.NewWorld()
	f.targetID = ecs.CreateEntity(ents)
	f.target = f.phys.AddActor(f.targetID, targetPos, 0.5, f.layer("target"), physics.LayerNone, false)
	return f
}

func (f *fixture) layer(name string) physics.Layer {
	return f.phys.Layers().Lookup(name)
}

func (f *fixture) sensor(cfg Config) *Sensor {
	cfg.TargetMask = f.layer("target")
	s := New(cfg, f.phys)
	s.OnTargetDetected(func(e ecs.Entity) { f.detected = append(f.detected, e) })
	s.OnTargetLost(func() { f.lost++ })
	return s
}

var right = cp.Vector{X: 1}

func TestHysteresis(t *testing.T) {
	f := newFixture(t, cp.Vector{X: 6})
	s := f.sensor(Config{Mode: Radius, DetectionRange: 5, LoseAggroRange: 8})

	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Empty(t, f.detected, "outside detection range")

	f.target.SetPosition(cp.Vector{X: 4})
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	require.Equal(t, []ecs.Entity{f.targetID}, f.detected)

	f.target.SetPosition(cp.Vector{X: 7})
	for i := 0; i < 5; i++ {
		s.Tick(cp.Vector{}, right, physics.LayerNone)
	}
	assert.Len(t, f.detected, 1, "events are edges, not levels")
	assert.Zero(t, f.lost, "still inside lose range")
	got, ok := s.Target()
	assert.True(t, ok)
	assert.Equal(t, f.targetID, got)

	f.target.SetPosition(cp.Vector{X: 9})
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Equal(t, 1, f.lost)
	_, ok = s.Target()
	assert.False(t, ok)

	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Equal(t, 1, f.lost)
}

func TestLoseRangeClampedToDetectionRange(t *testing.T) {
	s := New(Config{DetectionRange: 10, LoseAggroRange: 3}, nil)
	assert.Equal(t, 10.0, s.Config().LoseAggroRange)
}

func TestConeRequiresFacing(t *testing.T) {
	f := newFixture(t, cp.Vector{X: -4})
	s := f.sensor(Config{Mode: Cone, DetectionRange: 10, DetectionAngle: 90})

	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Empty(t, f.detected, "target behind the enemy")

	s.Tick(cp.Vector{}, cp.Vector{X: -1}, physics.LayerNone)
	assert.Len(t, f.detected, 1)

	// once acquired the cone is not rechecked
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Zero(t, f.lost)
}

func TestLineOfSightBlockedByObstacle(t *testing.T) {
	f := newFixture(t, cp.Vector{X: 8})
	obstacle := f.layer("obstacle")
	f.phys.AddStaticBox(cp.BB{L: 3, B: -1, R: 4, T: 1}, obstacle)
	s := f.sensor(Config{Mode: LineOfSight, DetectionRange: 10, ObstacleMask: obstacle})

	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Empty(t, f.detected)

	f.target.SetPosition(cp.Vector{X: 8, Y: -5})
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Len(t, f.detected, 1)

	f.target.SetPosition(cp.Vector{X: 8})
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Equal(t, 1, f.lost, "line of sight is required to keep the target")
}

func TestScanEverySkipsTicks(t *testing.T) {
	f := newFixture(t, cp.Vector{X: 2})
	s := f.sensor(Config{DetectionRange: 5, ScanEvery: 3})

	s.Tick(cp.Vector{}, right, physics.LayerNone)
	require.Len(t, f.detected, 1, "first tick scans")

	require.True(t, f.phys.RemoveActor(f.targetID))
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Zero(t, f.lost, "skipped ticks do not scan")
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	assert.Equal(t, 1, f.lost, "removed target is lost on the next scan")
}

func TestNearestTargetWins(t *testing.T) {
	f := newFixture(t, cp.Vector{X: 4})
	ents := ecs.NewWorld()
	ecs.CreateEntity(ents)
	near := ecs.CreateEntity(ents)
	f.phys.AddActor(near, cp.Vector{X: -2}, 0.5, f.layer("target"), physics.LayerNone, false)

	s := f.sensor(Config{DetectionRange: 10})
	s.Tick(cp.Vector{}, right, physics.LayerNone)
	require.Len(t, f.detected, 1)
	assert.Equal(t, near, f.detected[0])
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Radius, "radius": Radius, "cone": Cone, "line_of_sight": LineOfSight} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("sonar")
	assert.Error(t, err)
}
