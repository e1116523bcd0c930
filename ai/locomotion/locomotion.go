// Package locomotion moves an enemy body according to its movement kind.
// Movers write velocities; the physics step integrates them.
package locomotion

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/actor"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/physics"
	"github.com/milk9111/hordewave/prefabs"
)

type Kind int

const (
	GroundPatrol Kind = iota
	Flying
	Stationary
)

func (k Kind) String() string {
	switch k {
	case GroundPatrol:
		return prefabs.LocomotionGround
	case Flying:
		return prefabs.LocomotionFlying
	case Stationary:
		return prefabs.LocomotionStationary
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "", prefabs.LocomotionGround, "ground_patrol":
		return GroundPatrol, nil
	case prefabs.LocomotionFlying:
		return Flying, nil
	case prefabs.LocomotionStationary:
		return Stationary, nil
	}
	return GroundPatrol, fmt.Errorf("locomotion: unknown kind %q", s)
}

// Body is the physics surface a mover drives.
type Body interface {
	Owner() ecs.Entity
	Position() cp.Vector
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	Radius() float64
	GravityEnabled() bool
}

// Mover is the capability set shared by every movement kind.
type Mover interface {
	Patrol()
	ChaseTarget(target cp.Vector)
	Stop()
	Facing() cp.Vector
	Kind() Kind
}

type Options struct {
	Kind             Kind
	Step             float64
	MoveSpeed        float64
	ChaseSpeed       float64
	StoppingDistance float64
	Modifiers        actor.Modifiers
	Ground           GroundConfig
	Flying           FlyingConfig
	Rand             *rand.Rand
	Logger           *slog.Logger
}

// New builds the mover for opts.Kind. The kind is fixed for the lifetime of
// the enemy.
func New(body Body, q physics.Query, opts Options) Mover {
	if opts.Step <= 0 {
		opts.Step = 1.0 / 60.0
	}
	opts.Modifiers = actor.OrUnmodified(opts.Modifiers)
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("subsystem", "locomotion", "kind", opts.Kind.String())
	switch opts.Kind {
	case Flying:
		return newFlyingMover(body, opts)
	case Stationary:
		return newStationaryMover(body)
	}
	return newGroundMover(body, q, opts)
}

type stationaryMover struct {
	body   Body
	facing cp.Vector
}

func newStationaryMover(body Body) *stationaryMover {
	return &stationaryMover{body: body, facing: cp.Vector{X: 1}}
}

func (m *stationaryMover) Kind() Kind        { return Stationary }
func (m *stationaryMover) Facing() cp.Vector { return m.facing }
func (m *stationaryMover) Patrol()           { m.hold() }
func (m *stationaryMover) Stop()             { m.hold() }

// ChaseTarget turns to face the target without moving.
func (m *stationaryMover) ChaseTarget(target cp.Vector) {
	if dx := target.X - m.body.Position().X; dx != 0 {
		m.facing = cp.Vector{X: sign(dx)}
	}
	m.hold()
}

func (m *stationaryMover) hold() {
	v := m.body.Velocity()
	m.body.SetVelocity(cp.Vector{Y: v.Y})
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
