package physics

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/ecs"
)

// Body is a dynamic circle owned by an entity.
type Body struct {
	owner   ecs.Entity
	layer   Layer
	radius  float64
	gravity bool

	body  *cp.Body
	shape *cp.Shape
}

func (b *Body) Owner() ecs.Entity       { return b.owner }
func (b *Body) Layer() Layer            { return b.layer }
func (b *Body) Radius() float64         { return b.radius }
func (b *Body) GravityEnabled() bool    { return b.gravity }
func (b *Body) Position() cp.Vector     { return b.body.Position() }
func (b *Body) Velocity() cp.Vector     { return b.body.Velocity() }
func (b *Body) SetVelocity(v cp.Vector) { b.body.SetVelocity(v.X, v.Y) }

// SetPosition teleports the body and refreshes the cached shape bounds so
// overlap queries see the new location before the next step.
func (b *Body) SetPosition(p cp.Vector) {
	b.body.SetPosition(p)
	b.shape.CacheBB()
}

// AddVelocity applies an instantaneous velocity change.
func (b *Body) AddVelocity(dv cp.Vector) {
	b.SetVelocity(b.Velocity().Add(dv))
}

// Hit is one query result.
type Hit struct {
	Body     *Body // nil for static geometry
	Layer    Layer
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

// Query is the read-only surface consumed by perception, locomotion and
// combat.
type Query interface {
	OverlapCircle(center cp.Vector, radius float64, mask Layer) []Hit
	Raycast(from, to cp.Vector, mask Layer) (Hit, bool)
}

// World owns the Chipmunk space, static geometry and actor bodies.
type World struct {
	space   *cp.Space
	layers  *Layers
	bodies  map[ecs.Entity]*Body
	shapes  map[*cp.Shape]*Body
	statics map[*cp.Shape]Layer
}

// NewWorld creates a space with downward (+Y) gravity.
func NewWorld(layers *Layers, gravity float64) *World {
	if layers == nil {
		layers = DefaultLayers()
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	return &World{
		space:   space,
		layers:  layers,
		bodies:  make(map[ecs.Entity]*Body),
		shapes:  make(map[*cp.Shape]*Body),
		statics: make(map[*cp.Shape]Layer),
	}
}

func (w *World) Space() *cp.Space { return w.space }
func (w *World) Layers() *Layers  { return w.layers }
func (w *World) BodyCount() int   { return len(w.bodies) }

// AddStaticBox adds level geometry on layer.
func (w *World) AddStaticBox(bb cp.BB, layer Layer) *cp.Shape {
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.ShapeFilter{Categories: uint(layer), Mask: uint(LayerAll)})
	w.space.AddShape(shape)
	w.statics[shape] = layer
	return shape
}

// AddActor creates a circle body for owner. collideWith limits which layers
// it physically touches; LayerNone means everything.
func (w *World) AddActor(owner ecs.Entity, pos cp.Vector, radius float64, layer, collideWith Layer, gravity bool) *Body {
	w.RemoveActor(owner)
	if radius <= 0 {
		radius = 1
	}
	if collideWith == LayerNone {
		collideWith = LayerAll
	}
	cpBody := cp.NewBody(1, math.Inf(1))
	cpBody.SetPosition(pos)
	if !gravity {
		cpBody.SetVelocityUpdateFunc(func(body *cp.Body, _ cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
		})
	}
	shape := cp.NewCircle(cpBody, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetFilter(cp.ShapeFilter{Categories: uint(layer), Mask: uint(collideWith)})

	w.space.AddBody(cpBody)
	w.space.AddShape(shape)

	b := &Body{owner: owner, layer: layer, radius: radius, gravity: gravity, body: cpBody, shape: shape}
	w.bodies[owner] = b
	w.shapes[shape] = b
	return b
}

// RemoveActor drops the body owned by owner, if any.
func (w *World) RemoveActor(owner ecs.Entity) bool {
	b, ok := w.bodies[owner]
	if !ok {
		return false
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.shapes, b.shape)
	delete(w.bodies, owner)
	return true
}

// Body returns the actor body for owner.
func (w *World) Body(owner ecs.Entity) (*Body, bool) {
	b, ok := w.bodies[owner]
	return b, ok
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

func queryFilter(mask Layer) cp.ShapeFilter {
	return cp.ShapeFilter{Categories: uint(LayerAll), Mask: uint(mask)}
}

func (w *World) hitFor(shape *cp.Shape) Hit {
	if b, ok := w.shapes[shape]; ok {
		return Hit{Body: b, Layer: b.layer}
	}
	return Hit{Layer: w.statics[shape]}
}

// OverlapCircle returns every shape on mask within radius of center,
// nearest first. Distance is measured to the shape surface.
func (w *World) OverlapCircle(center cp.Vector, radius float64, mask Layer) []Hit {
	if mask == LayerNone {
		return nil
	}
	filter := queryFilter(mask)
	var hits []Hit
	w.space.EachShape(func(shape *cp.Shape) {
		if shape.Filter.Reject(filter) {
			return
		}
		info := shape.PointQuery(center)
		if info.Distance > radius {
			return
		}
		h := w.hitFor(shape)
		h.Point = info.Point
		h.Normal = info.Gradient
		h.Distance = math.Max(info.Distance, 0)
		hits = append(hits, h)
	})
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Raycast returns the first shape on mask along from->to.
func (w *World) Raycast(from, to cp.Vector, mask Layer) (Hit, bool) {
	if mask == LayerNone {
		return Hit{}, false
	}
	info := w.space.SegmentQueryFirst(from, to, 0, queryFilter(mask))
	if info.Shape == nil {
		return Hit{}, false
	}
	h := w.hitFor(info.Shape)
	h.Point = info.Point
	h.Normal = info.Normal
	h.Distance = from.Distance(to) * info.Alpha
	return h, true
}

// WithinCone reports whether dir lies within halfAngleDeg of facing.
func WithinCone(facing, dir cp.Vector, halfAngleDeg float64) bool {
	if dir.LengthSq() == 0 {
		return true
	}
	if facing.LengthSq() == 0 {
		return false
	}
	cos := facing.Normalize().Dot(dir.Normalize())
	return cos >= math.Cos(halfAngleDeg*math.Pi/180)-1e-9
}
