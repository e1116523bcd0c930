package physics

import (
	"fmt"
	"strings"
)

// Layer is a collision category bitmask.
type Layer uint

const (
	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

const maxLayers = 32

// Layers maps designer-facing layer names to category bits.
type Layers struct {
	byName map[string]Layer
	names  []string
}

// Layer names the session binds roles to.
const (
	NameGround     = "ground"
	NameObstacle   = "obstacle"
	NameEnemy      = "enemy"
	NameTarget     = "target"
	NameProjectile = "projectile"
)

// DefaultLayerNames is used when no layer table is configured.
var DefaultLayerNames = []string{NameGround, NameObstacle, NameEnemy, NameTarget, NameProjectile}

// NewLayers assigns one bit per name in order.
func NewLayers(names ...string) (*Layers, error) {
	if len(names) > maxLayers {
		return nil, fmt.Errorf("physics: %d layers exceeds limit %d", len(names), maxLayers)
	}
	l := &Layers{byName: make(map[string]Layer, len(names))}
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("physics: layer %d has no name", i)
		}
		if _, dup := l.byName[name]; dup {
			return nil, fmt.Errorf("physics: duplicate layer %q", name)
		}
		l.byName[name] = Layer(1) << uint(i)
		l.names = append(l.names, name)
	}
	return l, nil
}

// DefaultLayers returns the built-in layer table.
func DefaultLayers() *Layers {
	l, _ := NewLayers(DefaultLayerNames...)
	return l
}

// Lookup returns the bit for name, or LayerNone when the name is empty or
// unknown. Callers treat LayerNone as "not configured".
func (l *Layers) Lookup(name string) Layer {
	if l == nil {
		return LayerNone
	}
	return l.byName[strings.TrimSpace(name)]
}

// Has reports whether name is defined.
func (l *Layers) Has(name string) bool {
	return l.Lookup(name) != LayerNone
}

// Mask ORs the bits of every named layer.
func (l *Layers) Mask(names ...string) Layer {
	var m Layer
	for _, n := range names {
		m |= l.Lookup(n)
	}
	return m
}

func (l *Layers) Names() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.names...)
}

// Name returns the first layer name contained in layer.
func (l *Layers) Name(layer Layer) string {
	if l == nil {
		return ""
	}
	for _, n := range l.names {
		if l.byName[n]&layer != 0 {
			return n
		}
	}
	return ""
}
