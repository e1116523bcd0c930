package ecs

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var componentIDs atomic.Uint32

// ComponentKind is the typed key of one component store. The zero value is
// invalid.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind allocates a fresh store id for T. Two kinds over the same
// type are distinct stores.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{
		id:   ComponentID(componentIDs.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }
func (k ComponentKind[T]) Valid() bool     { return k.id != 0 }

// Name is the Go type name, for errors and logs.
func (k ComponentKind[T]) Name() string { return k.name }

// ComponentHandle is how component packages declare their kinds:
//
//	var HealthComponent = ecs.NewComponent[actor.Health]()
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
