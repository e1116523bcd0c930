package ecs

import "fmt"

// Entity is a weak handle: slot in the low 32 bits, slot generation in the
// high 32. Destroying an entity bumps the generation, so any handle still
// held elsewhere stops resolving even after the slot is reused.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID           { return entityID(uint32(e)) }
func (e Entity) generation() generation { return generation(uint32(uint64(e) >> entityIDBits)) }
func (e Entity) Slot() uint32           { return uint32(e.id()) }
func (e Entity) Gen() uint32            { return uint32(e.generation()) }
func (e Entity) Valid() bool            { return e.id() > 0 }

// String renders slot:gen, which reads better in logs than the packed value.
func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Slot(), e.Gen())
}
