package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name    string
		create  int
		destroy int // -1 = none
	}{
		{"single", 1, 0},
		{"destroy_middle", 3, 1},
		{"none", 2, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			var ents []Entity
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)
			if c.destroy < 0 {
				return
			}
			e := ents[c.destroy]
			assert.True(t, DestroyEntity(w, e))
			assert.False(t, IsAlive(w, e))
			assert.False(t, DestroyEntity(w, e), "second destroy")
			assert.Len(t, Entities(w), c.create-1)
		})
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld()
	kind := NewComponentKind[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, kind, ptr(1)))
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	assert.Equal(t, old.Slot(), reused.Slot())
	assert.Equal(t, old.Gen()+1, reused.Gen())
	assert.False(t, IsAlive(w, old))
	_, ok := Get(w, reused, kind)
	assert.False(t, ok, "component leaked into the reused slot")
	assert.ErrorIs(t, Add(w, old, kind, ptr(2)), ErrEntityNotAlive)
	assert.Equal(t, "1:1", reused.String())
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ints := NewComponent[int]()
	names := NewComponent[string]()
	e1, e2 := CreateEntity(w), CreateEntity(w)

	require.NoError(t, Add(w, e1, ints.Kind(), ptr(10)))
	require.NoError(t, Add(w, e1, names.Kind(), ptr("a")))
	require.NoError(t, Add(w, e2, names.Kind(), ptr("b")))

	v, ok := Get(w, e1, ints.Kind())
	require.True(t, ok)
	assert.Equal(t, 10, *v)
	assert.True(t, Has(w, e2, names.Kind()))
	assert.False(t, Has(w, e2, ints.Kind()))
	assert.Equal(t, 2, Count(w, names.Kind()))

	require.NoError(t, Add(w, e1, ints.Kind(), ptr(11)), "replace")
	v, _ = Get(w, e1, ints.Kind())
	assert.Equal(t, 11, *v)

	assert.True(t, Remove(w, e1, ints.Kind()))
	assert.False(t, Remove(w, e1, ints.Kind()))
	assert.Equal(t, "int", ints.Kind().Name())
}

func TestAddRejectsNilAndInvalid(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	assert.ErrorIs(t, Add(w, e, NewComponentKind[int](), nil), ErrNilComponent)
	assert.ErrorIs(t, Add(w, e, ComponentKind[int]{}, ptr(1)), ErrInvalidComponentKind)
}

func TestForEachSnapshot(t *testing.T) {
	w := NewWorld()
	h := NewComponent[int]()
	var want []Entity
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		require.NoError(t, Add(w, e, h.Kind(), ptr(i)))
		want = append(want, e)
	}
	CreateEntity(w)

	var visited []Entity
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		visited = append(visited, e)
		DestroyEntity(w, e)
	})
	assert.ElementsMatch(t, want, visited)
	assert.Zero(t, Count(w, h.Kind()))
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	ka, kb, kc := NewComponentKind[int](), NewComponentKind[int](), NewComponentKind[string]()
	e1, e2, e3 := CreateEntity(w), CreateEntity(w), CreateEntity(w)

	require.NoError(t, Add(w, e1, ka, ptr(1)))
	require.NoError(t, Add(w, e2, ka, ptr(2)))
	require.NoError(t, Add(w, e2, kb, ptr(3)))
	require.NoError(t, Add(w, e2, kc, ptr("x")))
	require.NoError(t, Add(w, e3, kb, ptr(4)))

	var two []Entity
	ForEach2(w, ka, kb, func(e Entity, _, _ *int) { two = append(two, e) })
	assert.Equal(t, []Entity{e2}, two)

	var three []Entity
	ForEach3(w, ka, kb, kc, func(e Entity, _, _ *int, s *string) { three = append(three, e) })
	assert.Equal(t, []Entity{e2}, three)

	DestroyEntity(w, e2)
	three = nil
	ForEach3(w, ka, kb, kc, func(e Entity, _, _ *int, _ *string) { three = append(three, e) })
	assert.Empty(t, three)

	missing := NewComponentKind[float64]()
	ForEach2(w, ka, missing, func(Entity, *int, *float64) { t.Fatal("missing store must yield nothing") })
}

func TestSchedulerFixedStep(t *testing.T) {
	w := NewWorld()
	s := NewScheduler(0.25)

	fixedRuns := 0
	frameDt := 0.0
	s.AddFixed(SystemFunc(func(_ *World, dt float64) {
		assert.Equal(t, 0.25, dt)
		fixedRuns++
	}))
	s.Add(SystemFunc(func(_ *World, dt float64) { frameDt += dt }))
	require.Len(t, s.Systems(), 2)

	assert.Equal(t, 2, s.Update(w, 0.5))
	assert.Equal(t, 0, s.Update(w, 0.125), "partial frame")
	assert.Equal(t, 1, s.Update(w, 0.125), "accumulated")
	assert.Equal(t, 3, fixedRuns)
	assert.Equal(t, 0.75, frameDt)
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	q := w.Events()
	q.Push(Event{Type: "spawned"})
	q.Push(Event{Type: "died"})

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "spawned", got[0].Type)
	assert.Equal(t, "died", got[1].Type)
	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}

func TestEventDispatchDeliversFollowUps(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: "a"})
	q.Push(Event{Type: "b"})

	var seen []string
	n := q.Dispatch(func(evt Event) {
		seen = append(seen, evt.Type)
		if evt.Type == "a" {
			q.Push(Event{Type: "a2"})
		}
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a", "b", "a2"}, seen)
	assert.Zero(t, q.Len())

	loops := q.Dispatch(func(Event) { t.Fatal("empty queue dispatched") })
	assert.Zero(t, loops)

	q.Push(Event{Type: "echo"})
	n = q.Dispatch(func(evt Event) { q.Push(evt) })
	assert.Equal(t, maxDispatchRounds, n)
	assert.Equal(t, 1, q.Len())
}
