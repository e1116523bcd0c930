package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

// maxDispatchRounds bounds handlers that keep queueing follow-ups.
const maxDispatchRounds = 16

// EventQueue buffers events raised during a tick until the owner flushes
// them.
type EventQueue struct {
	items []Event
	spare []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain hands over every pending event and empties the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Dispatch calls fn for every pending event in FIFO order. Events pushed by
// fn are delivered in the same call, after the current batch, for at most
// maxDispatchRounds batches. It returns how many events were delivered.
func (q *EventQueue) Dispatch(fn func(Event)) int {
	if q == nil || fn == nil {
		return 0
	}
	n := 0
	for round := 0; round < maxDispatchRounds && len(q.items) > 0; round++ {
		batch := q.items
		q.items = q.spare[:0]
		for _, evt := range batch {
			fn(evt)
			n++
		}
		clear(batch)
		q.spare = batch
	}
	return n
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
