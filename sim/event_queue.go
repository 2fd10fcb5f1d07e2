package sim

import "container/heap"

// scheduledEvent pairs an event with its insertion sequence number, the
// final tie-breaker for events at identical timestamps.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements a priority queue with deterministic ordering.
// Ordering: timestamp → kind priority (arrival before service end) →
// insertion sequence. The last level matters: which of two simultaneous
// completions a freed server observes first decides which waiting customer
// it picks up, and that choice must reproduce exactly for a given seed.
type EventQueue struct {
	events  []scheduledEvent
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	h := &EventQueue{events: make([]scheduledEvent, 0)}
	heap.Init(h)
	return h
}

// Len implements heap.Interface.
func (h *EventQueue) Len() int { return len(h.events) }

// Less implements heap.Interface with deterministic ordering.
func (h *EventQueue) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]

	if ei.ev.Timestamp() != ej.ev.Timestamp() {
		return ei.ev.Timestamp() < ej.ev.Timestamp()
	}

	priI := EventKindPriority[ei.ev.Kind()]
	priJ := EventKindPriority[ej.ev.Kind()]
	if priI != priJ {
		return priI < priJ
	}

	return ei.seq < ej.seq
}

// Swap implements heap.Interface.
func (h *EventQueue) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
}

// Push implements heap.Interface.
func (h *EventQueue) Push(x any) {
	h.events = append(h.events, x.(scheduledEvent))
}

// Pop implements heap.Interface.
func (h *EventQueue) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the queue, stamping it with the next sequence
// number.
func (h *EventQueue) Schedule(e Event) {
	heap.Push(h, scheduledEvent{ev: e, seq: h.nextSeq})
	h.nextSeq++
}

// PopNext removes and returns the next event, or nil if the queue is empty.
func (h *EventQueue) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(scheduledEvent).ev
}

// Peek returns the next event without removing it, or nil if empty.
func (h *EventQueue) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0].ev
}
