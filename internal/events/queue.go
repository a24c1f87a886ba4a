package events

import (
	"container/heap"
	"sync"
)

// Queue is the thread-safe, priority-ordered report channel. Many systems
// push concurrently; one monitor pops. Pops yield non-increasing priority,
// and events of equal priority pop in push order (FIFO tie-break via a
// monotonic sequence number). Neither Push nor Pop ever blocks.
type Queue struct {
	mu    sync.Mutex
	items eventHeap
	seq   uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push inserts an event, keeping the ordering invariant.
func (q *Queue) Push(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	heap.Push(&q.items, queued{event: event, seq: q.seq})
}

// Pop removes and returns the highest-priority event, earliest-pushed among
// ties. It returns immediately with ok=false if the queue is empty.
func (q *Queue) Pop() (event Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Event{}, false
	}
	item := heap.Pop(&q.items).(queued)
	return item.event, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clean releases all retained events. Only valid once no producer or
// consumer is active.
func (q *Queue) Clean() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.seq = 0
}

type queued struct {
	event Event
	seq   uint64
}

// eventHeap implements heap.Interface. Higher priority wins; equal
// priorities fall back to insertion order.
type eventHeap []queued

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].event.Priority != h[j].event.Priority {
		return h[i].event.Priority > h[j].event.Priority
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push adds an item to the heap. Called by heap.Push — do not call directly.
func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queued))
}

// Pop removes the last item. Called by heap.Pop — do not call directly.
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queued{} // avoid retaining the event
	*h = old[:n-1]
	return item
}
