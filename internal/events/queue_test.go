package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopOrdering(t *testing.T) {
	q := NewQueue()

	q.Push(New("Crew", nil, StatusCapacity, PriorityLow, 1))
	q.Push(New("Propulsion", nil, StatusEmpty, PriorityHigh, 2))
	q.Push(New("Generator", nil, StatusCapacity, PriorityLow, 3))
	q.Push(New("Life Support", nil, StatusInsufficient, PriorityHigh, 4))

	// High-priority events first, FIFO among equal priorities.
	var systems []string
	for {
		event, ok := q.Pop()
		if !ok {
			break
		}
		systems = append(systems, event.System)
	}
	assert.Equal(t, []string{"Propulsion", "Life Support", "Crew", "Generator"}, systems)
}

func TestPrioritiesNonIncreasing(t *testing.T) {
	q := NewQueue()
	priorities := []Priority{PriorityLow, PriorityHigh, PriorityLow, PriorityHigh, PriorityLow, PriorityHigh}
	for _, p := range priorities {
		q.Push(New("Crew", nil, StatusEmpty, p, 0))
	}

	last := PriorityHigh
	for {
		event, ok := q.Pop()
		if !ok {
			break
		}
		assert.LessOrEqual(t, event.Priority, last)
		last = event.Priority
	}
}

func TestEmptyPopNonBlocking(t *testing.T) {
	q := NewQueue()

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestConservationUnderConcurrency(t *testing.T) {
	const (
		producers   = 8
		perProducer = 25
		pops        = 100
	)
	q := NewQueue()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(priority Priority) {
			defer wg.Done()
			for n := 0; n < perProducer; n++ {
				q.Push(New("Generator", nil, StatusCapacity, priority, n))
			}
		}(Priority(i % 2))
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())

	// Concurrent pops from a queue that stays non-empty all succeed.
	popped := make(chan Event, pops)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < pops/4; n++ {
				event, ok := q.Pop()
				if ok {
					popped <- event
				}
			}
		}()
	}
	wg.Wait()
	close(popped)

	require.Len(t, popped, pops)
	assert.Equal(t, producers*perProducer-pops, q.Len())

	// The final drain returns exactly the remainder, no duplicates.
	seen := make(map[string]bool)
	for event := range popped {
		seen[event.ID] = true
	}
	for {
		event, ok := q.Pop()
		if !ok {
			break
		}
		require.False(t, seen[event.ID], "event popped twice: %s", event.ID)
		seen[event.ID] = true
	}
	assert.Len(t, seen, producers*perProducer)
	assert.Equal(t, 0, q.Len())
}

func TestCleanReleasesEvents(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(New("Crew", nil, StatusEmpty, PriorityHigh, i))
	}

	q.Clean()

	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}
