package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrocrew/starship-sim/internal/domain/resource"
	"github.com/astrocrew/starship-sim/internal/events"
)

// newTestSystem builds a system with no processing delay and no failure
// backoff so cycles can be stepped deterministically.
func newTestSystem(name string, consumed, produced resource.Amount, queue *events.Queue) *ShipSystem {
	s := NewShipSystem(name, consumed, produced, 0, queue)
	s.SetBackoff(0)
	return s
}

func TestFuelDepletion(t *testing.T) {
	queue := events.NewQueue()
	fuel := resource.New("Fuel", 1000, 1000)
	crew := newTestSystem("Propulsion",
		resource.Amount{Resource: fuel, Quantity: 5},
		resource.Amount{}, queue)

	for i := 0; i < 200; i++ {
		crew.runCycle()
	}

	assert.Equal(t, 0, fuel.Level())
	_, ok := queue.Pop()
	assert.False(t, ok, "successful cycles must not emit events")

	// The next cycle finds the tank empty and reports it.
	crew.runCycle()

	event, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, events.StatusEmpty, event.Status)
	assert.Equal(t, events.PriorityHigh, event.Priority)
	assert.Equal(t, "Fuel", event.ResourceName)
	assert.Equal(t, 0, event.Amount)
	assert.Equal(t, 0, fuel.Level())
}

func TestEnergyCapacityRetention(t *testing.T) {
	queue := events.NewQueue()
	energy := resource.New("Energy", 30, 50)
	generator := newTestSystem("Generator",
		resource.Amount{},
		resource.Amount{Resource: energy, Quantity: 10}, queue)

	generator.runCycle()
	assert.Equal(t, 40, energy.Level())
	assert.Equal(t, 0, generator.Stored())

	generator.runCycle()
	assert.Equal(t, 50, energy.Level())

	// Third cycle: no space, the full output is retained for the next
	// attempt and a low-priority capacity report goes out.
	generator.runCycle()
	assert.Equal(t, 50, energy.Level())
	assert.Equal(t, 10, generator.Stored())

	event, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, events.StatusCapacity, event.Status)
	assert.Equal(t, events.PriorityLow, event.Priority)
	assert.Equal(t, 50, event.Amount)
}

func TestInsufficientConsumeReported(t *testing.T) {
	queue := events.NewQueue()
	energy := resource.New("Energy", 3, 50)
	lifeSupport := newTestSystem("Life Support",
		resource.Amount{Resource: energy, Quantity: 7},
		resource.Amount{}, queue)

	lifeSupport.runCycle()

	event, ok := queue.Pop()
	require.True(t, ok)
	assert.Equal(t, events.StatusInsufficient, event.Status)
	assert.Equal(t, events.PriorityHigh, event.Priority)
	assert.Equal(t, 3, event.Amount)
	assert.Equal(t, 3, energy.Level(), "a failed consume must not take anything")
}

func TestSharedResourceContention(t *testing.T) {
	queue := events.NewQueue()
	oxygen := resource.New("Oxygen", 20, 50)

	crew := newTestSystem("Crew",
		resource.Amount{Resource: oxygen, Quantity: 1},
		resource.Amount{}, queue)
	lifeSupport := newTestSystem("Life Support",
		resource.Amount{},
		resource.Amount{Resource: oxygen, Quantity: 4}, queue)

	var violations int64
	stop := make(chan struct{})
	var sampler sync.WaitGroup
	sampler.Add(1)
	go func() {
		defer sampler.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if level := oxygen.Level(); level < 0 || level > 50 {
					atomic.AddInt64(&violations, 1)
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for _, sys := range []*ShipSystem{crew, lifeSupport} {
		wg.Add(1)
		go func(s *ShipSystem) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.runCycle()
			}
		}(sys)
	}
	wg.Wait()
	close(stop)
	sampler.Wait()

	assert.Zero(t, atomic.LoadInt64(&violations), "capacity invariant violated mid-run")

	// Production outpaces consumption 4:1, so the tank ends full once the
	// producer flushes its retained leftover.
	for i := 0; i < 20 && oxygen.Level() < 50; i++ {
		lifeSupport.runCycle()
	}
	assert.Equal(t, 50, oxygen.Level())
}

func TestNilConsumedAlwaysConverts(t *testing.T) {
	queue := events.NewQueue()
	distance := resource.New("Distance", 0, 5000)
	probe := newTestSystem("Probe",
		resource.Amount{},
		resource.Amount{Resource: distance, Quantity: 25}, queue)

	probe.runCycle()

	assert.Equal(t, 25, distance.Level())
	assert.Equal(t, 0, queue.Len())
}

func TestTerminateStopsRunLoop(t *testing.T) {
	queue := events.NewQueue()
	idle := NewShipSystem("Idle", resource.Amount{}, resource.Amount{}, time.Millisecond, queue)

	done := make(chan struct{})
	go func() {
		idle.Run()
		close(done)
	}()

	idle.SetStatus(StatusTerminate)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run loop did not observe TERMINATE")
	}
	assert.Equal(t, StatusTerminate, idle.Status())
}

func TestParseStatus(t *testing.T) {
	for _, want := range []Status{StatusStandard, StatusSlow, StatusFast, StatusTerminate} {
		got, ok := ParseStatus(want.String())
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := ParseStatus("WARP")
	assert.False(t, ok)
}
