package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrocrew/starship-sim/internal/domain/resource"
	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/config"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
)

// collectSink records every drained event.
type collectSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *collectSink) HandleEvent(event events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *collectSink) all() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

func testConfig() *config.Config {
	cfg := config.LowResourceConfig()
	cfg.Backoff = time.Millisecond
	cfg.MonitorPollInterval = time.Millisecond
	return cfg
}

func TestEngineDrainsFailureReports(t *testing.T) {
	queue := events.NewQueue()
	eng := NewEngine(queue, logger.NewLogger(), testConfig())

	// A system starved from the start fails every cycle.
	fuel := resource.New("Fuel", 0, 10)
	eng.RegisterResource(fuel)
	eng.RegisterSystem(NewShipSystem("Propulsion",
		resource.Amount{Resource: fuel, Quantity: 5},
		resource.Amount{}, 0, queue))

	sink := &collectSink{}
	eng.AddSink(sink)

	eng.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	eng.Stop()

	drained := sink.all()
	require.NotEmpty(t, drained)
	for _, event := range drained {
		assert.Equal(t, "Propulsion", event.System)
		assert.Equal(t, events.StatusEmpty, event.Status)
		assert.Equal(t, events.PriorityHigh, event.Priority)
	}

	// Stop's final drain leaves nothing queued.
	assert.Equal(t, 0, queue.Len())
	for _, info := range eng.SystemInfos() {
		assert.Equal(t, "TERMINATE", info.Status)
	}
}

func TestSetSystemRate(t *testing.T) {
	queue := events.NewQueue()
	eng := NewEngine(queue, logger.NewLogger(), testConfig())
	eng.RegisterSystem(NewShipSystem("Generator", resource.Amount{}, resource.Amount{}, 0, queue))

	require.NoError(t, eng.SetSystemRate("Generator", StatusFast))
	assert.Equal(t, "FAST", eng.SystemInfos()[0].Status)

	assert.Error(t, eng.SetSystemRate("Generator", StatusTerminate), "shutdown is not a rate")
	assert.Error(t, eng.SetSystemRate("Holodeck", StatusSlow))
}

func TestResourceLookup(t *testing.T) {
	queue := events.NewQueue()
	eng := NewEngine(queue, logger.NewLogger(), testConfig())
	eng.RegisterResource(resource.New("Oxygen", 20, 50))

	r, ok := eng.Resource("Oxygen")
	require.True(t, ok)
	assert.Equal(t, 20, r.Level())

	_, ok = eng.Resource("Antimatter")
	assert.False(t, ok)
}

func TestLoadDefaultScenario(t *testing.T) {
	queue := events.NewQueue()
	eng := NewEngine(queue, logger.NewLogger(), testConfig())

	LoadDefaultScenario(eng)

	snaps := eng.ResourceSnapshots()
	require.Len(t, snaps, 4)
	levels := make(map[string]int)
	for _, s := range snaps {
		levels[s.Name] = s.Amount
	}
	assert.Equal(t, 1000, levels["Fuel"])
	assert.Equal(t, 20, levels["Oxygen"])
	assert.Equal(t, 30, levels["Energy"])
	assert.Equal(t, 0, levels["Distance"])

	infos := eng.SystemInfos()
	require.Len(t, infos, 4)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
		assert.Equal(t, "STANDARD", info.Status)
	}
	assert.ElementsMatch(t, []string{"Propulsion", "Life Support", "Crew", "Generator"}, names)
}
