package network

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/config"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
)

// The hub is wired into the monitor as an event sink.
var _ events.Sink = (*Hub)(nil)

func TestHandleEventNeverBlocks(t *testing.T) {
	cfg := config.LowResourceConfig()
	hub := NewHub(nil, logger.NewLogger(), cfg)

	// Without a running hub loop the broadcast buffer fills up; overflow
	// must be dropped, not block the monitor.
	for i := 0; i < cfg.BroadcastChannelBuffer+10; i++ {
		hub.HandleEvent(events.New("Propulsion", nil, events.StatusEmpty, events.PriorityHigh, 0))
	}

	assert.Equal(t, cfg.BroadcastChannelBuffer, len(hub.broadcast))
}
