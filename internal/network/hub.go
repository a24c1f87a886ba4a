// Package network provides the WebSocket telemetry surface: drained events
// and periodic resource level snapshots go out, rate-control commands for
// the ship systems come in.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/astrocrew/starship-sim/internal/engine"
	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/config"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
	"github.com/astrocrew/starship-sim/internal/platform/metrics"
)

// TelemetryMessage is the envelope for everything the hub broadcasts.
type TelemetryMessage struct {
	Type    string      `json:"type"` // "event" or "resources"
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts telemetry to them.
type Hub struct {
	engine *engine.Engine
	cfg    *config.Config

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub bound to the simulation engine.
func NewHub(eng *engine.Engine, log *logger.Logger, cfg *config.Config) *Hub {
	return &Hub{
		engine:     eng,
		cfg:        cfg,
		broadcast:  make(chan []byte, cfg.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and
// broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New telemetry client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Telemetry client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleEvent implements events.Sink: every event the monitor drains is
// broadcast to all connected clients. The send is non-blocking; under
// backpressure the message is dropped and counted.
func (h *Hub) HandleEvent(event events.Event) {
	h.publish(TelemetryMessage{Type: "event", Payload: event})
}

// StartSnapshotPoller spawns a goroutine broadcasting resource levels on a
// fixed cadence, so clients see the economy move between failures.
func (h *Hub) StartSnapshotPoller(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(h.cfg.TelemetryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.publish(TelemetryMessage{Type: "resources", Payload: h.engine.ResourceSnapshots()})
			}
		}
	}()
}

func (h *Hub) publish(msg TelemetryMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize telemetry message: " + err.Error())
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		metrics.Get().RecordWSDropped()
	}
}
