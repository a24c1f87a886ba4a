// Package metrics provides observability for the simulation server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Conversion cycle metrics
	CyclesCompleted int64
	ConsumeFailures int64
	StoreFailures   int64

	// Event queue metrics
	EventsPushed       int64
	EventsPopped       int64
	EventsPersisted    int64
	EventPersistErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSDropped           int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordCycle records a completed conversion cycle for a ship system.
func (c *Collector) RecordCycle() {
	atomic.AddInt64(&c.CyclesCompleted, 1)
}

// RecordConsumeFailure records a failed consume attempt.
func (c *Collector) RecordConsumeFailure() {
	atomic.AddInt64(&c.ConsumeFailures, 1)
}

// RecordStoreFailure records a failed or partial store attempt.
func (c *Collector) RecordStoreFailure() {
	atomic.AddInt64(&c.StoreFailures, 1)
}

// RecordEventPushed records an event entering the queue.
func (c *Collector) RecordEventPushed() {
	atomic.AddInt64(&c.EventsPushed, 1)
}

// RecordEventPopped records an event drained by the monitor.
func (c *Collector) RecordEventPopped() {
	atomic.AddInt64(&c.EventsPopped, 1)
}

// RecordEventPersist records an event write to the database.
func (c *Collector) RecordEventPersist(err error) {
	atomic.AddInt64(&c.EventsPersisted, 1)
	if err != nil {
		atomic.AddInt64(&c.EventPersistErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSDropped records a telemetry message dropped on backpressure.
func (c *Collector) RecordWSDropped() {
	atomic.AddInt64(&c.WSDropped, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"cycles": map[string]interface{}{
			"completed":        atomic.LoadInt64(&c.CyclesCompleted),
			"consume_failures": atomic.LoadInt64(&c.ConsumeFailures),
			"store_failures":   atomic.LoadInt64(&c.StoreFailures),
		},

		"events": map[string]interface{}{
			"pushed":         atomic.LoadInt64(&c.EventsPushed),
			"popped":         atomic.LoadInt64(&c.EventsPopped),
			"persisted":      atomic.LoadInt64(&c.EventsPersisted),
			"persist_errors": atomic.LoadInt64(&c.EventPersistErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"dropped":            atomic.LoadInt64(&c.WSDropped),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP starship_cycles_completed Total completed conversion cycles\n")
		fmt.Fprintf(w, "# TYPE starship_cycles_completed counter\n")
		fmt.Fprintf(w, "starship_cycles_completed %d\n\n", atomic.LoadInt64(&c.CyclesCompleted))

		fmt.Fprintf(w, "# HELP starship_consume_failures Total failed consume attempts\n")
		fmt.Fprintf(w, "# TYPE starship_consume_failures counter\n")
		fmt.Fprintf(w, "starship_consume_failures %d\n\n", atomic.LoadInt64(&c.ConsumeFailures))

		fmt.Fprintf(w, "# HELP starship_store_failures Total failed or partial store attempts\n")
		fmt.Fprintf(w, "# TYPE starship_store_failures counter\n")
		fmt.Fprintf(w, "starship_store_failures %d\n\n", atomic.LoadInt64(&c.StoreFailures))

		fmt.Fprintf(w, "# HELP starship_events_pushed Total events pushed to the queue\n")
		fmt.Fprintf(w, "# TYPE starship_events_pushed counter\n")
		fmt.Fprintf(w, "starship_events_pushed %d\n\n", atomic.LoadInt64(&c.EventsPushed))

		fmt.Fprintf(w, "# HELP starship_events_popped Total events drained by the monitor\n")
		fmt.Fprintf(w, "# TYPE starship_events_popped counter\n")
		fmt.Fprintf(w, "starship_events_popped %d\n\n", atomic.LoadInt64(&c.EventsPopped))

		fmt.Fprintf(w, "# HELP starship_event_persist_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE starship_event_persist_errors counter\n")
		fmt.Fprintf(w, "starship_event_persist_errors %d\n\n", atomic.LoadInt64(&c.EventPersistErrors))

		fmt.Fprintf(w, "# HELP starship_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE starship_ws_connections gauge\n")
		fmt.Fprintf(w, "starship_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP starship_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE starship_ws_messages_total counter\n")
		fmt.Fprintf(w, "starship_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "starship_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
