package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
	"github.com/astrocrew/starship-sim/internal/platform/metrics"
)

// monitor is the single consumer of the event queue. Pop never blocks, so
// the monitor polls on a ticker and drains everything available each round.
func (e *Engine) monitor(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.MonitorPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.drain()
			e.logger.Info("Event monitor stopped.")
			return nil
		case <-ticker.C:
			e.drain()
		}
	}
}

// drain pops until the queue is empty, fanning each event out to every sink.
func (e *Engine) drain() {
	for {
		event, ok := e.queue.Pop()
		if !ok {
			return
		}
		metrics.Get().RecordEventPopped()
		for _, sink := range e.sinks {
			sink.HandleEvent(event)
		}
	}
}

// logSink writes every drained event to the mission log.
type logSink struct {
	log *logger.Logger
}

func (s *logSink) HandleEvent(event events.Event) {
	s.log.Event(string(event.Status), event.System,
		fmt.Sprintf("resource=%s level=%d priority=%d", event.ResourceName, event.Amount, event.Priority))
}
