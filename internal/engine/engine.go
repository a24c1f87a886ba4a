// Package engine contains the simulation loop: the ship systems that
// contend for shared resources, and the monitor that drains their failure
// reports from the event queue.
//
// ARCHITECTURAL RULE: the engine owns every Resource, every ShipSystem, and
// the EventQueue. Registration is append-only and must finish before Start;
// the collections are never mutated afterwards, so they carry no locks.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/astrocrew/starship-sim/internal/domain/resource"
	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/config"
	"github.com/astrocrew/starship-sim/internal/platform/logger"
)

// Engine is the orchestrator: it wires systems to resources and to the
// shared event queue, runs one goroutine per system plus the monitor, and
// tears everything down.
type Engine struct {
	queue  *events.Queue
	logger *logger.Logger
	cfg    *config.Config

	resources []*resource.Resource
	systems   []*ShipSystem
	sinks     []events.Sink

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewEngine creates an engine around a shared event queue. Popped events are
// always logged; additional sinks (persistence, telemetry) are added with
// AddSink before Start.
func NewEngine(queue *events.Queue, log *logger.Logger, cfg *config.Config) *Engine {
	e := &Engine{
		queue:  queue,
		logger: log,
		cfg:    cfg,
	}
	e.sinks = append(e.sinks, &logSink{log: log})
	return e
}

// Queue exposes the shared event queue.
func (e *Engine) Queue() *events.Queue { return e.queue }

// RegisterResource adds a resource. Must be called before Start.
func (e *Engine) RegisterResource(r *resource.Resource) {
	e.resources = append(e.resources, r)
}

// RegisterSystem adds a ship system and applies the configured backoff.
// Must be called before Start.
func (e *Engine) RegisterSystem(s *ShipSystem) {
	s.SetBackoff(e.cfg.Backoff)
	e.systems = append(e.systems, s)
}

// AddSink registers an additional consumer for drained events. Must be
// called before Start.
func (e *Engine) AddSink(sink events.Sink) {
	e.sinks = append(e.sinks, sink)
}

// Resource looks up a registered resource by name.
func (e *Engine) Resource(name string) (*resource.Resource, bool) {
	for _, r := range e.resources {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// ResourceSnapshots returns the committed level of every registered resource.
func (e *Engine) ResourceSnapshots() []resource.Snapshot {
	snaps := make([]resource.Snapshot, 0, len(e.resources))
	for _, r := range e.resources {
		snaps = append(snaps, r.Snapshot())
	}
	return snaps
}

// SystemInfos returns a telemetry snapshot of every registered system.
func (e *Engine) SystemInfos() []SystemInfo {
	infos := make([]SystemInfo, 0, len(e.systems))
	for _, s := range e.systems {
		infos = append(infos, s.Info())
	}
	return infos
}

// SetSystemRate changes the rate flag of a named system. Terminate is
// reserved for Stop and is rejected here.
func (e *Engine) SetSystemRate(name string, status Status) error {
	if status == StatusTerminate {
		return fmt.Errorf("rate %s is reserved for shutdown", status)
	}
	for _, s := range e.systems {
		if s.Name() == name {
			s.SetStatus(status)
			e.logger.Info("System " + name + " rate set to " + status.String())
			return nil
		}
	}
	return fmt.Errorf("unknown system %q", name)
}

// Start launches one goroutine per registered system plus the monitor.
// Registration must be complete before calling.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting simulation engine...")

	ctx, e.cancel = context.WithCancel(ctx)
	e.group, ctx = errgroup.WithContext(ctx)

	for _, s := range e.systems {
		sys := s
		e.group.Go(func() error {
			sys.Run()
			return nil
		})
	}

	e.group.Go(func() error {
		return e.monitor(ctx)
	})
}

// Stop flips every system to Terminate, waits for all goroutines to return,
// and drains whatever the in-flight cycles pushed after the monitor exited.
// The queue itself is cleaned by the caller once nothing else touches it.
func (e *Engine) Stop() {
	e.logger.Info("Stopping simulation engine...")

	for _, s := range e.systems {
		s.SetStatus(StatusTerminate)
	}
	if e.cancel != nil {
		e.cancel()
	}
	if e.group != nil {
		_ = e.group.Wait()
	}
	e.drain()

	e.logger.Info("Simulation engine stopped.")
}
