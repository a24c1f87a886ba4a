package engine

import (
	"sync/atomic"
	"time"

	"github.com/astrocrew/starship-sim/internal/domain/resource"
	"github.com/astrocrew/starship-sim/internal/events"
	"github.com/astrocrew/starship-sim/internal/platform/metrics"
)

// Status is the externally-settable flag on a ship system: a rate multiplier
// for the processing delay, or the cooperative stop signal. The run loop
// reads it once per iteration and never writes it.
type Status int32

const (
	StatusStandard Status = iota
	StatusSlow
	StatusFast
	StatusTerminate
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusStandard:
		return "STANDARD"
	case StatusSlow:
		return "SLOW"
	case StatusFast:
		return "FAST"
	case StatusTerminate:
		return "TERMINATE"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, bool) {
	switch name {
	case "STANDARD":
		return StatusStandard, true
	case "SLOW":
		return StatusSlow, true
	case "FAST":
		return StatusFast, true
	case "TERMINATE":
		return StatusTerminate, true
	default:
		return StatusStandard, false
	}
}

// DefaultBackoff is the fixed delay a system sleeps after a reported
// failure before retrying.
const DefaultBackoff = 100 * time.Millisecond

// ShipSystem is one autonomous worker: each cycle it consumes from one
// resource, spends a simulated processing delay, and stores into another.
// It holds non-owning references to its resources and to the shared event
// queue; the engine owns all three.
//
// The system is always in exactly one of two phases: need-convert
// (amountStored == 0) or holding-output (amountStored > 0). Held output is
// never discarded; a partial store keeps the leftover for the next attempt.
type ShipSystem struct {
	name           string
	consumed       resource.Amount
	produced       resource.Amount
	processingTime time.Duration
	backoff        time.Duration

	status       atomic.Int32
	amountStored int // touched only by the run loop
	queue        *events.Queue
}

// SystemInfo is an unlocked copy of a system's configuration for telemetry.
type SystemInfo struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Consumes       string `json:"consumes,omitempty"`
	ConsumedAmount int    `json:"consumed_amount,omitempty"`
	Produces       string `json:"produces,omitempty"`
	ProducedAmount int    `json:"produced_amount,omitempty"`
	ProcessingMS   int64  `json:"processing_ms"`
}

// NewShipSystem creates a system. A nil resource on the consumed side means
// conversion always succeeds; a nil resource on the produced side means the
// output is discarded. The system starts in StatusStandard.
func NewShipSystem(name string, consumed, produced resource.Amount, processingTime time.Duration, queue *events.Queue) *ShipSystem {
	return &ShipSystem{
		name:           name,
		consumed:       consumed,
		produced:       produced,
		processingTime: processingTime,
		backoff:        DefaultBackoff,
		queue:          queue,
	}
}

// Name returns the system's name.
func (s *ShipSystem) Name() string { return s.name }

// Status returns the current rate/stop flag.
func (s *ShipSystem) Status() Status {
	return Status(s.status.Load())
}

// SetStatus sets the rate/stop flag. Safe to call from any goroutine; the
// run loop observes it at the top of its next iteration.
func (s *ShipSystem) SetStatus(status Status) {
	s.status.Store(int32(status))
}

// SetBackoff overrides the failure backoff. Must be called before Run.
func (s *ShipSystem) SetBackoff(d time.Duration) {
	s.backoff = d
}

// Stored returns the output currently held for the next store attempt.
// Only meaningful while the run loop is not executing.
func (s *ShipSystem) Stored() int { return s.amountStored }

// Info returns a telemetry snapshot of the system.
func (s *ShipSystem) Info() SystemInfo {
	info := SystemInfo{
		Name:         s.name,
		Status:       s.Status().String(),
		ProcessingMS: s.processingTime.Milliseconds(),
	}
	if s.consumed.Resource != nil {
		info.Consumes = s.consumed.Resource.Name()
		info.ConsumedAmount = s.consumed.Quantity
	}
	if s.produced.Resource != nil {
		info.Produces = s.produced.Resource.Name()
		info.ProducedAmount = s.produced.Quantity
	}
	return info
}

// Run is the system's goroutine entry point. It repeats conversion cycles
// until StatusTerminate is observed at the top of the loop; an in-flight
// cycle always completes.
func (s *ShipSystem) Run() {
	for s.Status() != StatusTerminate {
		s.runCycle()
	}
}

// runCycle executes one cycle of the two-phase state machine.
func (s *ShipSystem) runCycle() {
	if s.amountStored == 0 {
		s.convert()
	}
	if s.amountStored > 0 {
		s.store()
	}
}

// convert consumes the input, simulates the processing delay, and takes the
// produced amount into the hold. On a failed consume it reports a
// high-priority event with the resource's committed level and backs off.
func (s *ShipSystem) convert() {
	if s.consumed.Resource != nil {
		remaining, status := s.consumed.Resource.TryConsume(s.consumed.Quantity)
		if status != resource.ConsumeOK {
			code := events.StatusInsufficient
			if status == resource.ConsumeEmpty {
				code = events.StatusEmpty
			}
			s.report(events.New(s.name, s.consumed.Resource, code, events.PriorityHigh, remaining))
			metrics.Get().RecordConsumeFailure()
			time.Sleep(s.backoff)
			return
		}
	}

	s.simulateProcessing()

	if s.produced.Resource != nil {
		s.amountStored = s.produced.Quantity
	} else {
		s.amountStored = 0
	}
	metrics.Get().RecordCycle()
}

// store attempts to flush the held output into the produced resource. The
// unstored remainder is retained; a partial or failed store reports a
// low-priority capacity event and backs off.
func (s *ShipSystem) store() {
	result := s.produced.Resource.TryStore(s.amountStored)
	if result.Status == resource.StoredAll {
		s.amountStored = 0
		return
	}

	s.amountStored = result.Leftover
	s.report(events.New(s.name, s.produced.Resource, events.StatusCapacity, events.PriorityLow, result.Level))
	metrics.Get().RecordStoreFailure()
	time.Sleep(s.backoff)
}

// simulateProcessing sleeps for the processing time scaled by the current
// rate flag. No lock is held here.
func (s *ShipSystem) simulateProcessing() {
	adjusted := s.processingTime
	switch s.Status() {
	case StatusSlow:
		adjusted = s.processingTime * 2
	case StatusFast:
		adjusted = s.processingTime / 2
	}

	if adjusted > 0 {
		time.Sleep(adjusted)
	}
}

func (s *ShipSystem) report(event events.Event) {
	s.queue.Push(event)
	metrics.Get().RecordEventPushed()
}
