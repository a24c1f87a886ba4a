// Package events provides the report channel between the ship systems and
// the mission monitor: immutable failure reports, pushed by many producer
// systems and drained by a single consumer in priority order.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/astrocrew/starship-sim/internal/domain/resource"
)

// StatusCode classifies what went wrong with a consume or store attempt.
type StatusCode string

const (
	StatusEmpty        StatusCode = "EMPTY"        // consume failed, resource level is zero
	StatusInsufficient StatusCode = "INSUFFICIENT" // consume failed, level below the requested amount
	StatusCapacity     StatusCode = "CAPACITY"     // store failed or was partial, resource at capacity
)

// Priority orders events in the queue. Higher values pop first.
type Priority int

const (
	PriorityLow  Priority = 0
	PriorityHigh Priority = 1
)

// Event is an immutable report of a single consume/store failure. It is
// copied by value into the queue; the Resource pointer is a non-owning
// reference shared with the engine, never a copy of its state. Amount is
// the committed resource level at the moment the failure resolved.
type Event struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	System    string             `json:"system"`
	Resource  *resource.Resource `json:"-"`
	Status    StatusCode         `json:"status"`
	Priority  Priority           `json:"priority"`
	Amount    int                `json:"amount"`

	// ResourceName mirrors Resource for serialization; the live pointer
	// carries a mutex and stays off the wire.
	ResourceName string `json:"resource"`
}

// New builds an event snapshot. res may be nil for systems that touch no
// resource on the failing side.
func New(system string, res *resource.Resource, status StatusCode, priority Priority, amount int) Event {
	e := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		System:    system,
		Resource:  res,
		Status:    status,
		Priority:  priority,
		Amount:    amount,
	}
	if res != nil {
		e.ResourceName = res.Name()
	}
	return e
}

// Sink handles events drained from the queue by the monitor. Implementations
// include the mission log, the SQLite persister, and the telemetry hub.
type Sink interface {
	HandleEvent(event Event)
}
