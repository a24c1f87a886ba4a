// Package resource defines the shared resource counters of the starship.
// This package is PURE and must NOT import any infrastructure packages.
package resource

import "sync"

// ConsumeStatus reports the outcome of a consume attempt.
type ConsumeStatus int

const (
	ConsumeOK           ConsumeStatus = iota // full amount was consumed
	ConsumeEmpty                             // resource level is zero
	ConsumeInsufficient                      // level is nonzero but below the requested amount
)

// StoreStatus reports how much of a store attempt fit under the capacity bound.
type StoreStatus int

const (
	StoredAll     StoreStatus = iota // everything fit
	StoredPartial                    // some fit, the rest is returned as leftover
	StoredNone                       // resource is already at capacity
)

// Resource is a named, capacity-bounded counter shared by every ship system
// that consumes or produces it. The mutex guards the whole check-and-update
// of each operation: callers never observe a partial update, and the level
// stays within [0, capacity] at every lock release. Resources are created
// once at setup, shared by reference, and torn down only after all systems
// have stopped.
type Resource struct {
	name     string
	capacity int

	mu     sync.Mutex
	amount int
}

// Snapshot is an unlocked copy of a resource's state for telemetry and
// persistence.
type Snapshot struct {
	Name        string `json:"name"`
	Amount      int    `json:"amount"`
	MaxCapacity int    `json:"max_capacity"`
}

// New creates a resource with an initial level and a maximum capacity.
func New(name string, amount, capacity int) *Resource {
	return &Resource{
		name:     name,
		capacity: capacity,
		amount:   amount,
	}
}

// Name returns the resource's name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the maximum level the resource can hold.
func (r *Resource) Capacity() int { return r.capacity }

// Level returns the committed level.
func (r *Resource) Level() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amount
}

// Snapshot returns a copy of the committed state.
func (r *Resource) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{Name: r.name, Amount: r.amount, MaxCapacity: r.capacity}
}

// TryConsume removes amount from the resource if the full amount is
// available. There is no partial consumption: on ConsumeEmpty or
// ConsumeInsufficient the level is unchanged. The returned remaining value
// is the committed level at the moment the attempt resolved.
func (r *Resource) TryConsume(amount int) (remaining int, status ConsumeStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if amount <= r.amount {
		r.amount -= amount
		return r.amount, ConsumeOK
	}
	if r.amount == 0 {
		return 0, ConsumeEmpty
	}
	return r.amount, ConsumeInsufficient
}

// StoreResult describes the outcome of a TryStore call.
type StoreResult struct {
	Status   StoreStatus
	Stored   int // how much was added
	Leftover int // how much did not fit; the caller must retain it
	Level    int // committed level after the attempt
}

// TryStore adds up to amount to the resource, clamped by its capacity.
// Whatever does not fit is reported as leftover; the level never exceeds
// the capacity and never goes negative.
func (r *Resource) TryStore(amount int) StoreResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	space := r.capacity - r.amount
	switch {
	case space >= amount:
		r.amount += amount
		return StoreResult{Status: StoredAll, Stored: amount, Level: r.amount}
	case space > 0:
		r.amount += space
		return StoreResult{Status: StoredPartial, Stored: space, Leftover: amount - space, Level: r.amount}
	default:
		return StoreResult{Status: StoredNone, Leftover: amount, Level: r.amount}
	}
}

// Amount pairs an optional resource with a quantity. A nil Resource means
// "this side of the conversion touches nothing": a consumer with a nil
// consumed side always succeeds, a producer with a nil produced side
// discards its output.
type Amount struct {
	Resource *Resource
	Quantity int
}
