// Package storage provides the persistence layer for the mission log.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// EventRecord mirrors the domain event structure for persistence.
// The domain packages do NOT import this; adapters in cmd translate.
type EventRecord struct {
	ID        string    `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	System    string    `json:"system" db:"system"`
	Resource  string    `json:"resource" db:"resource"`
	Status    string    `json:"status" db:"status"`
	Priority  int       `json:"priority" db:"priority"`
	Amount    int       `json:"amount" db:"amount"`
}

// ResourceSnapshot is the persisted level of one shared resource.
type ResourceSnapshot struct {
	Name        string    `json:"name" db:"name"`
	Amount      int       `json:"amount" db:"amount"`
	MaxCapacity int       `json:"max_capacity" db:"max_capacity"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// EventRepository defines the interface for the append-only mission log.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event EventRecord) error

	// GetAll retrieves the full mission log in emission order.
	GetAll(ctx context.Context) ([]EventRecord, error)

	// GetBySystem retrieves all events emitted by one ship system.
	GetBySystem(ctx context.Context, system string) ([]EventRecord, error)

	// GetByStatus retrieves all events with a specific status code.
	GetByStatus(ctx context.Context, status string) ([]EventRecord, error)
}

// SnapshotRepository defines the interface for resource level snapshots.
type SnapshotRepository interface {
	// Upsert stores the current level of a resource.
	Upsert(ctx context.Context, snapshot ResourceSnapshot) error

	// GetAll retrieves the last persisted level of every resource.
	GetAll(ctx context.Context) ([]ResourceSnapshot, error)
}
