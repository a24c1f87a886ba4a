package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event EventRecord) error {
	query := `
		INSERT INTO events (id, timestamp, system, resource, status, priority, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.System, event.Resource,
		event.Status, event.Priority, event.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var e EventRecord
		err := rows.Scan(&e.ID, &e.Timestamp, &e.System, &e.Resource, &e.Status, &e.Priority, &e.Amount)
		if err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

func (r *SQLiteEventRepository) GetAll(ctx context.Context) ([]EventRecord, error) {
	query := `SELECT id, timestamp, system, resource, status, priority, amount FROM events ORDER BY timestamp ASC`
	return r.getMany(ctx, query)
}

func (r *SQLiteEventRepository) GetBySystem(ctx context.Context, system string) ([]EventRecord, error) {
	query := `SELECT id, timestamp, system, resource, status, priority, amount FROM events WHERE system = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, system)
}

func (r *SQLiteEventRepository) GetByStatus(ctx context.Context, status string) ([]EventRecord, error) {
	query := `SELECT id, timestamp, system, resource, status, priority, amount FROM events WHERE status = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, status)
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot ResourceSnapshot) error {
	query := `
		INSERT INTO resource_snapshots (name, amount, max_capacity, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			amount=excluded.amount,
			max_capacity=excluded.max_capacity,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.Name, snapshot.Amount, snapshot.MaxCapacity, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetAll(ctx context.Context) ([]ResourceSnapshot, error) {
	query := `SELECT name, amount, max_capacity, last_updated FROM resource_snapshots ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []ResourceSnapshot
	for rows.Next() {
		var s ResourceSnapshot
		if err := rows.Scan(&s.Name, &s.Amount, &s.MaxCapacity, &s.LastUpdated); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
