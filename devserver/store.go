// CLAUDE:SUMMARY Async batched sqlite store for lifecycle events reported by wasm components.
package devserver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hook names as reported by components. Mirrors the dispatch contract.
const (
	HookConstruct    = "construct"
	HookInject       = "inject"
	HookConnected    = "connected"
	HookDisconnected = "disconnected"
	HookAdopted      = "adopted"
	HookAttribute    = "attribute_changed"
)

// Event is one lifecycle event reported by a component instance.
type Event struct {
	ID        string  `json:"id"`
	Tag       string  `json:"tag"`
	ElementID string  `json:"element_id"`
	Hook      string  `json:"hook"`
	Attr      string  `json:"attr,omitempty"`
	OldValue  string  `json:"old_value,omitempty"`
	NewValue  *string `json:"new_value,omitempty"` // nil = attribute removed
	HTML      string  `json:"html,omitempty"`      // optional element snapshot
	Timestamp int64   `json:"timestamp"`           // unix milliseconds
}

// Schema for the lifecycle_events table. Applied by Store.Init.
const Schema = `
CREATE TABLE IF NOT EXISTS lifecycle_events (
	id TEXT PRIMARY KEY,
	tag TEXT NOT NULL,
	element_id TEXT NOT NULL,
	hook TEXT NOT NULL,
	attr TEXT NOT NULL DEFAULT '',
	old_value TEXT NOT NULL DEFAULT '',
	new_value TEXT,
	html TEXT NOT NULL DEFAULT '',
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lifecycle_events_tag ON lifecycle_events(tag);
CREATE INDEX IF NOT EXISTS idx_lifecycle_events_ts ON lifecycle_events(timestamp);
`

// Store persists lifecycle events to sqlite asynchronously: events are
// buffered and written in batches so a chatty page cannot stall ingestion.
type Store struct {
	db   *sql.DB
	ch   chan *Event
	done chan struct{}
	once sync.Once
}

// NewStore creates a store backed by the given database connection. The
// caller owns the connection. flushInterval <= 0 defaults to one second.
func NewStore(db *sql.DB, flushInterval time.Duration) *Store {
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	s := &Store{
		db:   db,
		ch:   make(chan *Event, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop(flushInterval)
	return s
}

// Init creates the lifecycle_events table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an event for persistence. Events without an ID get a
// UUIDv7; events without a timestamp get the current time. Non-blocking;
// drops if the buffer is full.
func (s *Store) RecordAsync(e *Event) {
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}
	select {
	case s.ch <- e:
	default:
		// buffer full — drop rather than backpressure the page
	}
}

// Close drains the buffer and stops the flush goroutine. The database
// connection stays open; the caller closes it.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

// Query returns events, newest first. tag and hook filter when non-empty;
// limit <= 0 means 200.
func (s *Store) Query(ctx context.Context, tag, hook string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 200
	}

	q := `SELECT id, tag, element_id, hook, attr, old_value, new_value, html, timestamp
		FROM lifecycle_events WHERE 1=1`
	args := []any{}
	if tag != "" {
		q += " AND tag = ?"
		args = append(args, tag)
	}
	if hook != "" {
		q += " AND hook = ?"
		args = append(args, hook)
	}
	q += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("devserver: query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var newValue sql.NullString
		if err := rows.Scan(&e.ID, &e.Tag, &e.ElementID, &e.Hook, &e.Attr,
			&e.OldValue, &newValue, &e.HTML, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("devserver: scan event: %w", err)
		}
		if newValue.Valid {
			v := newValue.String
			e.NewValue = &v
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Clear deletes all recorded events.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lifecycle_events`)
	if err != nil {
		return fmt.Errorf("devserver: clear events: %w", err)
	}
	return nil
}

func (s *Store) flushLoop(interval time.Duration) {
	defer close(s.done)

	batch := make([]*Event, 0, 64)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Event) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("devserver: event store begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO lifecycle_events
		(id, tag, element_id, hook, attr, old_value, new_value, html, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("devserver: event store prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		var newValue sql.NullString
		if e.NewValue != nil {
			newValue = sql.NullString{String: *e.NewValue, Valid: true}
		}
		if _, err := stmt.Exec(e.ID, e.Tag, e.ElementID, e.Hook, e.Attr,
			e.OldValue, newValue, e.HTML, e.Timestamp); err != nil {
			slog.Error("devserver: event store insert", "error", err, "id", e.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("devserver: event store commit", "error", err)
	}
}
