// Package postgres appends registry events to an append-only PostgreSQL table.
// Rows are an audit trail; the registry never reads them back.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"whiteboard/internal/whiteboard/events"
	"whiteboard/internal/whiteboard/models"
)

// Schema creates the events table when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS registry_events (
	id             UUID PRIMARY KEY,
	occurred_at    TIMESTAMPTZ NOT NULL,
	action         TEXT NOT NULL,
	declaration_id BIGINT NOT NULL,
	kind           TEXT NOT NULL,
	name           TEXT,
	context_id     BIGINT,
	reason         TEXT
);
CREATE INDEX IF NOT EXISTS registry_events_declaration_idx ON registry_events (declaration_id, occurred_at);
`

// Store implements events.Sink.
type Store struct {
	db *sql.DB
}

var _ events.Sink = (*Store)(nil)

// New creates a PostgreSQL event store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the events table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate registry_events: %w", err)
	}
	return nil
}

// Append inserts the event. Re-delivered events are ignored.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	event = event.Stamp(time.Now())
	query := `
		INSERT INTO registry_events (id, occurred_at, action, declaration_id, kind, name, context_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.Action),
		int64(event.DeclarationID),
		event.Kind,
		nullString(event.Name),
		nullID(event.ContextID),
		nullString(event.Reason),
	)
	if err != nil {
		return fmt.Errorf("insert registry event: %w", err)
	}
	return nil
}

// ListByDeclaration returns the events recorded for id, oldest first.
func (s *Store) ListByDeclaration(ctx context.Context, id models.ServiceID) ([]events.Event, error) {
	return s.query(ctx, `
		SELECT id, occurred_at, action, declaration_id, kind, name, context_id, reason
		FROM registry_events
		WHERE declaration_id = $1
		ORDER BY occurred_at ASC
	`, int64(id))
}

// ListByActions returns the events with any of the given actions, oldest first.
func (s *Store) ListByActions(ctx context.Context, actions ...events.Action) ([]events.Event, error) {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return s.query(ctx, `
		SELECT id, occurred_at, action, declaration_id, kind, name, context_id, reason
		FROM registry_events
		WHERE action = ANY(string_to_array($1, ','))
		ORDER BY occurred_at ASC
	`, strings.Join(names, ","))
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]events.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query registry events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			e         events.Event
			action    string
			declID    int64
			name      sql.NullString
			contextID sql.NullInt64
			reason    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &action, &declID, &e.Kind, &name, &contextID, &reason); err != nil {
			return nil, fmt.Errorf("scan registry event: %w", err)
		}
		e.Action = events.Action(action)
		e.DeclarationID = models.ServiceID(declID)
		e.Name = name.String
		e.ContextID = models.ServiceID(contextID.Int64)
		e.Reason = reason.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry events: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullID(id models.ServiceID) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}
