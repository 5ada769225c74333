// Package events carries registry lifecycle transitions to audit sinks.
// Events are an observability trail only; the registry never reads them back.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"whiteboard/internal/whiteboard/models"
)

// Action names a registry transition.
type Action string

const (
	ActionContextActivated    Action = "context_activated"
	ActionContextDeactivated  Action = "context_deactivated"
	ActionServiceRegistered   Action = "service_registered"
	ActionServiceUnregistered Action = "service_unregistered"
	ActionFailureRecorded     Action = "failure_recorded"
	ActionFailureCleared      Action = "failure_cleared"
)

// Event is one registry transition. ContextID is zero when the transition is
// not bound to a context.
type Event struct {
	ID            uuid.UUID        `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	Action        Action           `json:"action"`
	DeclarationID models.ServiceID `json:"declaration_id"`
	Kind          string           `json:"kind"`
	Name          string           `json:"name,omitempty"`
	ContextID     models.ServiceID `json:"context_id,omitempty"`
	Reason        string           `json:"reason,omitempty"`
}

// Sink persists or forwards events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Stamp fills in the id and timestamp when missing.
func (e Event) Stamp(now time.Time) Event {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	return e
}
