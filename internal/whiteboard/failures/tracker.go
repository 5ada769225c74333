// Package failures tracks why declarations are not wired.
package failures

import (
	"sort"
	"sync"

	"whiteboard/internal/whiteboard/models"
)

// Failure is one recorded failure. Kind and Name describe the declaration for
// reports without holding on to it.
type Failure struct {
	ID     models.ServiceID
	Rank   int
	Kind   string
	Name   string
	Reason models.FailureReason
}

func (f Failure) Identity() models.ServiceID { return f.ID }
func (f Failure) Ranking() int              { return f.Rank }
func (f Failure) TargetFilter() string      { return "" }
func (f Failure) Validate() error           { return nil }
func (f Failure) Describe() string          { return f.Kind }

// Tracker maps declaration identity to at most one failure reason.
type Tracker struct {
	mu      sync.RWMutex
	entries map[models.ServiceID]Failure
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[models.ServiceID]Failure)}
}

// Record sets the failure reason for d, replacing any previous one.
func (t *Tracker) Record(d models.Declaration, reason models.FailureReason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[d.Identity()] = Failure{
		ID:     d.Identity(),
		Rank:   d.Ranking(),
		Kind:   d.Describe(),
		Name:   nameOf(d),
		Reason: reason,
	}
}

// ClearIfReason removes the record for id only when it still carries reason,
// so a newer, different failure is never dropped by a stale clear. Reports
// whether a record was removed.
func (t *Tracker) ClearIfReason(id models.ServiceID, reason models.FailureReason) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.entries[id]; ok && f.Reason == reason {
		delete(t.entries, id)
		return true
	}
	return false
}

// Clear removes any record for id.
func (t *Tracker) Clear(id models.ServiceID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[id]
	delete(t.entries, id)
	return ok
}

// Reset drops every record and returns the dropped records in declaration
// order.
func (t *Tracker) Reset() []Failure {
	t.mu.Lock()
	dropped := make([]Failure, 0, len(t.entries))
	for _, f := range t.entries {
		dropped = append(dropped, f)
	}
	t.entries = make(map[models.ServiceID]Failure)
	t.mu.Unlock()

	sort.Slice(dropped, func(i, j int) bool { return models.Less(dropped[i], dropped[j]) })
	return dropped
}

// Reason returns the recorded reason for id.
func (t *Tracker) Reason(id models.ServiceID) (models.FailureReason, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.entries[id]
	return f.Reason, ok
}

// Snapshot returns a copy of all records in declaration order.
func (t *Tracker) Snapshot() []Failure {
	t.mu.RLock()
	out := make([]Failure, 0, len(t.entries))
	for _, f := range t.entries {
		out = append(out, f)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return models.Less(out[i], out[j]) })
	return out
}

func nameOf(d models.Declaration) string {
	switch v := d.(type) {
	case *models.ContextInfo:
		return v.Name
	case *models.ServiceInfo:
		return v.Name
	case Failure:
		return v.Name
	}
	return ""
}
