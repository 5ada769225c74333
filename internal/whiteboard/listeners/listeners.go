// Package listeners is an in-memory ports.LifecycleNotifier. It keeps the
// listener sets attached to each context and a journal of every call so the
// order of notifications can be inspected.
package listeners

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/ports"
)

// Op is the kind of notification journaled.
type Op string

const (
	OpInitialized Op = "initialized"
	OpDestroyed   Op = "destroyed"
	OpAdded       Op = "added"
	OpRemoved     Op = "removed"
)

// Entry is one journaled notification.
type Entry struct {
	Op         Op
	ListenerID models.ServiceID
	Kind       models.Kind
	ContextID  models.ServiceID
}

// Notifier is safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	attached map[models.ServiceID]map[models.ServiceID]*models.ServiceInfo // context -> listeners
	journal  []Entry
	logger   *slog.Logger
}

var _ ports.LifecycleNotifier = (*Notifier)(nil)

// New creates an empty notifier.
func New(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		attached: make(map[models.ServiceID]map[models.ServiceID]*models.ServiceInfo),
		logger:   logger,
	}
}

func (n *Notifier) ContextInitialized(_ context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attach(listener, c)
	n.record(OpInitialized, listener, c)
	n.logger.Debug("lifecycle listener initialized",
		"listener_id", listener.ID,
		"context_id", c.ID,
	)
	return nil
}

func (n *Notifier) ContextDestroyed(_ context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.detach(listener, c) {
		n.record(OpDestroyed, listener, c)
	}
	return nil
}

func (n *Notifier) AddListener(_ context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attach(listener, c)
	n.record(OpAdded, listener, c)
	return nil
}

// RemoveListener is a no-op for listeners not attached to c.
func (n *Notifier) RemoveListener(_ context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.detach(listener, c) {
		n.record(OpRemoved, listener, c)
	}
	return nil
}

// ContextListeners returns the listener ids attached to a context, grouped by
// kind and sorted in declaration order.
func (n *Notifier) ContextListeners(contextID models.ServiceID) map[models.Kind][]models.ServiceID {
	n.mu.Lock()
	defer n.mu.Unlock()

	var listeners []*models.ServiceInfo
	for _, l := range n.attached[contextID] {
		listeners = append(listeners, l)
	}
	slices.SortFunc(listeners, func(a, b *models.ServiceInfo) int { return models.Compare(a, b) })

	out := make(map[models.Kind][]models.ServiceID)
	for _, l := range listeners {
		out[l.Kind] = append(out[l.Kind], l.ID)
	}
	return out
}

// Journal returns a copy of every notification in call order.
func (n *Notifier) Journal() []Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.journal)
}

func (n *Notifier) attach(listener *models.ServiceInfo, c *models.ContextInfo) {
	set, ok := n.attached[c.ID]
	if !ok {
		set = make(map[models.ServiceID]*models.ServiceInfo)
		n.attached[c.ID] = set
	}
	set[listener.ID] = listener
}

func (n *Notifier) detach(listener *models.ServiceInfo, c *models.ContextInfo) bool {
	set, ok := n.attached[c.ID]
	if !ok {
		return false
	}
	if _, ok := set[listener.ID]; !ok {
		return false
	}
	delete(set, listener.ID)
	if len(set) == 0 {
		delete(n.attached, c.ID)
	}
	return true
}

func (n *Notifier) record(op Op, listener *models.ServiceInfo, c *models.ContextInfo) {
	n.journal = append(n.journal, Entry{
		Op:         op,
		ListenerID: listener.ID,
		Kind:       listener.Kind,
		ContextID:  c.ID,
	})
}
