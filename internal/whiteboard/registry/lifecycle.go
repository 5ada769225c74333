package registry

import (
	"context"
	"errors"

	"whiteboard/internal/whiteboard/events"
	"whiteboard/internal/whiteboard/models"
)

// activate turns the head entry into the active context of its name.
// Lifecycle listeners see the context initialized before any other matching
// service is registered with it. If the dispatcher refuses the context it
// stays inactive and nothing is wired to it.
func (m *Manager) activate(ctx context.Context, entry *contextEntry) error {
	c := entry.info
	if err := m.dispatcher.RegisterContext(ctx, c); err != nil {
		entry.active = false
		return m.collaboratorFailure(ctx, "register_context", c, err)
	}
	entry.active = true
	m.logger.InfoContext(ctx, "context activated",
		"declaration_id", c.ID,
		"context_name", c.Name,
		"context_path", c.Path,
	)
	m.emit(ctx, events.Event{
		Action:        events.ActionContextActivated,
		DeclarationID: c.ID,
		Kind:          c.Describe(),
		Name:          c.Name,
		ContextID:     c.ID,
	})

	var matched []*serviceEntry
	for _, s := range m.services.sorted() {
		if m.matcher.MatchesSelection(s.info, c) {
			matched = append(matched, s)
		}
	}
	lifecycle, others := partition(matched)

	var errs []error
	for _, s := range lifecycle {
		errs = append(errs, m.wire(ctx, s, entry))
	}
	for _, s := range others {
		errs = append(errs, m.wire(ctx, s, entry))
	}
	return errors.Join(errs...)
}

// deactivate reverses activate: every non-lifecycle service is unregistered
// first, lifecycle listeners are told the context is destroyed next, and the
// dispatcher drops the context last. Services left without any wiring are
// recorded as having no matching context.
func (m *Manager) deactivate(ctx context.Context, entry *contextEntry) error {
	c := entry.info
	wired := m.services.wiredTo(entry)
	lifecycle, others := partition(wired)

	var errs []error
	for i := len(others) - 1; i >= 0; i-- {
		errs = append(errs, m.unwire(ctx, others[i], entry))
	}
	for i := len(lifecycle) - 1; i >= 0; i-- {
		errs = append(errs, m.unwire(ctx, lifecycle[i], entry))
	}
	if err := m.dispatcher.UnregisterContext(ctx, c); err != nil {
		errs = append(errs, m.collaboratorFailure(ctx, "unregister_context", c, err))
	}
	entry.active = false
	m.logger.InfoContext(ctx, "context deactivated",
		"declaration_id", c.ID,
		"context_name", c.Name,
	)
	m.emit(ctx, events.Event{
		Action:        events.ActionContextDeactivated,
		DeclarationID: c.ID,
		Kind:          c.Describe(),
		Name:          c.Name,
		ContextID:     c.ID,
	})

	for _, s := range wired {
		if len(s.contexts) == 0 {
			m.recordFailure(ctx, s.info, models.FailureNoMatchingContext)
		}
	}
	return errors.Join(errs...)
}

// wire registers s with the active context and clears a pending
// no-matching-context record.
func (m *Manager) wire(ctx context.Context, s *serviceEntry, entry *contextEntry) error {
	call, err := m.register(ctx, s.info, entry.info)
	if err != nil {
		return m.collaboratorFailure(ctx, call, s.info, err)
	}
	s.wire(entry)
	m.logger.DebugContext(ctx, "service registered",
		"declaration_id", s.info.ID,
		"kind", s.info.Kind.String(),
		"context_name", entry.info.Name,
	)
	m.emit(ctx, events.Event{
		Action:        events.ActionServiceRegistered,
		DeclarationID: s.info.ID,
		Kind:          s.info.Describe(),
		Name:          s.info.Name,
		ContextID:     entry.info.ID,
	})
	m.clearFailure(ctx, s.info.ID, models.FailureNoMatchingContext)
	return nil
}

// unwire drops the wiring whatever the collaborator answers; the context is
// going away either way. The unregistered event is only emitted once the
// collaborator has accepted the call.
func (m *Manager) unwire(ctx context.Context, s *serviceEntry, entry *contextEntry) error {
	s.unwire(entry)
	call, err := m.unregister(ctx, s.info, entry.info)
	if err != nil {
		return m.collaboratorFailure(ctx, call, s.info, err)
	}
	m.logger.DebugContext(ctx, "service unregistered",
		"declaration_id", s.info.ID,
		"kind", s.info.Kind.String(),
		"context_name", entry.info.Name,
	)
	m.emit(ctx, events.Event{
		Action:        events.ActionServiceUnregistered,
		DeclarationID: s.info.ID,
		Kind:          s.info.Describe(),
		Name:          s.info.Name,
		ContextID:     entry.info.ID,
	})
	return nil
}
