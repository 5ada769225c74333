// Package registry reconciles context and service declarations into the set of
// active contexts and the wirings between them and services.
//
// Among contexts sharing a name only the highest ranked one (the head) is
// active; the others are shadowed. A service is wired to a context if and only
// if that context is active and the service's selection filter matches it.
// Every mutation runs to completion under a single lock, collaborator calls
// included, so observers never see a half-finished transition.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"whiteboard/internal/whiteboard/events"
	"whiteboard/internal/whiteboard/failures"
	"whiteboard/internal/whiteboard/matcher"
	"whiteboard/internal/whiteboard/metrics"
	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/ports"
	dErrors "whiteboard/pkg/domain-errors"
)

// Manager owns the context table, the service table and the failure records.
type Manager struct {
	dispatcher ports.Dispatcher
	notifier   ports.LifecycleNotifier
	runtime    ports.RuntimeIdentity

	logger  *slog.Logger
	metrics *metrics.Metrics
	events  ports.EventPublisher
	matcher *matcher.Matcher
	tracer  trace.Tracer
	now     func() time.Time

	mu       sync.Mutex
	started  bool
	contexts *contextTable
	services *serviceTable
	failures *failures.Tracker
}

// New constructs a Manager. The default context is not present until Start.
func New(dispatcher ports.Dispatcher, notifier ports.LifecycleNotifier, runtime ports.RuntimeIdentity, opts ...Option) (*Manager, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if notifier == nil {
		return nil, errors.New("lifecycle notifier is required")
	}
	if runtime == nil {
		return nil, errors.New("runtime identity is required")
	}

	m := &Manager{
		dispatcher: dispatcher,
		notifier:   notifier,
		runtime:    runtime,
		now:        time.Now,
		contexts:   newContextTable(),
		services:   newServiceTable(),
		failures:   failures.NewTracker(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(traceScopeRegistry)
	}
	if m.matcher == nil {
		mt, err := matcher.New(matcher.DefaultCacheSize, m.logger)
		if err != nil {
			return nil, fmt.Errorf("create matcher: %w", err)
		}
		m.matcher = mt
	}
	return m, nil
}

// Start adds the synthetic default context. Calling Start twice is a no-op.
func (m *Manager) Start(ctx context.Context) (err error) {
	ctx, span := m.startSpan(ctx, traceSpanStart)
	defer span.End()
	defer func() { markSpanResult(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observe("start", time.Now())

	if m.started {
		return nil
	}
	m.started = true
	m.logger.InfoContext(ctx, "registry started")
	return m.addContextLocked(ctx, models.DefaultContext())
}

// Stop deactivates every active context in declaration order and drops all
// declarations and failure records. Every dropped record is reported as
// cleared.
func (m *Manager) Stop(ctx context.Context) (err error) {
	ctx, span := m.startSpan(ctx, traceSpanStop)
	defer span.End()
	defer func() { markSpanResult(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observe("stop", time.Now())

	var errs []error
	for _, entry := range m.contexts.active() {
		errs = append(errs, m.deactivate(ctx, entry))
	}
	m.contexts = newContextTable()
	m.services = newServiceTable()
	for _, f := range m.failures.Reset() {
		m.failureCleared(ctx, f.ID, f.Reason)
	}
	m.started = false
	m.logger.InfoContext(ctx, "registry stopped")
	return errors.Join(errs...)
}

// AddContext adds a context declaration. A declaration with an id the
// registry already holds replaces the previous one. Refusals reported by the
// dispatcher are recorded as failures; only unexpected collaborator errors are
// returned, after every affected declaration has been processed.
func (m *Manager) AddContext(ctx context.Context, info *models.ContextInfo) (err error) {
	if info == nil {
		return dErrors.New(dErrors.CodeBadRequest, "context declaration is required")
	}
	ctx, span := m.startSpan(ctx, traceSpanAddContext,
		append(declarationAttrs(info.ID, info.Describe()), attribute.String(traceAttrContextName, info.Name))...)
	defer span.End()
	defer func() { markSpanResult(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observe("add_context", time.Now())

	var errs []error
	if existing := m.contexts.find(info.ID); existing != nil {
		errs = append(errs, m.removeContextLocked(ctx, existing))
	}
	m.forget(ctx, info.ID)

	if !m.addressed(ctx, info) {
		return errors.Join(errs...)
	}
	if verr := info.Validate(); verr != nil {
		m.logger.WarnContext(ctx, "invalid context declaration",
			"declaration_id", info.ID,
			"context_name", info.Name,
			"error", verr,
		)
		m.recordFailure(ctx, info, models.FailureValidationFailed)
		return errors.Join(errs...)
	}

	errs = append(errs, m.addContextLocked(ctx, info))
	return errors.Join(errs...)
}

// RemoveContext withdraws the context with the given id. Removing an unknown
// id only clears a failure record it may have left behind.
func (m *Manager) RemoveContext(ctx context.Context, id models.ServiceID) (err error) {
	ctx, span := m.startSpan(ctx, traceSpanRemoveContext, declarationAttrs(id, "context")...)
	defer span.End()
	defer func() { markSpanResult(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observe("remove_context", time.Now())

	entry := m.contexts.find(id)
	if entry == nil {
		m.forget(ctx, id)
		return nil
	}
	return m.removeContextLocked(ctx, entry)
}

// AddService adds a service declaration and wires it to every active context
// its selection filter matches. Re-adding a known id replaces the previous
// declaration.
func (m *Manager) AddService(ctx context.Context, info *models.ServiceInfo) (err error) {
	if info == nil {
		return dErrors.New(dErrors.CodeBadRequest, "service declaration is required")
	}
	ctx, span := m.startSpan(ctx, traceSpanAddService, declarationAttrs(info.ID, info.Describe())...)
	defer span.End()
	defer func() { markSpanResult(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observe("add_service", time.Now())

	var errs []error
	if existing := m.services.find(info.ID); existing != nil {
		errs = append(errs, m.removeServiceLocked(ctx, existing))
	}
	m.forget(ctx, info.ID)

	if !m.addressed(ctx, info) {
		return errors.Join(errs...)
	}
	if verr := info.Validate(); verr != nil {
		m.logger.WarnContext(ctx, "invalid service declaration",
			"declaration_id", info.ID,
			"kind", info.Kind.String(),
			"error", verr,
		)
		m.recordFailure(ctx, info, models.FailureValidationFailed)
		return errors.Join(errs...)
	}

	entry := m.services.add(info)
	var matched []*contextEntry
	for _, c := range m.contexts.active() {
		if m.matcher.MatchesSelection(info, c.info) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		m.recordFailure(ctx, info, models.FailureNoMatchingContext)
		return errors.Join(errs...)
	}
	for _, c := range matched {
		errs = append(errs, m.wire(ctx, entry, c))
	}
	return errors.Join(errs...)
}

// RemoveService unregisters the service from every context it is wired to and
// forgets it. Removing an unknown id only clears its failure record.
func (m *Manager) RemoveService(ctx context.Context, id models.ServiceID) (err error) {
	ctx, span := m.startSpan(ctx, traceSpanRemoveService, declarationAttrs(id, "service")...)
	defer span.End()
	defer func() { markSpanResult(span, err) }()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.observe("remove_service", time.Now())

	entry := m.services.find(id)
	if entry == nil {
		m.forget(ctx, id)
		return nil
	}
	return m.removeServiceLocked(ctx, entry)
}

// ActiveContext returns the context with the given id if it is currently active.
func (m *Manager) ActiveContext(id models.ServiceID) (*models.ContextInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.contexts.find(id)
	if entry == nil || !entry.active {
		return nil, false
	}
	return entry.info, true
}

// ActiveContexts returns every active context in declaration order.
func (m *Manager) ActiveContexts() []*models.ContextInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.contexts.active()
	out := make([]*models.ContextInfo, 0, len(active))
	for _, e := range active {
		out = append(out, e.info)
	}
	return out
}

// FailureReason returns the recorded failure for a declaration id.
func (m *Manager) FailureReason(id models.ServiceID) (models.FailureReason, bool) {
	return m.failures.Reason(id)
}

func (m *Manager) addContextLocked(ctx context.Context, info *models.ContextInfo) error {
	entry, pos, group := m.contexts.insert(info)
	if pos > 0 {
		m.logger.DebugContext(ctx, "context shadowed",
			"declaration_id", info.ID,
			"context_name", info.Name,
			"head_id", group[0].info.ID,
		)
		m.recordFailure(ctx, info, models.FailureShadowedByOtherService)
		return nil
	}

	var errs []error
	if len(group) > 1 {
		prev := group[1]
		if prev.active {
			errs = append(errs, m.deactivate(ctx, prev))
		}
		m.recordFailure(ctx, prev.info, models.FailureShadowedByOtherService)
	}
	m.clearFailure(ctx, info.ID, models.FailureShadowedByOtherService)
	errs = append(errs, m.activate(ctx, entry))
	return errors.Join(errs...)
}

func (m *Manager) removeContextLocked(ctx context.Context, entry *contextEntry) error {
	var errs []error
	wasHead := m.contexts.isHead(entry)
	if entry.active {
		errs = append(errs, m.deactivate(ctx, entry))
	}
	m.contexts.remove(entry.info.ID)
	m.forget(ctx, entry.info.ID)

	if wasHead {
		if next := m.contexts.head(entry.info.Name); next != nil {
			m.clearFailure(ctx, next.info.ID, models.FailureShadowedByOtherService)
			errs = append(errs, m.activate(ctx, next))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) removeServiceLocked(ctx context.Context, entry *serviceEntry) error {
	var errs []error
	for i := len(entry.contexts) - 1; i >= 0; i-- {
		errs = append(errs, m.unwire(ctx, entry, entry.contexts[i]))
	}
	m.services.remove(entry.info.ID)
	m.forget(ctx, entry.info.ID)
	return errors.Join(errs...)
}

// addressed reports whether d targets this runtime. A malformed target is
// recorded as UNKNOWN and the declaration is treated as not addressed.
func (m *Manager) addressed(ctx context.Context, d models.Declaration) bool {
	ok, err := m.matcher.MatchesTarget(d, m.runtime.Attributes())
	if err != nil {
		m.logger.ErrorContext(ctx, "invalid target filter",
			"declaration_id", d.Identity(),
			"kind", d.Describe(),
			"error", err,
		)
		m.recordFailure(ctx, d, models.FailureUnknown)
		return false
	}
	return ok
}

// collaboratorFailure records err against d. Refusals carrying a reason are
// recorded verbatim and swallowed; anything else is recorded as UNKNOWN and
// returned.
func (m *Manager) collaboratorFailure(ctx context.Context, call string, d models.Declaration, err error) error {
	if m.metrics != nil {
		m.metrics.IncrementCollaboratorError(call)
	}
	reason, refused := ports.ReasonOf(err)
	m.recordFailure(ctx, d, reason)
	if refused {
		m.logger.WarnContext(ctx, "registration refused",
			"call", call,
			"declaration_id", d.Identity(),
			"kind", d.Describe(),
			"reason", reason.String(),
			"error", err,
		)
		return nil
	}
	m.logger.ErrorContext(ctx, "collaborator call failed",
		"call", call,
		"declaration_id", d.Identity(),
		"kind", d.Describe(),
		"error", err,
	)
	return fmt.Errorf("%s for %s %d: %w", call, d.Describe(), d.Identity(), err)
}

func (m *Manager) recordFailure(ctx context.Context, d models.Declaration, reason models.FailureReason) {
	m.failures.Record(d, reason)
	if m.metrics != nil {
		m.metrics.IncrementFailureRecorded(reason)
	}
	m.emit(ctx, events.Event{
		Action:        events.ActionFailureRecorded,
		DeclarationID: d.Identity(),
		Kind:          d.Describe(),
		Reason:        reason.String(),
	})
}

// clearFailure drops the record for id only while it still carries reason.
func (m *Manager) clearFailure(ctx context.Context, id models.ServiceID, reason models.FailureReason) {
	if m.failures.ClearIfReason(id, reason) {
		m.failureCleared(ctx, id, reason)
	}
}

// forget drops any record for id.
func (m *Manager) forget(ctx context.Context, id models.ServiceID) {
	reason, ok := m.failures.Reason(id)
	if ok && m.failures.Clear(id) {
		m.failureCleared(ctx, id, reason)
	}
}

func (m *Manager) failureCleared(ctx context.Context, id models.ServiceID, reason models.FailureReason) {
	if m.metrics != nil {
		m.metrics.IncrementFailureCleared()
	}
	m.emit(ctx, events.Event{
		Action:        events.ActionFailureCleared,
		DeclarationID: id,
		Reason:        reason.String(),
	})
}

func (m *Manager) emit(ctx context.Context, e events.Event) {
	if m.events == nil {
		return
	}
	m.events.Publish(ctx, e)
}

// observe records the operation duration and the current population. Runs
// under the lock.
func (m *Manager) observe(op string, start time.Time) {
	if m.metrics == nil {
		return
	}
	m.metrics.ObserveOperation(op, start)
	m.metrics.SetPopulation(len(m.contexts.active()), m.services.wirings())
}
