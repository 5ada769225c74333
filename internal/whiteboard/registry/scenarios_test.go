package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/whiteboard/dispatch"
	"whiteboard/internal/whiteboard/events"
	"whiteboard/internal/whiteboard/listeners"
	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/ports"
	"whiteboard/pkg/testutil"
)

// harness wires a manager to the in-memory collaborators.
type harness struct {
	manager    *Manager
	dispatcher *dispatch.Dispatcher
	notifier   *listeners.Notifier
	initFails  *initFailingNotifier
	events     *eventRecorder
}

// initFailingNotifier fails ContextInitialized for chosen listeners with
// EXCEPTION_ON_INIT and delegates everything else.
type initFailingNotifier struct {
	*listeners.Notifier
	mu      sync.Mutex
	failing map[models.ServiceID]bool
}

func (n *initFailingNotifier) fail(id models.ServiceID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing[id] = true
}

func (n *initFailingNotifier) ContextInitialized(ctx context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error {
	n.mu.Lock()
	failing := n.failing[listener.ID]
	n.mu.Unlock()
	if failing {
		return ports.NewRegistrationError(models.FailureExceptionOnInit,
			"listener "+listener.ID.String()+" failed to initialize", nil)
	}
	return n.Notifier.ContextInitialized(ctx, listener, c)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) actions(id models.ServiceID) []events.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Action
	for _, e := range r.events {
		if e.DeclarationID == id {
			out = append(out, e.Action)
		}
	}
	return out
}

func (r *eventRecorder) index(action events.Action, id models.ServiceID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e.Action == action && e.DeclarationID == id {
			return i
		}
	}
	return -1
}

func newHarness(t *testing.T, runtime ports.StaticRuntime) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{
		dispatcher: dispatch.New(logger),
		notifier:   listeners.New(logger),
		events:     &eventRecorder{},
	}
	h.initFails = &initFailingNotifier{Notifier: h.notifier, failing: make(map[models.ServiceID]bool)}
	m, err := New(h.dispatcher, h.initFails, runtime,
		WithLogger(logger),
		WithEventPublisher(h.events),
	)
	require.NoError(t, err)
	h.manager = m
	return h
}

func named(id models.ServiceID, rank int, name string) *models.ContextInfo {
	return &models.ContextInfo{ID: id, Rank: rank, Name: name, Path: "/" + name}
}

func handlerFor(id models.ServiceID, contextName, pattern string) *models.ServiceInfo {
	return &models.ServiceInfo{
		ID:            id,
		Kind:          models.KindHandler,
		Patterns:      []string{pattern},
		ContextSelect: "(context.name=" + contextName + ")",
	}
}

func reasonOf(t *testing.T, m *Manager, id models.ServiceID) models.FailureReason {
	t.Helper()
	reason, ok := m.FailureReason(id)
	require.True(t, ok, "expected a failure record for %d", id)
	return reason
}

// assertInvariants checks exclusivity, shadow consistency and wiring
// correctness against the manager's internal tables.
func assertInvariants(t *testing.T, m *Manager) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range m.contexts.names() {
		group := m.contexts.groups[name]
		for i, e := range group {
			if i == 0 {
				continue
			}
			assert.True(t, models.Less(group[i-1].info, e.info), "group %s is sorted", name)
			assert.False(t, e.active, "only the head of %s may be active", name)
			reason, ok := m.failures.Reason(e.info.ID)
			assert.True(t, ok && reason == models.FailureShadowedByOtherService,
				"non-head context %d is recorded shadowed", e.info.ID)
		}
	}

	active := m.contexts.active()
	for _, s := range m.services.sorted() {
		for _, c := range s.contexts {
			assert.True(t, c.active, "service %d wired to inactive context %d", s.info.ID, c.info.ID)
		}
		for _, c := range active {
			assert.Equal(t, m.matcher.MatchesSelection(s.info, c.info), s.wiredTo(c),
				"wiring of service %d to context %d", s.info.ID, c.info.ID)
		}
		if len(s.contexts) == 0 {
			reason, ok := m.failures.Reason(s.info.ID)
			assert.True(t, ok && reason == models.FailureNoMatchingContext,
				"unwired service %d is recorded without matching context", s.info.ID)
		}
	}
}

func TestShadowedContextTakesOverOnRemoval(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := named(1, 0, "x")
	b := named(2, 10, "x")

	testutil.Given(t, "a lower ranked context followed by a higher ranked one", func(t *testing.T) {
		require.NoError(t, h.manager.AddContext(ctx, a))
		require.NoError(t, h.manager.AddContext(ctx, b))

		testutil.Then(t, "the higher ranked context is active and the other shadowed", func(t *testing.T) {
			_, ok := h.manager.ActiveContext(b.ID)
			assert.True(t, ok)
			_, ok = h.manager.ActiveContext(a.ID)
			assert.False(t, ok)
			assert.Equal(t, models.FailureShadowedByOtherService, reasonOf(t, h.manager, a.ID))
			assert.Equal(t, []models.ServiceID{b.ID}, h.dispatcher.Contexts())
			assertInvariants(t, h.manager)
		})
	})

	testutil.When(t, "the active context is removed", func(t *testing.T) {
		require.NoError(t, h.manager.RemoveContext(ctx, b.ID))

		testutil.Then(t, "the shadowed context becomes active", func(t *testing.T) {
			_, ok := h.manager.ActiveContext(a.ID)
			assert.True(t, ok)
			_, failed := h.manager.FailureReason(a.ID)
			assert.False(t, failed)
			assert.Equal(t, []models.ServiceID{a.ID}, h.dispatcher.Contexts())
			assertInvariants(t, h.manager)
		})
	})
}

func TestPendingServiceIsWiredWhenContextArrives(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	svc := handlerFor(10, "x", "/s")

	testutil.Given(t, "a handler selecting a context that does not exist yet", func(t *testing.T) {
		require.NoError(t, h.manager.AddService(ctx, svc))
		assert.Equal(t, models.FailureNoMatchingContext, reasonOf(t, h.manager, svc.ID))
	})

	testutil.When(t, "the context is added", func(t *testing.T) {
		x := named(1, 0, "x")
		require.NoError(t, h.manager.AddContext(ctx, x))

		testutil.Then(t, "the failure is cleared and the handler is routed", func(t *testing.T) {
			_, failed := h.manager.FailureReason(svc.ID)
			assert.False(t, failed)
			routes, ok := h.dispatcher.Routes(x.ID)
			require.True(t, ok)
			assert.Equal(t, svc.ID, routes.Handlers["/s"])
			assert.Equal(t, []events.Action{
				events.ActionFailureRecorded,
				events.ActionServiceRegistered,
				events.ActionFailureCleared,
			}, h.events.actions(svc.ID))
			assertInvariants(t, h.manager)
		})
	})
}

func TestLifecycleListenerSeesContextBeforeHandlers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	handler := handlerFor(10, "x", "/h")
	listener := &models.ServiceInfo{ID: 11, Kind: models.KindContextLifecycleListener, ContextSelect: "(context.name=x)"}

	require.NoError(t, h.manager.AddService(ctx, handler))
	require.NoError(t, h.manager.AddService(ctx, listener))
	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))

	initialized := h.events.index(events.ActionServiceRegistered, listener.ID)
	registered := h.events.index(events.ActionServiceRegistered, handler.ID)
	require.NotEqual(t, -1, initialized)
	require.NotEqual(t, -1, registered)
	assert.Less(t, initialized, registered)

	require.NoError(t, h.manager.RemoveContext(ctx, 1))
	unregistered := h.events.index(events.ActionServiceUnregistered, handler.ID)
	destroyed := h.events.index(events.ActionServiceUnregistered, listener.ID)
	assert.Less(t, unregistered, destroyed)

	journal := h.notifier.Journal()
	require.Len(t, journal, 2)
	assert.Equal(t, listeners.OpInitialized, journal[0].Op)
	assert.Equal(t, listeners.OpDestroyed, journal[1].Op)
}

func TestEqualRankKeepsOlderContext(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.manager.AddContext(ctx, named(1, 5, "x")))
	require.NoError(t, h.manager.AddContext(ctx, named(2, 5, "x")))

	_, ok := h.manager.ActiveContext(1)
	assert.True(t, ok)
	assert.Equal(t, models.FailureShadowedByOtherService, reasonOf(t, h.manager, 2))
	assertInvariants(t, h.manager)
}

func TestInvalidTargetIsRecordedAndExcluded(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ports.StaticRuntime{"zone": "eu"})
	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))

	svc := handlerFor(10, "x", "/t")
	svc.Target = "(&(zone=eu)"
	require.NoError(t, h.manager.AddService(ctx, svc))

	assert.Equal(t, models.FailureUnknown, reasonOf(t, h.manager, svc.ID))
	routes, _ := h.dispatcher.Routes(1)
	assert.Empty(t, routes.Handlers)

	report := h.manager.Snapshot()
	require.Len(t, report.Failures, 1)
	assert.Equal(t, models.FailureUnknown, report.Failures[0].Reason)
	assert.Equal(t, "eu", report.RuntimeAttributes["zone"])
}

func TestRemoveServiceWiredToTwoContextsUnregistersBoth(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))
	require.NoError(t, h.manager.AddContext(ctx, named(2, 0, "y")))

	svc := &models.ServiceInfo{
		ID:            10,
		Kind:          models.KindHandler,
		Patterns:      []string{"/both"},
		ContextSelect: "(|(context.name=x)(context.name=y))",
	}
	require.NoError(t, h.manager.AddService(ctx, svc))
	for _, id := range []models.ServiceID{1, 2} {
		routes, _ := h.dispatcher.Routes(id)
		assert.Equal(t, svc.ID, routes.Handlers["/both"])
	}

	require.NoError(t, h.manager.RemoveService(ctx, svc.ID))
	for _, id := range []models.ServiceID{1, 2} {
		routes, _ := h.dispatcher.Routes(id)
		assert.Empty(t, routes.Handlers)
	}
	_, failed := h.manager.FailureReason(svc.ID)
	assert.False(t, failed)
	assert.Len(t, h.events.actions(svc.ID), 4, "two registrations and two unregistrations")
}

func TestDefaultContextAndSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, ports.StaticRuntime{"node": "a"})
	require.NoError(t, h.manager.Start(ctx))

	handler := &models.ServiceInfo{ID: 10, Rank: 1, Kind: models.KindHandler, Name: "root", Patterns: []string{"/"}}
	filter := &models.ServiceInfo{ID: 11, Kind: models.KindFilter, Patterns: []string{"/*"}}
	resource := &models.ServiceInfo{ID: 12, Kind: models.KindResource, Patterns: []string{"/static/*"}, Prefix: "/www"}
	request := &models.ServiceInfo{ID: 13, Kind: models.KindRequestListener}
	orphan := handlerFor(14, "missing", "/o")
	for _, svc := range []*models.ServiceInfo{handler, filter, resource, request, orphan} {
		require.NoError(t, h.manager.AddService(ctx, svc))
	}
	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))
	require.NoError(t, h.manager.AddContext(ctx, named(2, 0, "x")))

	report := h.manager.Snapshot()
	require.Len(t, report.Contexts, 2)
	def := report.Contexts[1]
	assert.Equal(t, models.DefaultContextID, def.ID)
	assert.Equal(t, models.DefaultContextName, def.Name)
	require.Len(t, def.Handlers, 1)
	assert.Equal(t, "root", def.Handlers[0].Name)
	assert.Len(t, def.Filters, 1)
	assert.Len(t, def.Resources, 1)
	assert.Len(t, def.Listeners, 1)
	assert.Empty(t, report.Contexts[0].Handlers)

	byKind := report.FailuresByKind()
	require.Len(t, byKind["context"], 1)
	assert.Equal(t, models.ServiceID(2), byKind["context"][0].ID)
	require.Len(t, byKind["handler"], 1)
	assert.Equal(t, int(models.FailureNoMatchingContext), byKind["handler"][0].ReasonCode)

	assert.Equal(t, map[models.Kind][]models.ServiceID{
		models.KindRequestListener: {13},
	}, h.notifier.ContextListeners(models.DefaultContextID))

	require.NoError(t, h.manager.Stop(ctx))
	assert.Empty(t, h.dispatcher.Contexts())
	assert.Empty(t, h.notifier.ContextListeners(models.DefaultContextID))
	assert.Empty(t, h.manager.Snapshot().Failures)
}

func TestStopReportsEveryDroppedFailureAsCleared(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	svc := handlerFor(10, "x", "/s")
	shadowed := named(2, 0, "x")

	testutil.Given(t, "a wired handler and a shadowed context", func(t *testing.T) {
		require.NoError(t, h.manager.AddContext(ctx, named(1, 5, "x")))
		require.NoError(t, h.manager.AddContext(ctx, shadowed))
		require.NoError(t, h.manager.AddService(ctx, svc))
		assert.Equal(t, models.FailureShadowedByOtherService, reasonOf(t, h.manager, shadowed.ID))
	})

	testutil.When(t, "the registry stops", func(t *testing.T) {
		require.NoError(t, h.manager.Stop(ctx))

		testutil.Then(t, "each failure recorded on the way down is cleared", func(t *testing.T) {
			assert.Empty(t, h.manager.Snapshot().Failures)
			assert.Equal(t, []events.Action{
				events.ActionServiceRegistered,
				events.ActionServiceUnregistered,
				events.ActionFailureRecorded,
				events.ActionFailureCleared,
			}, h.events.actions(svc.ID))
			assert.Equal(t, []events.Action{
				events.ActionFailureRecorded,
				events.ActionFailureCleared,
			}, h.events.actions(shadowed.ID))
		})
	})
}

func TestReplacingDeclarationWithSameID(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))
	require.NoError(t, h.manager.AddContext(ctx, named(2, 0, "y")))

	svc := handlerFor(10, "x", "/r")
	require.NoError(t, h.manager.AddService(ctx, svc))

	moved := handlerFor(10, "y", "/r")
	require.NoError(t, h.manager.AddService(ctx, moved))

	routesX, _ := h.dispatcher.Routes(1)
	routesY, _ := h.dispatcher.Routes(2)
	assert.Empty(t, routesX.Handlers)
	assert.Equal(t, models.ServiceID(10), routesY.Handlers["/r"])

	renamed := named(1, 0, "z")
	require.NoError(t, h.manager.AddContext(ctx, renamed))
	active, ok := h.manager.ActiveContext(1)
	require.True(t, ok)
	assert.Equal(t, "z", active.Name)
	assertInvariants(t, h.manager)
}

func TestListenerInitFailureIsRecorded(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	listener := &models.ServiceInfo{ID: 11, Kind: models.KindContextLifecycleListener, ContextSelect: "(context.name=x)"}
	h.initFails.fail(listener.ID)

	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))
	require.NoError(t, h.manager.AddService(ctx, listener))

	assert.Equal(t, models.FailureExceptionOnInit, reasonOf(t, h.manager, listener.ID))
}

func TestRemovingUnknownDeclarationsIsNoOp(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.manager.AddContext(ctx, named(1, 0, "x")))

	before := h.manager.Snapshot()
	assert.NoError(t, h.manager.RemoveContext(ctx, 99))
	assert.NoError(t, h.manager.RemoveService(ctx, 98))
	after := h.manager.Snapshot()

	assert.Equal(t, before.Contexts, after.Contexts)
	assert.Equal(t, before.Failures, after.Failures)
}

func TestConcurrentChurnKeepsInvariants(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.manager.Start(ctx))

	names := []string{"a", "b", "c"}
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				id := models.ServiceID(rng.Intn(40) + 1)
				name := names[rng.Intn(len(names))]
				switch rng.Intn(4) {
				case 0:
					_ = h.manager.AddContext(ctx, named(id, rng.Intn(3), name))
				case 1:
					_ = h.manager.RemoveContext(ctx, id)
				case 2:
					sid := id + 100
					_ = h.manager.AddService(ctx, handlerFor(sid, name, fmt.Sprintf("/svc/%d", sid)))
				case 3:
					_ = h.manager.RemoveService(ctx, id+100)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	assertInvariants(t, h.manager)
}
