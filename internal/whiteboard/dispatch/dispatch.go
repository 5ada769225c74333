// Package dispatch is an in-memory route table implementing ports.Dispatcher.
// It keeps track of which services are registered with which contexts and who
// owns each handler pattern; it does not serve requests.
package dispatch

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/ports"
	"whiteboard/pkg/platform/sentinel"
)

// Routes is the registered state of one context.
type Routes struct {
	Context   *models.ContextInfo
	Handlers  map[string]models.ServiceID // pattern -> owning handler
	Filters   []models.ServiceID
	Resources []models.ServiceID
}

type contextRoutes struct {
	info      *models.ContextInfo
	handlers  map[models.ServiceID]*models.ServiceInfo
	filters   map[models.ServiceID]*models.ServiceInfo
	resources map[models.ServiceID]*models.ServiceInfo
	owners    map[string]*models.ServiceInfo
}

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	mu       sync.Mutex
	contexts map[models.ServiceID]*contextRoutes
	logger   *slog.Logger
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// New creates an empty dispatcher.
func New(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		contexts: make(map[models.ServiceID]*contextRoutes),
		logger:   logger,
	}
}

func (d *Dispatcher) RegisterContext(_ context.Context, c *models.ContextInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.contexts[c.ID]; ok {
		return nil
	}
	d.contexts[c.ID] = &contextRoutes{
		info:      c,
		handlers:  make(map[models.ServiceID]*models.ServiceInfo),
		filters:   make(map[models.ServiceID]*models.ServiceInfo),
		resources: make(map[models.ServiceID]*models.ServiceInfo),
		owners:    make(map[string]*models.ServiceInfo),
	}
	return nil
}

// UnregisterContext drops the context along with anything still registered in it.
func (d *Dispatcher) UnregisterContext(_ context.Context, c *models.ContextInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	routes, ok := d.contexts[c.ID]
	if !ok {
		return nil
	}
	if n := len(routes.handlers) + len(routes.filters) + len(routes.resources); n > 0 {
		d.logger.Warn("context unregistered with services still attached",
			"context_id", c.ID,
			"remaining", n,
		)
	}
	delete(d.contexts, c.ID)
	return nil
}

// RegisterHandler claims the handler's patterns. A pattern already owned by a
// higher ranked handler is refused as shadowed; a lower ranked owner is
// displaced.
func (d *Dispatcher) RegisterHandler(_ context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	routes, err := d.routesFor(c)
	if err != nil {
		return err
	}
	for _, p := range svc.Patterns {
		if owner, ok := routes.owners[p]; ok && owner.ID != svc.ID && models.Less(owner, svc) {
			return ports.NewRegistrationError(models.FailureShadowedByOtherService,
				"pattern "+p+" is owned by handler "+owner.ID.String(), sentinel.ErrConflict)
		}
	}
	for _, p := range svc.Patterns {
		routes.owners[p] = svc
	}
	routes.handlers[svc.ID] = svc
	return nil
}

// UnregisterHandler releases the handler's patterns, handing each one to the
// best remaining handler that declares it.
func (d *Dispatcher) UnregisterHandler(_ context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	routes, ok := d.contexts[c.ID]
	if !ok {
		return nil
	}
	delete(routes.handlers, svc.ID)
	for _, p := range svc.Patterns {
		if owner, ok := routes.owners[p]; !ok || owner.ID != svc.ID {
			continue
		}
		delete(routes.owners, p)
		if next := routes.bestHandlerFor(p); next != nil {
			routes.owners[p] = next
		}
	}
	return nil
}

func (d *Dispatcher) RegisterFilter(_ context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	routes, err := d.routesFor(c)
	if err != nil {
		return err
	}
	routes.filters[svc.ID] = svc
	return nil
}

func (d *Dispatcher) UnregisterFilter(_ context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if routes, ok := d.contexts[c.ID]; ok {
		delete(routes.filters, svc.ID)
	}
	return nil
}

func (d *Dispatcher) RegisterResource(_ context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	routes, err := d.routesFor(c)
	if err != nil {
		return err
	}
	routes.resources[svc.ID] = svc
	return nil
}

func (d *Dispatcher) UnregisterResource(_ context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if routes, ok := d.contexts[c.ID]; ok {
		delete(routes.resources, svc.ID)
	}
	return nil
}

// Routes returns a copy of the registered state of a context.
func (d *Dispatcher) Routes(contextID models.ServiceID) (Routes, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	routes, ok := d.contexts[contextID]
	if !ok {
		return Routes{}, false
	}
	out := Routes{
		Context:   routes.info,
		Handlers:  make(map[string]models.ServiceID, len(routes.owners)),
		Filters:   sortedIDs(routes.filters),
		Resources: sortedIDs(routes.resources),
	}
	for p, owner := range routes.owners {
		out.Handlers[p] = owner.ID
	}
	return out, true
}

// Contexts lists the registered context ids in ascending order.
func (d *Dispatcher) Contexts() []models.ServiceID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]models.ServiceID, 0, len(d.contexts))
	for id := range d.contexts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (d *Dispatcher) routesFor(c *models.ContextInfo) (*contextRoutes, error) {
	routes, ok := d.contexts[c.ID]
	if !ok {
		return nil, ports.NewRegistrationError(models.FailureContextFailure,
			"context "+c.ID.String()+" is not registered", sentinel.ErrNotFound)
	}
	return routes, nil
}

func (r *contextRoutes) bestHandlerFor(pattern string) *models.ServiceInfo {
	var best *models.ServiceInfo
	for _, h := range r.handlers {
		if !slices.Contains(h.Patterns, pattern) {
			continue
		}
		if best == nil || models.Less(h, best) {
			best = h
		}
	}
	return best
}

func sortedIDs(m map[models.ServiceID]*models.ServiceInfo) []models.ServiceID {
	ids := make([]models.ServiceID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
