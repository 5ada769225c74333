// Package ports defines the collaborators the registry drives. Implementations
// must be fast, must not block, and must never call back into the registry:
// every method is invoked while the registry lock is held.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"whiteboard/internal/whiteboard/events"
	"whiteboard/internal/whiteboard/models"
)

// Dispatcher wires contexts and their request-path services into the routing
// layer. Returning a *RegistrationError records its reason on the declaration;
// any other error is recorded as UNKNOWN and surfaced to the caller.
type Dispatcher interface {
	// RegisterContext makes routes under c reachable.
	RegisterContext(ctx context.Context, c *models.ContextInfo) error

	// UnregisterContext removes c from the routing path.
	UnregisterContext(ctx context.Context, c *models.ContextInfo) error

	RegisterHandler(ctx context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error
	UnregisterHandler(ctx context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error

	RegisterFilter(ctx context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error
	UnregisterFilter(ctx context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error

	RegisterResource(ctx context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error
	UnregisterResource(ctx context.Context, c *models.ContextInfo, svc *models.ServiceInfo) error
}

// LifecycleNotifier delivers context lifecycle callbacks and keeps the
// per-context listener sets for every other listener kind.
type LifecycleNotifier interface {
	// ContextInitialized tells a lifecycle listener that c is ready.
	ContextInitialized(ctx context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error

	// ContextDestroyed tells a lifecycle listener that c is going away.
	ContextDestroyed(ctx context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error

	// AddListener attaches a non-lifecycle listener to c. The kind is listener.Kind.
	AddListener(ctx context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error

	// RemoveListener detaches a non-lifecycle listener from c.
	RemoveListener(ctx context.Context, listener *models.ServiceInfo, c *models.ContextInfo) error
}

// RuntimeIdentity exposes the attributes target filters are evaluated against.
type RuntimeIdentity interface {
	Attributes() map[string]any
}

// EventPublisher receives registry transitions. Publish must not block.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

// StaticRuntime is a RuntimeIdentity with a fixed attribute set.
type StaticRuntime map[string]any

// Attributes returns a copy of the attribute set.
func (r StaticRuntime) Attributes() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
