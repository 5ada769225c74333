package registry

import (
	"context"
	"fmt"

	"whiteboard/internal/whiteboard/models"
	"whiteboard/pkg/platform/sentinel"
)

// register hands svc to the collaborator responsible for its kind and returns
// the call name used in logs and metrics.
func (m *Manager) register(ctx context.Context, svc *models.ServiceInfo, c *models.ContextInfo) (string, error) {
	switch svc.Kind {
	case models.KindHandler:
		return "register_handler", m.dispatcher.RegisterHandler(ctx, c, svc)
	case models.KindFilter:
		return "register_filter", m.dispatcher.RegisterFilter(ctx, c, svc)
	case models.KindResource:
		return "register_resource", m.dispatcher.RegisterResource(ctx, c, svc)
	case models.KindContextAttributeListener,
		models.KindSessionListener,
		models.KindSessionAttributeListener,
		models.KindRequestListener,
		models.KindRequestAttributeListener:
		return "add_listener", m.notifier.AddListener(ctx, svc, c)
	case models.KindContextLifecycleListener:
		return "context_initialized", m.notifier.ContextInitialized(ctx, svc, c)
	}
	return "register", fmt.Errorf("register %s: %w", svc.Kind, sentinel.ErrInvalidState)
}

func (m *Manager) unregister(ctx context.Context, svc *models.ServiceInfo, c *models.ContextInfo) (string, error) {
	switch svc.Kind {
	case models.KindHandler:
		return "unregister_handler", m.dispatcher.UnregisterHandler(ctx, c, svc)
	case models.KindFilter:
		return "unregister_filter", m.dispatcher.UnregisterFilter(ctx, c, svc)
	case models.KindResource:
		return "unregister_resource", m.dispatcher.UnregisterResource(ctx, c, svc)
	case models.KindContextAttributeListener,
		models.KindSessionListener,
		models.KindSessionAttributeListener,
		models.KindRequestListener,
		models.KindRequestAttributeListener:
		return "remove_listener", m.notifier.RemoveListener(ctx, svc, c)
	case models.KindContextLifecycleListener:
		return "context_destroyed", m.notifier.ContextDestroyed(ctx, svc, c)
	}
	return "unregister", fmt.Errorf("unregister %s: %w", svc.Kind, sentinel.ErrInvalidState)
}
