// Package runtime holds the point-in-time registry report served to
// introspection consumers. Reports are plain copies and safe to retain.
package runtime

import (
	"time"

	"whiteboard/internal/whiteboard/models"
)

// Report is a consistent view of active contexts, their wirings and every
// recorded failure.
type Report struct {
	GeneratedAt       time.Time       `json:"generated_at"`
	RuntimeAttributes map[string]any  `json:"runtime_attributes"`
	Contexts          []ContextReport `json:"contexts"`
	Failures          []FailureReport `json:"failures"`
}

// ContextReport describes one active context and the services wired to it.
type ContextReport struct {
	ID         models.ServiceID `json:"id"`
	Name       string           `json:"name"`
	Path       string           `json:"path"`
	Rank       int              `json:"rank"`
	Attributes map[string]any   `json:"attributes,omitempty"`
	Handlers   []ServiceRef     `json:"handlers"`
	Filters    []ServiceRef     `json:"filters"`
	Resources  []ServiceRef     `json:"resources"`
	Listeners  []ServiceRef     `json:"listeners"`
}

// ServiceRef is the reported shape of a wired service.
type ServiceRef struct {
	ID       models.ServiceID `json:"id"`
	Rank     int              `json:"rank"`
	Kind     models.Kind      `json:"kind"`
	Name     string           `json:"name,omitempty"`
	Patterns []string         `json:"patterns,omitempty"`
}

// FailureReport is one failed declaration.
type FailureReport struct {
	ID         models.ServiceID     `json:"id"`
	Kind       string               `json:"kind"`
	Name       string               `json:"name,omitempty"`
	Reason     models.FailureReason `json:"reason"`
	ReasonCode int                  `json:"reason_code"`
}

// NewServiceRef copies the reported fields of svc.
func NewServiceRef(svc *models.ServiceInfo) ServiceRef {
	ref := ServiceRef{
		ID:   svc.ID,
		Rank: svc.Rank,
		Kind: svc.Kind,
		Name: svc.Name,
	}
	if len(svc.Patterns) > 0 {
		ref.Patterns = append([]string(nil), svc.Patterns...)
	}
	return ref
}

// Add files ref under the list matching its kind.
func (c *ContextReport) Add(ref ServiceRef) {
	switch ref.Kind {
	case models.KindHandler:
		c.Handlers = append(c.Handlers, ref)
	case models.KindFilter:
		c.Filters = append(c.Filters, ref)
	case models.KindResource:
		c.Resources = append(c.Resources, ref)
	case models.KindContextAttributeListener,
		models.KindSessionListener,
		models.KindSessionAttributeListener,
		models.KindRequestListener,
		models.KindRequestAttributeListener,
		models.KindContextLifecycleListener:
		c.Listeners = append(c.Listeners, ref)
	}
}

// Context returns the report of the active context with the given id.
func (r *Report) Context(id models.ServiceID) (ContextReport, bool) {
	for _, c := range r.Contexts {
		if c.ID == id {
			return c, true
		}
	}
	return ContextReport{}, false
}

// FailuresByKind groups failures by declaration kind, keeping report order
// within each group.
func (r *Report) FailuresByKind() map[string][]FailureReport {
	out := make(map[string][]FailureReport)
	for _, f := range r.Failures {
		out[f.Kind] = append(out[f.Kind], f)
	}
	return out
}
