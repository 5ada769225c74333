package registry

import (
	"maps"

	"whiteboard/internal/whiteboard/runtime"
)

// Snapshot returns a consistent report of active contexts, their wirings and
// every failure record. The traversal holds the registry lock; the report is a
// plain copy the caller may encode at leisure.
func (m *Manager) Snapshot() runtime.Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := runtime.Report{
		GeneratedAt:       m.now().UTC(),
		RuntimeAttributes: m.runtime.Attributes(),
		Contexts:          []runtime.ContextReport{},
		Failures:          []runtime.FailureReport{},
	}
	for _, entry := range m.contexts.active() {
		c := entry.info
		cr := runtime.ContextReport{
			ID:         c.ID,
			Name:       c.Name,
			Path:       c.Path,
			Rank:       c.Rank,
			Attributes: maps.Clone(c.Attributes),
		}
		for _, s := range m.services.wiredTo(entry) {
			cr.Add(runtime.NewServiceRef(s.info))
		}
		report.Contexts = append(report.Contexts, cr)
	}
	for _, f := range m.failures.Snapshot() {
		report.Failures = append(report.Failures, runtime.FailureReport{
			ID:         f.ID,
			Kind:       f.Kind,
			Name:       f.Name,
			Reason:     f.Reason,
			ReasonCode: int(f.Reason),
		})
	}
	return report
}
