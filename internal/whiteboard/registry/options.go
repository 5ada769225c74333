package registry

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"whiteboard/internal/whiteboard/matcher"
	"whiteboard/internal/whiteboard/metrics"
	"whiteboard/internal/whiteboard/ports"
)

type Option func(m *Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithEventPublisher streams lifecycle transitions to publisher.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(m *Manager) {
		m.events = publisher
	}
}

// WithMatcher shares a predicate matcher (and its compiled-filter cache).
func WithMatcher(matcher *matcher.Matcher) Option {
	return func(m *Manager) {
		m.matcher = matcher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}
