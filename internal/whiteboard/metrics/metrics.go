package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"whiteboard/internal/whiteboard/models"
)

// Metrics provides observability for the registry.
// Tracks reconciliation durations, the active/wired population and failure churn.
type Metrics struct {
	OperationDuration  *prometheus.HistogramVec
	ActiveContexts     prometheus.Gauge
	Wirings            prometheus.Gauge
	FailuresRecorded   *prometheus.CounterVec
	FailuresCleared    prometheus.Counter
	CollaboratorErrors *prometheus.CounterVec
	EventsDropped      prometheus.Counter
}

// New creates a Metrics instance registered with reg. A nil reg leaves the
// collectors unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whiteboard_operation_duration_seconds",
			Help:    "Duration of registry reconciliation operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
		ActiveContexts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "whiteboard_active_contexts",
			Help: "Number of contexts currently active (heads of their name group)",
		}),
		Wirings: factory.NewGauge(prometheus.GaugeOpts{
			Name: "whiteboard_wirings",
			Help: "Number of service-to-context wirings currently registered",
		}),
		FailuresRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whiteboard_failures_recorded_total",
			Help: "Total number of failure records written, by reason",
		}, []string{"reason"}),
		FailuresCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "whiteboard_failures_cleared_total",
			Help: "Total number of failure records cleared",
		}),
		CollaboratorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whiteboard_collaborator_errors_total",
			Help: "Total number of errors returned by dispatcher and notifier calls",
		}, []string{"call"}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "whiteboard_events_dropped_total",
			Help: "Total number of lifecycle events dropped because the event buffer was full",
		}),
	}
}

// ObserveOperation records the duration of a registry operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SetPopulation publishes the current number of active contexts and wirings.
func (m *Metrics) SetPopulation(activeContexts, wirings int) {
	m.ActiveContexts.Set(float64(activeContexts))
	m.Wirings.Set(float64(wirings))
}

// IncrementFailureRecorded counts a failure record for reason.
func (m *Metrics) IncrementFailureRecorded(reason models.FailureReason) {
	m.FailuresRecorded.WithLabelValues(reason.String()).Inc()
}

// IncrementFailureCleared counts a removed failure record.
func (m *Metrics) IncrementFailureCleared() {
	m.FailuresCleared.Inc()
}

// IncrementCollaboratorError counts a failed collaborator call.
func (m *Metrics) IncrementCollaboratorError(call string) {
	m.CollaboratorErrors.WithLabelValues(call).Inc()
}

// IncrementEventsDropped counts an event the bus could not buffer.
func (m *Metrics) IncrementEventsDropped() {
	m.EventsDropped.Inc()
}
