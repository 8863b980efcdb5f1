package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "argvision"

// Metrics holds the collectors recorded by the API and background workers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions          *prometheus.CounterVec
	transitionRejections *prometheus.CounterVec
	notifications        *prometheus.CounterVec
	notificationQueue    prometheus.Gauge
	outboxPublished      *prometheus.CounterVec
	outboxFailures       *prometheus.CounterVec
	outboxBatchDuration  prometheus.Histogram
	realtimeClients      *prometheus.GaugeVec
	httpDuration         *prometheus.HistogramVec
}

// New registers the service collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Committed state transitions by entity and action.",
		}, []string{"entity", "action"}),
		transitionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transition_rejections_total",
			Help:      "Rejected state transitions by entity, action and error code.",
		}, []string{"entity", "action", "code"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications by delivery outcome.",
		}, []string{"outcome"}),
		notificationQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_queue_depth",
			Help:      "Notifications waiting for a dispatcher worker.",
		}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox events relayed to realtime rooms.",
		}, []string{"event_type"}),
		outboxFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_failures_total",
			Help:      "Outbox publish failures by kind (retry or terminal).",
		}, []string{"kind"}),
		outboxBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_batch_duration_seconds",
			Help:      "Duration of outbox publish batches.",
			Buckets:   prometheus.DefBuckets,
		}),
		realtimeClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_clients",
			Help:      "Connected websocket clients by stream.",
		}, []string{"stream"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status class.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.transitions,
		m.transitionRejections,
		m.notifications,
		m.notificationQueue,
		m.outboxPublished,
		m.outboxFailures,
		m.outboxBatchDuration,
		m.realtimeClients,
		m.httpDuration,
	)
	return m
}

// IncTransition counts a committed transition such as ("membership", "accept").
func (m *Metrics) IncTransition(entity, action string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(entity), normalizeLabel(action)).Inc()
}

// IncTransitionRejected counts a transition refused with the given error code.
func (m *Metrics) IncTransitionRejected(entity, action, code string) {
	if m == nil || m.transitionRejections == nil {
		return
	}
	m.transitionRejections.WithLabelValues(normalizeLabel(entity), normalizeLabel(action), normalizeLabel(code)).Inc()
}

// IncNotification counts a notification outcome: delivered, dropped or failed.
func (m *Metrics) IncNotification(outcome string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// SetNotificationQueueDepth reports the dispatcher backlog.
func (m *Metrics) SetNotificationQueueDepth(depth int) {
	if m == nil || m.notificationQueue == nil {
		return
	}
	m.notificationQueue.Set(float64(depth))
}

// IncOutboxPublished counts a relayed outbox event.
func (m *Metrics) IncOutboxPublished(eventType string) {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncOutboxFailure counts a failed relay attempt.
func (m *Metrics) IncOutboxFailure(kind string) {
	if m == nil || m.outboxFailures == nil {
		return
	}
	m.outboxFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}

// ObserveOutboxBatch records the duration of one publish batch.
func (m *Metrics) ObserveOutboxBatch(duration time.Duration) {
	if m == nil || m.outboxBatchDuration == nil {
		return
	}
	m.outboxBatchDuration.Observe(duration.Seconds())
}

// AddRealtimeClients adjusts the connected client gauge for a stream.
func (m *Metrics) AddRealtimeClients(stream string, delta int) {
	if m == nil || m.realtimeClients == nil {
		return
	}
	m.realtimeClients.WithLabelValues(normalizeLabel(stream)).Add(float64(delta))
}

// ObserveHTTP records the latency of one request.
func (m *Metrics) ObserveHTTP(method, route, status string, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
