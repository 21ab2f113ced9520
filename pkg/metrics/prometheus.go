// Package metrics provides Prometheus metrics for the pitcrew service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every metric the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Message log
	messagesAppended  prometheus.Counter
	messagesDuplicate prometheus.Counter
	calloutsRejected  *prometheus.CounterVec

	// Live fan-out
	fanoutDelivered prometheus.Counter
	fanoutDropped   *prometheus.CounterVec
	subscribers     prometheus.Gauge
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	workerCount     prometheus.Gauge
	publishLatency  prometheus.Histogram

	// Roster and bracket scale
	contactsTotal    prometheus.Gauge
	teamsTotal       prometheus.Gauge
	membersTotal     prometheus.Gauge
	battlesTotal     prometheus.Gauge
	battlesCompleted prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps Go runtime collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitcrew",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval is how often gauges fed by polling should be updated.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.messagesAppended = m.counter("messages_appended_total", "Messages appended to team logs")
	m.messagesDuplicate = m.counter("messages_duplicate_total", "Messages dropped because their client id was already seen")
	m.calloutsRejected = m.counterVec("callouts_rejected_total", "Callouts that could not be composed", "reason")

	m.fanoutDelivered = m.counter("fanout_delivered_total", "Messages written to live subscribers")
	m.fanoutDropped = m.counterVec("fanout_dropped_total", "Live pushes that were dropped", "reason")
	m.subscribers = m.gauge("subscribers", "Open live message subscriptions")
	m.queueSize = m.gauge("queue_size", "Messages waiting for fan-out")
	m.queueCapacity = m.gauge("queue_capacity", "Fan-out queue capacity")
	m.workerCount = m.gauge("worker_count", "Fan-out workers")
	m.publishLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_latency_milliseconds",
		Help:      "Time from dequeue to hand-off to the hub",
		Buckets:   m.histogramBuckets,
	})

	m.contactsTotal = m.gauge("contacts", "Contacts in the directory")
	m.teamsTotal = m.gauge("teams", "Teams in the roster")
	m.membersTotal = m.gauge("team_members", "Member rows across all teams")
	m.battlesTotal = m.gauge("battles", "Battles in the bracket")
	m.battlesCompleted = m.counter("battles_completed_total", "Winners recorded on battles")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	})
}

// RecordMessageAppended increments the appended messages counter.
func RecordMessageAppended() { globalManager.messagesAppended.Inc() }

// RecordMessageDuplicate increments the duplicate messages counter.
func RecordMessageDuplicate() { globalManager.messagesDuplicate.Inc() }

// RecordCalloutRejected counts a callout that failed to compose.
func RecordCalloutRejected(reason string) {
	globalManager.calloutsRejected.WithLabelValues(reason).Inc()
}

// RecordFanoutDelivered counts a message written to one subscriber.
func RecordFanoutDelivered() { globalManager.fanoutDelivered.Inc() }

// RecordFanoutDropped counts a live push that never reached a subscriber.
func RecordFanoutDropped(reason string) {
	globalManager.fanoutDropped.WithLabelValues(reason).Inc()
}

// UpdateSubscribers sets the open subscription gauge.
func UpdateSubscribers(n int) { globalManager.subscribers.Set(float64(n)) }

// UpdateQueueSize sets the current fan-out backlog.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the fan-out queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// UpdateWorkerCount sets the fan-out worker gauge.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordPublishLatency observes a publish latency in milliseconds.
func RecordPublishLatency(ms float64) { globalManager.publishLatency.Observe(ms) }

// UpdateContacts sets the contact gauge.
func UpdateContacts(n int) { globalManager.contactsTotal.Set(float64(n)) }

// UpdateTeams sets the team gauge.
func UpdateTeams(n int) { globalManager.teamsTotal.Set(float64(n)) }

// UpdateMembers sets the member row gauge.
func UpdateMembers(n int) { globalManager.membersTotal.Set(float64(n)) }

// UpdateBattles sets the battle gauge.
func UpdateBattles(n int) { globalManager.battlesTotal.Set(float64(n)) }

// RecordBattleCompleted counts a recorded winner.
func RecordBattleCompleted() { globalManager.battlesCompleted.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent counts an internal error.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }

// RecordSystemGCPauseTime observes the average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) { globalManager.systemGCPauseTime.Observe(ms) }
