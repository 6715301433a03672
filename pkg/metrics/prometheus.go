// Package metrics provides Prometheus metrics for the velocity game core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the game core.
type Manager struct {
	namespace     string
	subsystem     string
	offsetBuckets []float64
	latencyBucket []float64
	constLabels   map[string]string
	registry      prometheus.Registerer

	// Gameplay
	tapsJudged    *prometheus.CounterVec
	tapOffset     prometheus.Histogram
	beatsReported prometheus.Counter
	tempoChanges  prometheus.Counter
	highScores    prometheus.Counter
	sessions      prometheus.Counter

	// Live session state
	tempo      prometheus.Gauge
	streak     prometheus.Gauge
	score      prometheus.Gauge
	multiplier prometheus.Gauge

	// Feedback dispatch
	feedbackEnqueued *prometheus.CounterVec
	feedbackDropped  *prometheus.CounterVec
	feedbackPlayed   *prometheus.CounterVec
	feedbackErrors   prometheus.Counter
	feedbackLatency  prometheus.Histogram
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	workerCount      prometheus.Gauge

	// Stats persistence
	storeErrors  *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:     "velocity",
		subsystem:     "core",
		offsetBuckets: []float64{-200, -120, -80, -50, -25, -10, 0, 10, 25, 50, 80, 120, 200},
		latencyBucket: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		constLabels:   map[string]string{},
		registry:      prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.tapsJudged = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "taps_judged_total",
		Help:        "Total number of taps judged, by result",
		ConstLabels: labels,
	}, []string{"result"})

	m.tapOffset = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tap_offset_milliseconds",
		Help:        "Signed tap offset from the target beat in milliseconds (negative is early)",
		Buckets:     m.offsetBuckets,
		ConstLabels: labels,
	})

	m.beatsReported = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "beats_total",
		Help:        "Total number of beat boundaries reported by the clock",
		ConstLabels: labels,
	})

	m.tempoChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tempo_changes_total",
		Help:        "Total number of tempo changes applied to the clock",
		ConstLabels: labels,
	})

	m.highScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "high_scores_total",
		Help:        "Total number of sessions that beat the persisted high score",
		ConstLabels: labels,
	})

	m.sessions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sessions_started_total",
		Help:        "Total number of sessions started",
		ConstLabels: labels,
	})

	m.tempo = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tempo_bpm",
		Help:        "Current clock tempo in beats per minute",
		ConstLabels: labels,
	})

	m.streak = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "streak",
		Help:        "Current streak of consecutive non-miss taps",
		ConstLabels: labels,
	})

	m.score = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score",
		Help:        "Current session score",
		ConstLabels: labels,
	})

	m.multiplier = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "multiplier",
		Help:        "Current score multiplier",
		ConstLabels: labels,
	})

	m.feedbackEnqueued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_enqueued_total",
		Help:        "Total number of feedback cues accepted by the dispatch queue",
		ConstLabels: labels,
	}, []string{"cue"})

	m.feedbackDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_dropped_total",
		Help:        "Total number of feedback cues dropped, by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.feedbackPlayed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_played_total",
		Help:        "Total number of feedback cues handed to a player",
		ConstLabels: labels,
	}, []string{"cue"})

	m.feedbackErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_errors_total",
		Help:        "Total number of feedback playback errors",
		ConstLabels: labels,
	})

	m.feedbackLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_latency_milliseconds",
		Help:        "Time from enqueue to playback start in milliseconds",
		Buckets:     m.latencyBucket,
		ConstLabels: labels,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_queue_size",
		Help:        "Current number of queued feedback cues",
		ConstLabels: labels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_queue_capacity",
		Help:        "Maximum feedback queue capacity",
		ConstLabels: labels,
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feedback_worker_count",
		Help:        "Number of feedback playback workers",
		ConstLabels: labels,
	})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stats_store_errors_total",
		Help:        "Total number of swallowed stats persistence errors, by operation",
		ConstLabels: labels,
	}, []string{"op"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stats_store_latency_milliseconds",
		Help:        "Stats persistence latency in milliseconds, by operation",
		Buckets:     m.latencyBucket,
		ConstLabels: labels,
	}, []string{"op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBucket,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Current heap allocation in bytes",
		ConstLabels: labels,
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Current number of goroutines",
		ConstLabels: labels,
	})

	m.gcPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average garbage collection pause in milliseconds",
		Buckets:     m.latencyBucket,
		ConstLabels: labels,
	})
}

// RecordTap counts a judged tap and observes its signed offset.
func RecordTap(result string, offsetMs float64) {
	globalManager.tapsJudged.WithLabelValues(result).Inc()
	globalManager.tapOffset.Observe(offsetMs)
}

// RecordBeat increments the beats counter.
func RecordBeat() {
	globalManager.beatsReported.Inc()
}

// RecordTempoChange counts a tempo change and publishes the new tempo.
func RecordTempoChange(bpm float64) {
	globalManager.tempoChanges.Inc()
	globalManager.tempo.Set(bpm)
}

// RecordHighScore counts a session that crossed the persisted high score.
func RecordHighScore() {
	globalManager.highScores.Inc()
}

// RecordSessionStarted counts a started session.
func RecordSessionStarted() {
	globalManager.sessions.Inc()
}

// UpdateSession publishes the live session gauges.
func UpdateSession(tempo float64, streak, score, multiplier int) {
	globalManager.tempo.Set(tempo)
	globalManager.streak.Set(float64(streak))
	globalManager.score.Set(float64(score))
	globalManager.multiplier.Set(float64(multiplier))
}

// RecordFeedbackEnqueued counts a cue accepted by the dispatch queue.
func RecordFeedbackEnqueued(cue string) {
	globalManager.feedbackEnqueued.WithLabelValues(cue).Inc()
}

// RecordFeedbackDropped counts a cue that never reached a player.
func RecordFeedbackDropped(reason string) {
	globalManager.feedbackDropped.WithLabelValues(reason).Inc()
}

// RecordFeedbackPlayed counts a cue handed to a player and its queueing latency.
func RecordFeedbackPlayed(cue string, latencyMs float64) {
	globalManager.feedbackPlayed.WithLabelValues(cue).Inc()
	globalManager.feedbackLatency.Observe(latencyMs)
}

// RecordFeedbackError increments the playback error counter.
func RecordFeedbackError() {
	globalManager.feedbackErrors.Inc()
}

// UpdateQueueSize sets the current feedback queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the feedback queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordStoreError counts a swallowed persistence failure.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordStoreLatency observes the latency of one persistence call.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.gcPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
