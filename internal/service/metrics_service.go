package service

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/college-registry/internal/models"
)

// MetricsSnapshot is a point-in-time summary of registry activity.
type MetricsSnapshot struct {
	EnrollmentsCreated  uint64  `json:"enrollments_created"`
	EnrollmentsRejected uint64  `json:"enrollments_rejected"`
	ScoreUpdates        uint64  `json:"score_updates"`
	ScoreEvents         uint64  `json:"score_events"`
	NotifyFailures      uint64  `json:"notify_failures"`
	ReportsGenerated    uint64  `json:"reports_generated"`
	AvgReportRunMs      float64 `json:"avg_report_run_ms"`
}

// MetricsService encapsulates Prometheus instrumentation for the registry
// and keeps cheap counters for snapshots.
type MetricsService struct {
	registry         *prometheus.Registry
	entities         *prometheus.GaugeVec
	enrollments      *prometheus.CounterVec
	scoreUpdates     *prometheus.CounterVec
	scoreEvents      *prometheus.CounterVec
	scoreValues      prometheus.Histogram
	notifyFailures   prometheus.Counter
	reportDuration   prometheus.Histogram
	reportsGenerated prometheus.Counter

	enrollCreated   uint64
	enrollRejected  uint64
	updateCount     uint64
	eventCount      uint64
	notifyFailCount uint64
	reportCount     uint64
	reportRuns      uint64
	reportRunTotal  uint64
}

// NewMetricsService registers the registry collectors on a private
// Prometheus registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	entities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "registry_entities",
		Help: "Number of registered entities by kind",
	}, []string{"kind"})

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_enrollments_total",
		Help: "Enrollment attempts by outcome",
	}, []string{"result"})

	scoreUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_score_updates_total",
		Help: "Score update attempts by outcome",
	}, []string{"result"})

	scoreEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_score_events_total",
		Help: "Score events observed by kind",
	}, []string{"kind"})

	scoreValues := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "registry_score_values",
		Help:    "Distribution of recorded scores",
		Buckets: prometheus.LinearBuckets(10, 10, 10),
	})

	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "registry_notify_failures_total",
		Help: "Notifications where at least one observer failed",
	})

	reportDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "registry_report_run_seconds",
		Help:    "Duration of report generation runs",
		Buckets: prometheus.DefBuckets,
	})

	reportsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "registry_reports_generated_total",
		Help: "Total student reports rendered",
	})

	registry.MustRegister(entities, enrollments, scoreUpdates, scoreEvents, scoreValues, notifyFailures, reportDuration, reportsGenerated)

	return &MetricsService{
		registry:         registry,
		entities:         entities,
		enrollments:      enrollments,
		scoreUpdates:     scoreUpdates,
		scoreEvents:      scoreEvents,
		scoreValues:      scoreValues,
		notifyFailures:   notifyFailures,
		reportDuration:   reportDuration,
		reportsGenerated: reportsGenerated,
	}
}

// SetEntityCount records the current number of entities of kind.
func (m *MetricsService) SetEntityCount(kind string, n int) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(kind).Set(float64(n))
}

// ObserveEnrollment counts an enrollment attempt.
func (m *MetricsService) ObserveEnrollment(result models.EnrollResult) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(result.String()).Inc()
	switch result {
	case models.EnrollCreated:
		atomic.AddUint64(&m.enrollCreated, 1)
	case models.EnrollCourseFull:
		atomic.AddUint64(&m.enrollRejected, 1)
	}
}

// ObserveScoreUpdate counts a score update attempt by outcome label.
func (m *MetricsService) ObserveScoreUpdate(result string) {
	if m == nil {
		return
	}
	m.scoreUpdates.WithLabelValues(result).Inc()
	atomic.AddUint64(&m.updateCount, 1)
}

// ObserveScoreEvent records an event seen by a metrics observer.
func (m *MetricsService) ObserveScoreEvent(event models.ScoreEvent) {
	if m == nil {
		return
	}
	kind := "score"
	if event.IsEnrollment() {
		kind = "enrollment"
	}
	m.scoreEvents.WithLabelValues(kind).Inc()
	if event.New != nil {
		m.scoreValues.Observe(*event.New)
	}
	atomic.AddUint64(&m.eventCount, 1)
}

// ObserveNotifyFailure counts a notification that reported errors.
func (m *MetricsService) ObserveNotifyFailure() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
	atomic.AddUint64(&m.notifyFailCount, 1)
}

// ObserveReportRun records a completed report run.
func (m *MetricsService) ObserveReportRun(reports int, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.Observe(duration.Seconds())
	m.reportsGenerated.Add(float64(reports))
	atomic.AddUint64(&m.reportCount, uint64(reports))
	atomic.AddUint64(&m.reportRuns, 1)
	atomic.AddUint64(&m.reportRunTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	runs := atomic.LoadUint64(&m.reportRuns)
	total := atomic.LoadUint64(&m.reportRunTotal)

	var avgRunMs float64
	if runs > 0 {
		avgRunMs = float64(total) / float64(runs) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		EnrollmentsCreated:  atomic.LoadUint64(&m.enrollCreated),
		EnrollmentsRejected: atomic.LoadUint64(&m.enrollRejected),
		ScoreUpdates:        atomic.LoadUint64(&m.updateCount),
		ScoreEvents:         atomic.LoadUint64(&m.eventCount),
		NotifyFailures:      atomic.LoadUint64(&m.notifyFailCount),
		ReportsGenerated:    atomic.LoadUint64(&m.reportCount),
		AvgReportRunMs:      avgRunMs,
	}
}
