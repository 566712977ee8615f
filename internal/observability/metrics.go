package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the notification
// pipeline.
type Metrics struct {
	// Ingestion metrics.
	RecordsFetched   prometheus.Counter
	EventsIngested   prometheus.Counter
	EventsDuplicate  prometheus.Counter
	IngestionErrors  prometheus.Counter
	IngestionRuns    *prometheus.CounterVec // labels: trigger={scheduled,manual}, outcome={ok,error}
	IngestionLatency prometheus.Histogram

	// Broadcast metrics.
	MessagesSent      *prometheus.CounterVec // labels: channel={events,alerts}
	MessagesFiltered  *prometheus.CounterVec // labels: channel, reason={magnitude,age,throttle,rate_limit}
	MessagesOversized prometheus.Counter
	SendFailures      prometheus.Counter

	// Connection metrics.
	ActiveConnections prometheus.Gauge

	// Scheduler metrics.
	MissedFires prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "feed_records_fetched_total",
			Help:      "Total raw records fetched from the external feed.",
		}),
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "events_ingested_total",
			Help:      "Total new earthquakes persisted.",
		}),
		EventsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "events_duplicate_total",
			Help:      "Total records skipped because their external id was already persisted.",
		}),
		IngestionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "ingestion_errors_total",
			Help:      "Total per-record ingestion failures.",
		}),
		IngestionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "ingestion_runs_total",
			Help:      "Ingestion runs by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		IngestionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndgms",
			Name:      "ingestion_run_duration_seconds",
			Help:      "Duration of a complete ingestion run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "ws_messages_sent_total",
			Help:      "Notifications delivered to subscribers by channel.",
		}, []string{"channel"}),
		MessagesFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "ws_messages_filtered_total",
			Help:      "Notifications withheld from subscribers by channel and reason.",
		}, []string{"channel", "reason"}),
		MessagesOversized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "ws_messages_oversized_total",
			Help:      "Payloads replaced by a size-error notice before sending.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "ws_send_failures_total",
			Help:      "Failed sends that caused a subscriber eviction.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ndgms",
			Name:      "ws_active_connections",
			Help:      "Currently registered WebSocket connections.",
		}),
		MissedFires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndgms",
			Name:      "scheduler_missed_fires_total",
			Help:      "Scheduled fires skipped because they exceeded the misfire grace window.",
		}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsFetched,
		m.EventsIngested,
		m.EventsDuplicate,
		m.IngestionErrors,
		m.IngestionRuns,
		m.IngestionLatency,
		m.MessagesSent,
		m.MessagesFiltered,
		m.MessagesOversized,
		m.SendFailures,
		m.ActiveConnections,
		m.MissedFires,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
