// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_interview"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Catalogue metrics
	CatalogueSize prometheus.Gauge

	// Session provisioning metrics
	SessionsProvisioned prometheus.Counter
	ProvisionFailures   *prometheus.CounterVec
	ProvisionLatency    prometheus.Histogram

	// Scoring metrics
	ScoringTotal   *prometheus.CounterVec
	ScoringLatency prometheus.Histogram

	// Client-side interview metrics
	InterviewsStarted  prometheus.Counter
	InterviewsEnded    prometheus.Counter
	TranscriptSegments prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),

		// Catalogue metrics
		CatalogueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prompt_catalogue_size",
			Help:      "Number of prompts in the loaded catalogue",
		}),

		// Session provisioning metrics
		SessionsProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_provisioned_total",
			Help:      "Total number of interview sessions provisioned",
		}),
		ProvisionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provision_failures_total",
			Help:      "Total number of failed provisioning attempts",
		}, []string{"reason"}),
		ProvisionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provision_latency_seconds",
			Help:      "Session provisioning latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		// Scoring metrics
		ScoringTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_requests_total",
			Help:      "Total number of transcript scoring requests by outcome",
		}, []string{"outcome"}),
		ScoringLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_latency_seconds",
			Help:      "Transcript scoring latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		// Client-side interview metrics
		InterviewsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_started_total",
			Help:      "Total number of interviews started",
		}),
		InterviewsEnded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_ended_total",
			Help:      "Total number of interviews that reached the ended state",
		}),
		TranscriptSegments: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcript_segments_total",
			Help:      "Total number of transcript segments accumulated",
		}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, latencySeconds float64) {
	m.HTTPRequests.WithLabelValues(route, status).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(latencySeconds)
}

// SetCatalogueSize records the size of the loaded prompt catalogue.
func (m *Metrics) SetCatalogueSize(n int) {
	m.CatalogueSize.Set(float64(n))
}

// RecordProvision records a session provisioning attempt.
func (m *Metrics) RecordProvision(err error, reason string, latencySeconds float64) {
	m.ProvisionLatency.Observe(latencySeconds)
	if err != nil {
		m.ProvisionFailures.WithLabelValues(reason).Inc()
		return
	}
	m.SessionsProvisioned.Inc()
}

// RecordScoring records a transcript scoring attempt.
func (m *Metrics) RecordScoring(outcome string, latencySeconds float64) {
	m.ScoringTotal.WithLabelValues(outcome).Inc()
	m.ScoringLatency.Observe(latencySeconds)
}

// RecordInterviewStarted records an interview entering the live state.
func (m *Metrics) RecordInterviewStarted() {
	m.InterviewsStarted.Inc()
}

// RecordInterviewEnded records an interview reaching the ended state.
func (m *Metrics) RecordInterviewEnded() {
	m.InterviewsEnded.Inc()
}

// RecordTranscriptSegment records one accumulated transcript segment.
func (m *Metrics) RecordTranscriptSegment() {
	m.TranscriptSegments.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
