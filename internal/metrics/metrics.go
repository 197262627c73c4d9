// Package metrics exposes Prometheus instrumentation for recording sessions.
//
// All methods are safe to call on a nil *Metrics, so components can take an
// optional metrics sink without nil checks at every call site.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector of a session.
type Metrics struct {
	registry *prometheus.Registry

	// Capture metrics
	ChunksCaptured   prometheus.Counter
	SilentChunks     prometheus.Counter
	SegmentsClosed   *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
	CapturedDuration prometheus.Counter

	// Writer metrics
	SegmentsWritten   prometheus.Counter
	SegmentsDiscarded prometheus.Counter
	WriteFailures     prometheus.Counter
	SegmentDuration   prometheus.Histogram

	// Transcription metrics
	TranscriptionRequests prometheus.Counter
	TranscriptionFailures prometheus.Counter
	TranscriptionDropped  prometheus.Counter
}

// New creates all collectors and registers them on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ChunksCaptured: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_chunks_captured_total",
			Help: "Total number of capture ticks read from the device",
		}),
		SilentChunks: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_chunks_silent_total",
			Help: "Total number of capture ticks classified as silence",
		}),
		SegmentsClosed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "segrec_segments_closed_total",
			Help: "Total number of segments closed, by boundary reason",
		}, []string{"reason"}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "segrec_queue_depth",
			Help: "Closed segments waiting for the writer",
		}),
		CapturedDuration: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_captured_seconds_total",
			Help: "Total audio captured in seconds",
		}),

		SegmentsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_segments_written_total",
			Help: "Total number of segments saved to disk",
		}),
		SegmentsDiscarded: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_segments_discarded_total",
			Help: "Total number of segments dropped as silence",
		}),
		WriteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_write_failures_total",
			Help: "Total number of segments that failed to save",
		}),
		SegmentDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "segrec_segment_duration_seconds",
			Help:    "Audio duration of saved segments",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to ~1 minute
		}),

		TranscriptionRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_transcription_requests_total",
			Help: "Total number of transcription requests sent",
		}),
		TranscriptionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_transcription_failures_total",
			Help: "Total number of failed transcription requests",
		}),
		TranscriptionDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "segrec_transcription_dropped_total",
			Help: "Saved segments not transcribed because the backlog was full",
		}),
	}
}

// Registry returns the registry holding the session's collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordChunk records one capture tick.
func (m *Metrics) RecordChunk(d time.Duration, silent bool) {
	if m == nil {
		return
	}
	m.ChunksCaptured.Inc()
	m.CapturedDuration.Add(d.Seconds())
	if silent {
		m.SilentChunks.Inc()
	}
}

// RecordClosed records a segment boundary with its reason label.
func (m *Metrics) RecordClosed(reason string) {
	if m == nil {
		return
	}
	m.SegmentsClosed.WithLabelValues(reason).Inc()
}

// SetQueueDepth reports the number of queued segments.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// RecordWritten records a saved segment of duration d.
func (m *Metrics) RecordWritten(d time.Duration) {
	if m == nil {
		return
	}
	m.SegmentsWritten.Inc()
	m.SegmentDuration.Observe(d.Seconds())
}

// RecordDiscarded records a segment dropped as silence.
func (m *Metrics) RecordDiscarded() {
	if m == nil {
		return
	}
	m.SegmentsDiscarded.Inc()
}

// RecordWriteFailure records a segment that could not be saved.
func (m *Metrics) RecordWriteFailure() {
	if m == nil {
		return
	}
	m.WriteFailures.Inc()
}

// RecordTranscription records a transcription attempt and its outcome.
func (m *Metrics) RecordTranscription(err error) {
	if m == nil {
		return
	}
	m.TranscriptionRequests.Inc()
	if err != nil {
		m.TranscriptionFailures.Inc()
	}
}

// RecordTranscriptionDropped records a transcription skipped on backpressure.
func (m *Metrics) RecordTranscriptionDropped() {
	if m == nil {
		return
	}
	m.TranscriptionDropped.Inc()
}
