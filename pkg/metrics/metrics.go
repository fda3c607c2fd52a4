// Package metrics exposes prometheus counters for the wire pipeline and the
// connection layer. A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultNamespace = "golem"

type Metrics struct {
	// Frame metrics
	FramesRead    prometheus.Counter
	FramesWritten prometheus.Counter
	BytesRead     prometheus.Counter
	BytesWritten  prometheus.Counter
	FrameSize     prometheus.Histogram

	// Message metrics
	MessagesDecoded    *prometheus.CounterVec
	MessagesEncoded    *prometheus.CounterVec
	PipelineErrors     *prometheus.CounterVec
	PlaintextFallbacks prometheus.Counter

	// Connection metrics
	ActiveConnections prometheus.Gauge
	WorkerPoolRunning prometheus.Gauge
}

// New registers every collector against reg. Passing nil uses the default
// prometheus registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Metrics{
		FramesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_read_total",
			Help:      "Total number of frames extracted from inbound buffers",
		}),
		FramesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_written_total",
			Help:      "Total number of frames appended to outbound buffers",
		}),
		BytesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Total number of raw bytes received",
		}),
		BytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Total number of raw bytes sent",
		}),
		FrameSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_size_bytes",
			Help:      "Size of inbound frame payloads",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),

		MessagesDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_decoded_total",
			Help:      "Decoded messages by type id and encryption",
		}, []string{"type", "encrypted"}),
		MessagesEncoded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_encoded_total",
			Help:      "Encoded messages by type id",
		}, []string{"type"}),
		PipelineErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_errors_total",
			Help:      "Frames that aborted extraction, by error kind",
		}, []string{"kind"}),
		PlaintextFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plaintext_fallbacks_total",
			Help:      "Frames the decryptor reported as not encrypted",
		}),

		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Number of open connections",
		}),
		WorkerPoolRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_pool_running",
			Help:      "Number of running connection workers",
		}),
	}
}

// RecordFrameRead records one inbound frame payload.
func (m *Metrics) RecordFrameRead(size int) {
	if m == nil {
		return
	}
	m.FramesRead.Inc()
	m.FrameSize.Observe(float64(size))
}

func (m *Metrics) RecordFrameWritten() {
	if m == nil {
		return
	}
	m.FramesWritten.Inc()
}

func (m *Metrics) RecordBytesRead(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesRead.Add(float64(n))
}

func (m *Metrics) RecordBytesWritten(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesWritten.Add(float64(n))
}

func (m *Metrics) RecordDecoded(typeID uint16, encrypted bool) {
	if m == nil {
		return
	}
	m.MessagesDecoded.WithLabelValues(strconv.Itoa(int(typeID)), strconv.FormatBool(encrypted)).Inc()
}

func (m *Metrics) RecordEncoded(typeID uint16) {
	if m == nil {
		return
	}
	m.MessagesEncoded.WithLabelValues(strconv.Itoa(int(typeID))).Inc()
}

// RecordError counts a pipeline failure under kind, e.g. "decode".
func (m *Metrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.PipelineErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordPlaintextFallback() {
	if m == nil {
		return
	}
	m.PlaintextFallbacks.Inc()
}

// UpdateConnections adjusts the open connection gauge by delta.
func (m *Metrics) UpdateConnections(delta int) {
	if m == nil {
		return
	}
	m.ActiveConnections.Add(float64(delta))
}

func (m *Metrics) UpdateWorkerPool(running int) {
	if m == nil {
		return
	}
	m.WorkerPoolRunning.Set(float64(running))
}
