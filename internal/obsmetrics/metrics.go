// Package obsmetrics exposes the producer's runtime counters via
// prometheus/client_golang, replacing the ad-hoc exposition the
// teacher codebase hand-rolled.
package obsmetrics

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles the registered metrics. The producer updates
// FramesProduced, FramesDropped, InputUnderruns and ConfigGeneration;
// SinkReconnects, TCPClientsActive and FrameAssembleSec are registered
// but nothing in this repository updates them.
type Collector struct {
	FramesProduced   prometheus.Counter
	FramesDropped    *prometheus.CounterVec // labeled by sink kind ("eti" or "edi")
	InputUnderruns   *prometheus.CounterVec // labeled by subchannel uid
	SinkReconnects   *prometheus.CounterVec // labeled by sink name
	TCPClientsActive *prometheus.GaugeVec   // labeled by sink name
	ConfigGeneration prometheus.Gauge
	FrameAssembleSec prometheus.Histogram
}

// NewCollector builds and registers a Collector against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		FramesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dabmux",
			Name:      "frames_produced_total",
			Help:      "Total ETI frames assembled by the producer.",
		}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dabmux",
			Name:      "frames_dropped_total",
			Help:      "Frames dropped per sink due to a best-effort send timeout.",
		}, []string{"sink"}),
		InputUnderruns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dabmux",
			Name:      "input_underruns_total",
			Help:      "Input read deadlines missed, substituted with zero-fill.",
		}, []string{"subchannel"}),
		SinkReconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dabmux",
			Name:      "sink_reconnects_total",
			Help:      "Reconnect attempts made by TCP client sinks.",
		}, []string{"sink"}),
		TCPClientsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dabmux",
			Name:      "tcp_clients_active",
			Help:      "Currently connected TCP server sink clients.",
		}, []string{"sink"}),
		ConfigGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dabmux",
			Name:      "config_generation",
			Help:      "Current ensemble configuration-change generation counter.",
		}),
		FrameAssembleSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dabmux",
			Name:      "frame_assemble_seconds",
			Help:      "Wall-clock time spent assembling one ETI frame.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
	}
	reg.MustRegister(
		c.FramesProduced, c.FramesDropped, c.InputUnderruns,
		c.SinkReconnects, c.TCPClientsActive, c.ConfigGeneration, c.FrameAssembleSec,
	)
	return c
}
