// Package hfpmetrics exposes gohfp's Prometheus metrics.
package hfpmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "gohfp"
	subsystem = "hfp"
)

// Label names for HFP metrics.
const (
	labelPeerAddr = "peer_addr"
	labelState    = "state"
	labelSubtype  = "subtype"
	labelCommand  = "command"
)

// -------------------------------------------------------------------------
// Collector — Prometheus HFP Metrics
// -------------------------------------------------------------------------

// Collector holds all HFP Prometheus metrics.
//
//   - Sessions tracks currently live connection registry entries.
//   - StateTransitions records connection lifecycle FSM changes
//     (spec.md §4.6) for alerting on flapping SLCs.
//   - EventsEmitted counts emitted events per subtype (spec.md §4.7).
//   - ParseErrors counts dropped AT lines per cause.
//   - CodecNegotiated tracks the negotiated codec reached per session.
type Collector struct {
	Sessions         *prometheus.GaugeVec
	StateTransitions *prometheus.CounterVec
	EventsEmitted    *prometheus.CounterVec
	ParseErrors      *prometheus.CounterVec
	CodecNegotiated  *prometheus.CounterVec
}

// NewCollector creates a Collector with all HFP metrics registered
// against reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.Sessions,
		c.StateTransitions,
		c.EventsEmitted,
		c.ParseErrors,
		c.CodecNegotiated,
	)

	return c
}

func newMetrics() *Collector {
	transitionLabels := []string{labelPeerAddr, "from_state", "to_state"}
	eventLabels := []string{labelPeerAddr, labelSubtype}
	parseErrorLabels := []string{labelPeerAddr, "cause"}
	codecLabels := []string{labelPeerAddr, "codec"}

	return &Collector{
		Sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions",
			Help:      "Number of currently registered HFP connection sessions.",
		}, nil),

		StateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state_transitions_total",
			Help:      "Total HFP connection lifecycle FSM state transitions.",
		}, transitionLabels),

		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_emitted_total",
			Help:      "Total events emitted to the event callback, by subtype.",
		}, eventLabels),

		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "parse_errors_total",
			Help:      "Total AT lines dropped by the parser, by cause.",
		}, parseErrorLabels),

		CodecNegotiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "codec_negotiated_total",
			Help:      "Total times a session's negotiated codec reached a given value.",
		}, codecLabels),
	}
}

// RegisterSession increments the active sessions gauge.
func (c *Collector) RegisterSession() {
	c.Sessions.WithLabelValues().Inc()
}

// UnregisterSession decrements the active sessions gauge.
func (c *Collector) UnregisterSession() {
	c.Sessions.WithLabelValues().Dec()
}

// RecordStateTransition increments the state transition counter.
func (c *Collector) RecordStateTransition(peerAddr, from, to string) {
	c.StateTransitions.WithLabelValues(peerAddr, from, to).Inc()
}

// RecordEventEmitted increments the emitted-events counter for subtype.
func (c *Collector) RecordEventEmitted(peerAddr, subtype string) {
	c.EventsEmitted.WithLabelValues(peerAddr, subtype).Inc()
}

// RecordParseError increments the parser error counter for cause.
func (c *Collector) RecordParseError(peerAddr, cause string) {
	c.ParseErrors.WithLabelValues(peerAddr, cause).Inc()
}

// RecordCodecNegotiated increments the negotiated-codec counter.
func (c *Collector) RecordCodecNegotiated(peerAddr, codec string) {
	c.CodecNegotiated.WithLabelValues(peerAddr, codec).Inc()
}
