// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics defines the Prometheus collectors for the sync core.
//
// A nil *Metrics is valid and records nothing, so components accept
// one without requiring callers to wire a registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors.
type Metrics struct {
	connectionAttempts prometheus.Counter
	connectionState    prometheus.Gauge
	framesReceived     *prometheus.CounterVec
	framesSent         *prometheus.CounterVec
	protocolErrors     prometheus.Counter
	uploads            *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		connectionAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "scire_connection_attempts_total",
			Help: "Socket dial attempts, including the first.",
		}),
		connectionState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scire_connection_state",
			Help: "Socket state: 0 connecting, 1 open, 2 closed.",
		}),
		framesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scire_frames_received_total",
			Help: "Inbound frames handled, by action.",
		}, []string{"action"}),
		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scire_frames_sent_total",
			Help: "Outbound frames written to the socket, by action.",
		}, []string{"action"}),
		protocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "scire_protocol_errors_total",
			Help: "Inbound frames dropped as unrecognized or malformed.",
		}),
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scire_uploads_total",
			Help: "Pending file attach chains, by result.",
		}, []string{"result"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scire_rest_request_duration_seconds",
			Help:    "REST call latency, by endpoint and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
	}
}

// ConnectionAttempt counts a dial.
func (m *Metrics) ConnectionAttempt() {
	if m == nil {
		return
	}
	m.connectionAttempts.Inc()
}

// ConnectionState records the socket state ordinal.
func (m *Metrics) ConnectionState(state int) {
	if m == nil {
		return
	}
	m.connectionState.Set(float64(state))
}

// FrameReceived counts an inbound frame.
func (m *Metrics) FrameReceived(action string) {
	if m == nil {
		return
	}
	m.framesReceived.WithLabelValues(action).Inc()
}

// FrameSent counts an outbound frame.
func (m *Metrics) FrameSent(action string) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(action).Inc()
}

// ProtocolError counts a dropped inbound frame.
func (m *Metrics) ProtocolError() {
	if m == nil {
		return
	}
	m.protocolErrors.Inc()
}

// Upload counts a finished attach chain. result is "attached" or
// "failed".
func (m *Metrics) Upload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

// Request records one REST call. endpoint is the route template, not
// the concrete path, to bound cardinality. A status of zero means the
// request never got a response.
func (m *Metrics) Request(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
