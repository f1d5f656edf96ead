// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New(registry)

	metrics.ConnectionAttempt()
	metrics.ConnectionAttempt()
	metrics.FrameReceived("send_message")
	metrics.FrameSent("create_ticket")
	metrics.ProtocolError()
	metrics.Upload("failed")
	metrics.ConnectionState(1)
	metrics.Request("/tickets/{id}", 200, 15*time.Millisecond)

	if got := testutil.ToFloat64(metrics.connectionAttempts); got != 2 {
		t.Errorf("connection attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.framesReceived.WithLabelValues("send_message")); got != 1 {
		t.Errorf("frames received = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.connectionState); got != 1 {
		t.Errorf("connection state = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.uploads.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed uploads = %v, want 1", got)
	}
	if count := testutil.CollectAndCount(metrics.requestDuration); count != 1 {
		t.Errorf("request series = %d, want 1", count)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	metrics.ConnectionAttempt()
	metrics.ConnectionState(2)
	metrics.FrameReceived("x")
	metrics.FrameSent("x")
	metrics.ProtocolError()
	metrics.Upload("attached")
	metrics.Request("/file", 0, time.Second)
}
