/*
 * Copyright 2026 The Inkwell Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/inkwell-team/inkwell/internal/version"
)

const (
	namespace      = "inkwell"
	eventTypeLabel = "event_type"
	outcomeLabel   = "outcome"
	operationLabel = "operation"
	methodLabel    = "method"
	routeLabel     = "route"
	codeLabel      = "code"
	taskTypeLabel  = "task_type"
)

// Metrics manages the metric information that Inkwell is trying to measure.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	connections       prometheus.Gauge
	sessions          prometheus.Gauge
	sessionMembers    prometheus.Gauge
	broadcastsTotal   *prometheus.CounterVec
	relayErrorsTotal  prometheus.Counter
	documentMutations *prometheus.CounterVec

	backgroundGoroutinesTotal *prometheus.GaugeVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		httpRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests completed on the server.",
		}, []string{methodLabel, routeLabel, codeLabel}),
		httpRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "The response time of HTTP requests.",
		}, []string{routeLabel}),
		connections: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "connections",
			Help:      "The number of open presence connections.",
		}),
		sessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "sessions",
			Help:      "The number of documents with at least one member.",
		}),
		sessionMembers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "session_members",
			Help:      "The number of memberships across all sessions.",
		}),
		broadcastsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "broadcast_frames_total",
			Help:      "The total count of presence frames delivered to or dropped for a member.",
		}, []string{eventTypeLabel, outcomeLabel}),
		relayErrorsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "relay_errors_total",
			Help:      "The total count of frames that could not be published to the relay.",
		}),
		documentMutations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "mutations_total",
			Help:      "The total count of document writes.",
		}, []string{operationLabel}),
		backgroundGoroutinesTotal: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "goroutines_total",
			Help:      "The total number of goroutines attached by background.",
		}, []string{taskTypeLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// ObserveHTTPRequest records a finished HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.With(prometheus.Labels{
		methodLabel: method,
		routeLabel:  route,
		codeLabel:   strconv.Itoa(code),
	}).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(seconds)
}

// AddConnection increases the number of open connections.
func (m *Metrics) AddConnection() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// RemoveConnection decreases the number of open connections.
func (m *Metrics) RemoveConnection() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// SetSessions records the size of the session registry.
func (m *Metrics) SetSessions(sessions, members int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(sessions))
	m.sessionMembers.Set(float64(members))
}

// AddBroadcast adds the outcome of delivering one event.
func (m *Metrics) AddBroadcast(eventType string, delivered, dropped int) {
	if m == nil {
		return
	}
	if delivered > 0 {
		m.broadcastsTotal.WithLabelValues(eventType, "delivered").Add(float64(delivered))
	}
	if dropped > 0 {
		m.broadcastsTotal.WithLabelValues(eventType, "dropped").Add(float64(dropped))
	}
}

// AddRelayError counts a failed relay publish.
func (m *Metrics) AddRelayError() {
	if m == nil {
		return
	}
	m.relayErrorsTotal.Inc()
}

// AddDocumentMutation counts a document write of the given operation.
func (m *Metrics) AddDocumentMutation(operation string) {
	if m == nil {
		return
	}
	m.documentMutations.WithLabelValues(operation).Inc()
}

// AddBackgroundGoroutines adds the number of goroutines attached by various
// background goroutines.
func (m *Metrics) AddBackgroundGoroutines(taskType string) {
	if m == nil {
		return
	}
	m.backgroundGoroutinesTotal.WithLabelValues(taskType).Inc()
}

// RemoveBackgroundGoroutines removes the number of goroutines attached by
// various background goroutines.
func (m *Metrics) RemoveBackgroundGoroutines(taskType string) {
	if m == nil {
		return
	}
	m.backgroundGoroutinesTotal.WithLabelValues(taskType).Dec()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
