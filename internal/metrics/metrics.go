// Package metrics defines all custom Prometheus metrics for the equipment
// tracking service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default registry on import; the
// /metrics route serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "equiptrack"

// RequestDuration measures HTTP handling time end-to-end.
// Labels:
//   - method: the HTTP method
//   - path: the matched route template (e.g. "/api/v1/equipamentos/:id")
//   - status: the numeric response status
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

// EquipmentRegisteredTotal counts registrations.
// Label:
//   - result: "created" for a new serial, "retest" when a known serial was
//     sent back to testing
var EquipmentRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "equipment_registered_total",
		Help:      "Total number of equipment registrations, by result.",
	},
	[]string{"result"},
)

// TestsRecordedTotal counts recorded test results.
var TestsRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tests_recorded_total",
		Help:      "Total number of test results recorded.",
	},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok" or "failed"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// OverviewClients tracks the number of live overview feed connections.
var OverviewClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "overview_ws_clients",
		Help:      "Current number of connected overview WebSocket clients.",
	},
)
