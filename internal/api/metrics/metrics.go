// Package metrics defines and registers all custom Prometheus metrics for
// the access portal. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// GuardDecisionsTotal counts guard evaluations.
// Labels:
//   - guard: "auth", "admin", or "role"
//   - outcome: "allow" or "deny"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of guard decisions, by guard variant and outcome.",
	},
	[]string{"guard", "outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersTotal tracks the current size of the user list.
var UsersTotal = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "users_total",
		Help:      "Current number of users in the store.",
	},
)

// SessionActive is 1 while a user occupies the session slot, 0 otherwise.
var SessionActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_active",
		Help:      "Whether the current-user session slot is occupied (0 or 1).",
	},
)

// StreamClients tracks connected demo stream clients.
// Label:
//   - transport: "sse" or "websocket"
var StreamClients = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_clients",
		Help:      "Currently connected demo stream clients, by transport.",
	},
	[]string{"transport"},
)
