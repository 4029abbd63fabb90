// Package metrics defines the Prometheus collectors for the auth API.
//
// Collectors are registered with the default registry on import; the HTTP
// layer exposes them on /metrics alongside echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "classroom_auth"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "invalid_role", "duplicate" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts allow/deny decisions on protected routes.
// Labels:
//   - required_role: the minimum role of the route ("" when only authentication is needed)
//   - result: "allowed", "missing_credential", "invalid_credential" or "forbidden"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization decisions on protected routes.",
	},
	[]string{"required_role", "result"},
)

// TokenRejectionsTotal breaks invalid credentials down by cause. The cause
// is never returned to clients.
// Label:
//   - reason: "malformed", "signature", "expired" or "scheme"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by cause.",
	},
	[]string{"reason"},
)
