// Package metrics defines and registers all custom Prometheus metrics for the
// character API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "characters"

// ── Recovery metrics ──────────────────────────────────────────────────────────

// RecoveryRetriesTotal counts store attempts that failed transiently and were
// scheduled for another try.
var RecoveryRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_retries_total",
		Help:      "Total number of transient data store failures that were retried.",
	},
)

// RecoveryExhaustedTotal counts operations that gave up after the retry bound.
var RecoveryExhaustedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_exhausted_total",
		Help:      "Total number of data store operations that failed after every retry.",
	},
)

// RecoveryRejectedTotal counts operations refused while the circuit breaker was open.
var RecoveryRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_rejected_total",
		Help:      "Total number of data store operations rejected by the open circuit breaker.",
	},
)

// BreakerOpenedTotal counts closed → open transitions.
var BreakerOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "breaker_opened_total",
		Help:      "Total number of times the data store circuit breaker opened.",
	},
)

// ── API metrics ───────────────────────────────────────────────────────────────

// APIErrorsTotal counts error responses.
// Label:
//   - type: network_error, auth_error, config_error, not_found, validation_error, database_error
var APIErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total number of error responses, by error type.",
	},
	[]string{"type"},
)

// ── Character metrics ─────────────────────────────────────────────────────────

// CharactersCreatedTotal counts newly created characters.
// Label:
//   - class_name: the character's class as submitted
var CharactersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of characters created, by class.",
	},
	[]string{"class_name"},
)

// ShareTokensTotal counts share token lifecycle actions.
// Label:
//   - action: "issued" or "revoked"
var ShareTokensTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "share_tokens_total",
		Help:      "Total number of share tokens issued or revoked.",
	},
	[]string{"action"},
)

// ShareResolutionsTotal counts public share lookups.
// Label:
//   - result: "found", "not_found", "invalid" or "error"
var ShareResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "share_resolutions_total",
		Help:      "Total number of public share token lookups, by result.",
	},
	[]string{"result"},
)
