// pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthRequests counts authentication attempts by scheme and outcome
	// ("ok" or the rejection code).
	AuthRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletgate_auth_requests_total",
		Help: "Authentication attempts by credential scheme and outcome.",
	}, []string{"scheme", "outcome"})

	// TokensIssued counts successful client-credentials exchanges.
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walletgate_tokens_issued_total",
		Help: "Bearer tokens issued through the client-credentials flow.",
	})

	// NonceSetSize reports the current size of the in-process nonce set, a
	// capacity signal since the set only shrinks at clear boundaries.
	NonceSetSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "walletgate_nonce_set_size",
		Help: "Entries in the in-process nonce replay set.",
	})
)
