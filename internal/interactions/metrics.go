package interactions

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    interactionsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "interactions_total",
            Help: "Total number of interactions written",
        },
        []string{"kind"},
    )

    rateLimitedTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "interactions_rate_limited_total",
            Help: "Total number of likes rejected by the rate limiter",
        },
    )
)

func RecordInteraction(kind string) {
    interactionsTotal.WithLabelValues(kind).Inc()
}

func RecordRateLimited() {
    rateLimitedTotal.Inc()
}
