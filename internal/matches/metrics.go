package matches

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    matchesCreatedTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "matches_created_total",
            Help: "Total number of matches created",
        },
    )

    matchEventsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "match_events_processed_total",
            Help: "Feed events processed by the match worker, by result",
        },
        []string{"result"},
    )
)

func RecordMatchCreated() {
    matchesCreatedTotal.Inc()
}

func RecordEventProcessed(result string) {
    matchEventsTotal.WithLabelValues(result).Inc()
}
