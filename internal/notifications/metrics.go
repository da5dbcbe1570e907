package notifications

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    notificationsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "notifications_sent_total",
            Help: "Notification delivery attempts, by channel and result",
        },
        []string{"channel", "result"},
    )

    tokensPrunedTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "push_tokens_pruned_total",
            Help: "Push tokens removed after the provider reported them unregistered",
        },
    )
)

func RecordNotification(channel, result string) {
    notificationsTotal.WithLabelValues(channel, result).Inc()
}

func RecordTokenPruned() {
    tokensPrunedTotal.Inc()
}
