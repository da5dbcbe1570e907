// internal/feed/feed.go
// Ordered, at-least-once event feed connecting interaction ingestion to the
// match detection worker. Implementations must redeliver events whose handler
// returned an error and must survive consumer restarts (resume from the last
// acknowledged position).

package feed

import (
    "context"
    "time"
)

// Event is a single interaction published on the feed
type Event struct {
    ID         string    `json:"id"`
    FromUserID int64     `json:"from_user_id"`
    ToUserID   int64     `json:"to_user_id"`
    Kind       string    `json:"kind"`
    CreatedAt  time.Time `json:"created_at"`
}

// Handler processes one event. Returning nil acknowledges the event;
// returning an error leaves it pending for redelivery.
type Handler func(ctx context.Context, event Event) error

// Publisher appends events to the feed
type Publisher interface {
    Publish(ctx context.Context, event Event) error
}

// Subscriber delivers events in order, at least once. Subscribe blocks until
// ctx is cancelled.
type Subscriber interface {
    Subscribe(ctx context.Context, handler Handler) error
}
