// internal/feed/memory.go
// In-process feed for development and tests. Preserves publish order and
// redelivers events whose handler failed, mirroring the at-least-once
// semantics of the Redis Streams implementation.

package feed

import (
    "context"
    "sync"
)

type MemoryFeed struct {
    mu     sync.Mutex
    events []Event
    notify chan struct{}
}

func NewMemoryFeed() *MemoryFeed {
    return &MemoryFeed{
        notify: make(chan struct{}, 1),
    }
}

// Publish appends an event to the in-memory queue
func (f *MemoryFeed) Publish(ctx context.Context, event Event) error {
    f.mu.Lock()
    f.events = append(f.events, event)
    f.mu.Unlock()

    select {
    case f.notify <- struct{}{}:
    default:
    }
    return nil
}

// Subscribe dispatches queued events in order until ctx is cancelled.
// A failed event stays at the head of the queue and is retried.
func (f *MemoryFeed) Subscribe(ctx context.Context, handler Handler) error {
    for {
        event, ok := f.peek()
        if !ok {
            select {
            case <-f.notify:
                continue
            case <-ctx.Done():
                return ctx.Err()
            }
        }

        if err := handler(ctx, event); err != nil {
            // Leave the event queued for redelivery, but check for
            // cancellation so a permanently failing event cannot spin forever
            select {
            case <-ctx.Done():
                return ctx.Err()
            default:
                continue
            }
        }

        f.pop()
    }
}

// Drain synchronously delivers every queued event to handler, redelivering
// failures up to maxAttempts each. Intended for tests.
func (f *MemoryFeed) Drain(ctx context.Context, handler Handler, maxAttempts int) {
    for {
        event, ok := f.peek()
        if !ok {
            return
        }

        for attempt := 0; attempt < maxAttempts; attempt++ {
            if err := handler(ctx, event); err == nil {
                break
            }
        }
        f.pop()
    }
}

func (f *MemoryFeed) peek() (Event, bool) {
    f.mu.Lock()
    defer f.mu.Unlock()

    if len(f.events) == 0 {
        return Event{}, false
    }
    return f.events[0], true
}

func (f *MemoryFeed) pop() {
    f.mu.Lock()
    defer f.mu.Unlock()

    if len(f.events) > 0 {
        f.events = f.events[1:]
    }
}
