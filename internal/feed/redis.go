// internal/feed/redis.go
// Redis Streams implementation of the interaction feed. The consumer group
// position is the durable checkpoint: events are only acknowledged after the
// handler returns nil, so a crash mid-event means redelivery, never loss.

package feed

import (
    "context"
    "fmt"
    "log"
    "strconv"
    "strings"
    "time"

    "github.com/go-redis/redis/v8"
)

const (
    readBlock             = 5 * time.Second
    readCount             = 64
    retryDelay            = time.Second
    pendingReplayInterval = 15 * time.Second
)

// pendingReplay schedules re-reads of this consumer's pending entries so an
// event whose handler failed is redelivered without a process restart.
type pendingReplay struct {
    interval time.Duration
    next     time.Time
}

// cursor returns "0" (re-read pending entries) when a replay is due, ">"
// (new entries) otherwise. The zero value replays immediately, which also
// picks up entries left unacknowledged by a previous crash.
func (p *pendingReplay) cursor(now time.Time) string {
    if now.Before(p.next) {
        return ">"
    }
    p.next = now.Add(p.interval)
    return "0"
}

type redisFeed struct {
    client   *redis.Client
    stream   string
    group    string
    consumer string
}

// NewRedisFeed creates a feed backed by a Redis Stream. The same value can be
// used as Publisher and Subscriber.
func NewRedisFeed(client *redis.Client, stream, group, consumer string) *redisFeed {
    return &redisFeed{
        client:   client,
        stream:   stream,
        group:    group,
        consumer: consumer,
    }
}

// Publish appends an event to the stream
func (f *redisFeed) Publish(ctx context.Context, event Event) error {
    return f.client.XAdd(ctx, &redis.XAddArgs{
        Stream: f.stream,
        Values: map[string]interface{}{
            "id":           event.ID,
            "from_user_id": strconv.FormatInt(event.FromUserID, 10),
            "to_user_id":   strconv.FormatInt(event.ToUserID, 10),
            "kind":         event.Kind,
            "created_at":   event.CreatedAt.UTC().Format(time.RFC3339Nano),
        },
    }).Err()
}

// Subscribe consumes the stream through a consumer group for the process
// lifetime, reconnecting after transient Redis errors.
func (f *redisFeed) Subscribe(ctx context.Context, handler Handler) error {
    if err := f.ensureGroup(ctx); err != nil {
        return err
    }

    replay := &pendingReplay{interval: pendingReplayInterval}

    for {
        if err := f.consume(ctx, handler, replay.cursor(time.Now())); err != nil {
            if ctx.Err() != nil {
                return ctx.Err()
            }
            log.Printf("[feed] read error: %v (retrying in %s)", err, retryDelay)
            select {
            case <-time.After(retryDelay):
            case <-ctx.Done():
                return ctx.Err()
            }
        }
    }
}

func (f *redisFeed) ensureGroup(ctx context.Context) error {
    err := f.client.XGroupCreateMkStream(ctx, f.stream, f.group, "0").Err()
    if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
        return fmt.Errorf("failed to create consumer group: %w", err)
    }
    return nil
}

// consume reads one batch starting at cursor and dispatches it. A handler
// error leaves the event unacknowledged for the next pending replay;
// processing continues with the next event so one bad record cannot stall
// the feed.
func (f *redisFeed) consume(ctx context.Context, handler Handler, cursor string) error {
    streams, err := f.client.XReadGroup(ctx, &redis.XReadGroupArgs{
        Group:    f.group,
        Consumer: f.consumer,
        Streams:  []string{f.stream, cursor},
        Count:    readCount,
        Block:    readBlock,
    }).Result()
    if err == redis.Nil {
        return nil
    }
    if err != nil {
        return err
    }

    for _, stream := range streams {
        for _, msg := range stream.Messages {
            event, perr := parseEvent(msg.Values)
            if perr != nil {
                // Malformed entries can never succeed; ack and log
                log.Printf("[feed] dropping malformed entry %s: %v", msg.ID, perr)
                f.client.XAck(ctx, f.stream, f.group, msg.ID)
                continue
            }

            if herr := handler(ctx, event); herr != nil {
                log.Printf("[feed] handler error for %s: %v", msg.ID, herr)
                continue
            }

            f.client.XAck(ctx, f.stream, f.group, msg.ID)
        }
    }

    return nil
}

func parseEvent(values map[string]interface{}) (Event, error) {
    event := Event{}

    id, ok := values["id"].(string)
    if !ok {
        return event, fmt.Errorf("missing id")
    }
    event.ID = id

    from, err := parseInt64(values["from_user_id"])
    if err != nil {
        return event, fmt.Errorf("bad from_user_id: %w", err)
    }
    event.FromUserID = from

    to, err := parseInt64(values["to_user_id"])
    if err != nil {
        return event, fmt.Errorf("bad to_user_id: %w", err)
    }
    event.ToUserID = to

    kind, ok := values["kind"].(string)
    if !ok {
        return event, fmt.Errorf("missing kind")
    }
    event.Kind = kind

    if raw, ok := values["created_at"].(string); ok {
        if ts, terr := time.Parse(time.RFC3339Nano, raw); terr == nil {
            event.CreatedAt = ts
        }
    }

    return event, nil
}

func parseInt64(v interface{}) (int64, error) {
    s, ok := v.(string)
    if !ok {
        return 0, fmt.Errorf("not a string: %v", v)
    }
    return strconv.ParseInt(s, 10, 64)
}
