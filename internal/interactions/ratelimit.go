// internal/interactions/ratelimit.go
// Per-user sliding-window rate limiter guarding like submission. The Redis
// implementation runs the prune/check/append sequence as a WATCH transaction
// so two devices of the same user can never both commit past the limit.

package interactions

import (
    "context"
    "errors"
    "fmt"
    "strconv"
    "sync"
    "time"

    "github.com/go-redis/redis/v8"
    "github.com/google/uuid"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimiter grants or denies one like slot for a user at a point in time
type RateLimiter interface {
    TryConsume(ctx context.Context, userID int64, now time.Time) error
}

// casRetries bounds optimistic-lock retries; contention only comes from
// concurrent requests by the same user, so conflicts are rare.
const casRetries = 8

type redisRateLimiter struct {
    client *redis.Client
    limit  int
    window time.Duration
}

// NewRedisRateLimiter creates a Redis-backed limiter. State lives in one
// sorted set per user scored by the submission timestamp.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) RateLimiter {
    return &redisRateLimiter{
        client: client,
        limit:  limit,
        window: window,
    }
}

func (l *redisRateLimiter) key(userID int64) string {
    return "rl:likes:" + strconv.FormatInt(userID, 10)
}

// limiterMember builds a unique sorted-set member so two grants in the same
// nanosecond still occupy two window slots. The score carries the timestamp.
func limiterMember(now time.Time) string {
    return strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()
}

// TryConsume atomically drops entries older than the window, then appends now
// if and only if fewer than limit entries remain. Aborts with
// ErrRateLimitExceeded and no mutation otherwise.
func (l *redisRateLimiter) TryConsume(ctx context.Context, userID int64, now time.Time) error {
    key := l.key(userID)
    cutoff := now.Add(-l.window)

    txn := func(tx *redis.Tx) error {
        count, err := tx.ZCount(ctx,
            key,
            "("+strconv.FormatInt(cutoff.UnixNano(), 10),
            "+inf",
        ).Result()
        if err != nil && err != redis.Nil {
            return err
        }

        if int(count) >= l.limit {
            return ErrRateLimitExceeded
        }

        _, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
            pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff.UnixNano(), 10))
            pipe.ZAdd(ctx, key, &redis.Z{
                Score:  float64(now.UnixNano()),
                Member: limiterMember(now),
            })
            pipe.Expire(ctx, key, l.window)
            return nil
        })
        return err
    }

    for i := 0; i < casRetries; i++ {
        err := l.client.Watch(ctx, txn, key)
        if err == redis.TxFailedErr {
            // Another device of the same user raced us; re-check
            continue
        }
        return err
    }

    return fmt.Errorf("rate limiter: too many concurrent attempts for user %d", userID)
}

// memoryRateLimiter keeps the window in process memory. Used in development
// and tests; the per-user mutex gives the same single-writer guarantee the
// Redis transaction provides.
type memoryRateLimiter struct {
    mu      sync.Mutex
    records map[int64]*userWindow
    limit   int
    window  time.Duration
}

type userWindow struct {
    mu     sync.Mutex
    stamps []time.Time
}

// NewMemoryRateLimiter creates an in-process limiter
func NewMemoryRateLimiter(limit int, window time.Duration) RateLimiter {
    return &memoryRateLimiter{
        records: make(map[int64]*userWindow),
        limit:   limit,
        window:  window,
    }
}

func (l *memoryRateLimiter) TryConsume(ctx context.Context, userID int64, now time.Time) error {
    l.mu.Lock()
    record, ok := l.records[userID]
    if !ok {
        record = &userWindow{}
        l.records[userID] = record
    }
    l.mu.Unlock()

    record.mu.Lock()
    defer record.mu.Unlock()

    cutoff := now.Add(-l.window)
    kept := record.stamps[:0]
    for _, t := range record.stamps {
        if t.After(cutoff) {
            kept = append(kept, t)
        }
    }
    record.stamps = kept

    if len(record.stamps) >= l.limit {
        return ErrRateLimitExceeded
    }

    record.stamps = append(record.stamps, now)
    return nil
}
