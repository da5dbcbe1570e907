// internal/interactions/ratelimit_test.go

package interactions

import (
    "context"
    "strconv"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllowsUpToLimit(t *testing.T) {
    limiter := NewMemoryRateLimiter(40, time.Hour)
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    for i := 0; i < 40; i++ {
        err := limiter.TryConsume(context.Background(), 1, now.Add(time.Duration(i)*time.Second))
        require.NoError(t, err, "like %d should be allowed", i+1)
    }

    err := limiter.TryConsume(context.Background(), 1, now.Add(41*time.Second))
    assert.ErrorIs(t, err, ErrRateLimitExceeded)
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
    limiter := NewMemoryRateLimiter(2, time.Hour)
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    require.NoError(t, limiter.TryConsume(context.Background(), 1, now))
    require.NoError(t, limiter.TryConsume(context.Background(), 1, now.Add(30*time.Minute)))
    assert.ErrorIs(t, limiter.TryConsume(context.Background(), 1, now.Add(45*time.Minute)), ErrRateLimitExceeded)

    // The first like has aged out, freeing exactly one slot
    require.NoError(t, limiter.TryConsume(context.Background(), 1, now.Add(61*time.Minute)))
    assert.ErrorIs(t, limiter.TryConsume(context.Background(), 1, now.Add(62*time.Minute)), ErrRateLimitExceeded)
}

func TestMemoryLimiterBoundaryIsExclusive(t *testing.T) {
    limiter := NewMemoryRateLimiter(1, time.Hour)
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    require.NoError(t, limiter.TryConsume(context.Background(), 1, now))

    // An entry aged exactly one window no longer counts
    assert.NoError(t, limiter.TryConsume(context.Background(), 1, now.Add(time.Hour)))
}

func TestMemoryLimiterIsolatesUsers(t *testing.T) {
    limiter := NewMemoryRateLimiter(1, time.Hour)
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    require.NoError(t, limiter.TryConsume(context.Background(), 1, now))
    assert.ErrorIs(t, limiter.TryConsume(context.Background(), 1, now), ErrRateLimitExceeded)

    assert.NoError(t, limiter.TryConsume(context.Background(), 2, now))
}

func TestMemoryLimiterConcurrentConsumers(t *testing.T) {
    const limit = 40
    const attempts = 100

    limiter := NewMemoryRateLimiter(limit, time.Hour)
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    var wg sync.WaitGroup
    var mu sync.Mutex
    granted := 0

    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(offset int) {
            defer wg.Done()
            if err := limiter.TryConsume(context.Background(), 1, now.Add(time.Duration(offset)*time.Millisecond)); err == nil {
                mu.Lock()
                granted++
                mu.Unlock()
            }
        }(i)
    }
    wg.Wait()

    assert.Equal(t, limit, granted, "exactly limit slots must be granted under contention")
}

func TestLimiterMemberUniquePerGrant(t *testing.T) {
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    a := limiterMember(now)
    b := limiterMember(now)

    // Two grants in the same nanosecond must not collapse into one entry
    assert.NotEqual(t, a, b)
    prefix := strconv.FormatInt(now.UnixNano(), 10) + ":"
    assert.True(t, strings.HasPrefix(a, prefix))
    assert.True(t, strings.HasPrefix(b, prefix))
}
