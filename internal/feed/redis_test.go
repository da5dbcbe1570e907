// internal/feed/redis_test.go

package feed

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestPendingReplayCursorSchedule(t *testing.T) {
    replay := &pendingReplay{interval: 10 * time.Second}
    start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    assert.Equal(t, "0", replay.cursor(start), "first read picks up entries pending from a previous run")
    assert.Equal(t, ">", replay.cursor(start.Add(time.Second)))
    assert.Equal(t, ">", replay.cursor(start.Add(9*time.Second)))
    assert.Equal(t, "0", replay.cursor(start.Add(10*time.Second)), "unacknowledged events are re-read once the interval elapses")
    assert.Equal(t, ">", replay.cursor(start.Add(11*time.Second)))
    assert.Equal(t, "0", replay.cursor(start.Add(25*time.Second)))
}
