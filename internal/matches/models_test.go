// internal/matches/models_test.go

package matches

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestCanonicalIDIsCommutative(t *testing.T) {
    assert.Equal(t, CanonicalID(1, 2), CanonicalID(2, 1))
    assert.Equal(t, "1_2", CanonicalID(2, 1))
    assert.Equal(t, "7_42", CanonicalID(42, 7))
}

func TestNewMatchSortsPair(t *testing.T) {
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

    match := NewMatch(9, 3, now)
    assert.Equal(t, "3_9", match.ID)
    assert.Equal(t, int64(3), match.UserA)
    assert.Equal(t, int64(9), match.UserB)
    assert.Equal(t, 0, match.UnreadCount[3])
    assert.Equal(t, 0, match.UnreadCount[9])
}

func TestOtherUser(t *testing.T) {
    match := NewMatch(1, 2, time.Now())
    assert.Equal(t, int64(2), match.OtherUser(1))
    assert.Equal(t, int64(1), match.OtherUser(2))
}

func TestViewForProjectsPerUser(t *testing.T) {
    now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
    match := NewMatch(1, 2, now)
    match.UnreadCount[2] = 3

    view := match.ViewFor(2)
    assert.Equal(t, int64(1), view.OtherUserID)
    assert.Equal(t, 3, view.UnreadCount)

    view = match.ViewFor(1)
    assert.Equal(t, int64(2), view.OtherUserID)
    assert.Equal(t, 0, view.UnreadCount)
}
