// internal/matches/models.go

package matches

import (
    "fmt"
    "time"
)

// Match is the durable record of a mutual like between two users. The id is
// derived from the sorted user pair, so both detection directions resolve to
// the same record.
type Match struct {
    ID            string          `json:"id" db:"id"`
    UserA         int64           `json:"user_a" db:"user_a"`
    UserB         int64           `json:"user_b" db:"user_b"`
    CreatedAt     time.Time       `json:"created_at" db:"created_at"`
    LastMessage   *string         `json:"last_message,omitempty" db:"last_message"`
    LastMessageAt *time.Time      `json:"last_message_at,omitempty" db:"last_message_at"`
    UnreadCount   map[int64]int   `json:"unread_count"`
    HiddenFor     map[int64]bool  `json:"-"`
}

// CanonicalID returns the deterministic, order-independent match id for a
// user pair: sortedJoin(a, b).
func CanonicalID(a, b int64) string {
    if a > b {
        a, b = b, a
    }
    return fmt.Sprintf("%d_%d", a, b)
}

// SortPair returns the pair in canonical (ascending) order
func SortPair(a, b int64) (int64, int64) {
    if a > b {
        return b, a
    }
    return a, b
}

// NewMatch creates a match record for a pair with zeroed unread counters
func NewMatch(a, b int64, now time.Time) *Match {
    userA, userB := SortPair(a, b)
    return &Match{
        ID:          CanonicalID(a, b),
        UserA:       userA,
        UserB:       userB,
        CreatedAt:   now,
        UnreadCount: map[int64]int{userA: 0, userB: 0},
        HiddenFor:   map[int64]bool{},
    }
}

// OtherUser returns the participant that is not userID
func (m *Match) OtherUser(userID int64) int64 {
    if m.UserA == userID {
        return m.UserB
    }
    return m.UserA
}

// HasUser reports whether userID participates in the match
func (m *Match) HasUser(userID int64) bool {
    return m.UserA == userID || m.UserB == userID
}

// MatchView is the per-user projection returned by the matches list endpoint
type MatchView struct {
    ID            string     `json:"id"`
    OtherUserID   int64      `json:"other_user_id"`
    CreatedAt     time.Time  `json:"created_at"`
    LastMessage   *string    `json:"last_message,omitempty"`
    LastMessageAt *time.Time `json:"last_message_at,omitempty"`
    UnreadCount   int        `json:"unread_count"`
}

// ViewFor projects the match for one participant
func (m *Match) ViewFor(userID int64) *MatchView {
    return &MatchView{
        ID:            m.ID,
        OtherUserID:   m.OtherUser(userID),
        CreatedAt:     m.CreatedAt,
        LastMessage:   m.LastMessage,
        LastMessageAt: m.LastMessageAt,
        UnreadCount:   m.UnreadCount[userID],
    }
}
