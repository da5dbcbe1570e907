// internal/matches/repository.go

package matches

import (
    "context"
    "errors"
    "time"
)

var ErrMatchNotFound = errors.New("match not found")

type Repository interface {
    // CreateIfAbsent inserts the match unless its canonical id already
    // exists. Returns true when this call created the record. Safe to call
    // concurrently from both detection directions of the same pair.
    CreateIfAbsent(ctx context.Context, match *Match) (bool, error)

    GetMatch(ctx context.Context, id string) (*Match, error)

    // ListForUser returns the user's matches, newest activity first,
    // excluding matches the user has hidden.
    ListForUser(ctx context.Context, userID int64) ([]*Match, error)

    // RecordMessage sets the last-message preview and increments the
    // recipient's unread counter in one atomic update.
    RecordMessage(ctx context.Context, matchID string, preview string, at time.Time, recipientID int64) error

    // ResetUnread sets the user's unread counter to zero (idempotent)
    ResetUnread(ctx context.Context, matchID string, userID int64) error

    // Hide soft-deletes the match for one user only
    Hide(ctx context.Context, matchID string, userID int64) error

    // DeleteMatch removes the match record entirely
    DeleteMatch(ctx context.Context, matchID string) error
}
