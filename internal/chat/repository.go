// internal/chat/repository.go

package chat

import (
    "context"
)

type Repository interface {
    // Messages
    CreateMessage(ctx context.Context, message *Message) error

    // ListMessages returns up to limit messages of a match, newest first
    ListMessages(ctx context.Context, matchID string, limit int) ([]*Message, error)

    // MarkRead marks every message in the match not sent by readerID as read
    MarkRead(ctx context.Context, matchID string, readerID int64) error

    // DeleteForMatch removes all messages of a match
    DeleteForMatch(ctx context.Context, matchID string) error
}
