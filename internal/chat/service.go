// internal/chat/service.go

package chat

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/emberlyapp/emberly-backend/internal/matches"
)

var (
    ErrNotParticipant = errors.New("user is not part of this match")
    ErrEmptyMessage   = errors.New("message content is empty")
    ErrMessageTooLong = errors.New("message content is too long")
)

const maxMessageLength = 2000

// Broadcaster fans a websocket message out to every connection joined to a
// match room
type Broadcaster interface {
    BroadcastToRoom(matchID string, message WSMessage)
    IsUserInRoom(matchID string, userID int64) bool
}

// Notifier delivers an out-of-band notification about a new message.
// Implementations must not block the caller on delivery.
type Notifier interface {
    NotifyMessage(ctx context.Context, recipientID, senderID int64, matchID, preview string)
}

type Service interface {
    SendMessage(ctx context.Context, matchID string, senderID int64, content string) (*Message, error)
    GetHistory(ctx context.Context, matchID string, userID int64, limit int) ([]*Message, error)
    MarkRead(ctx context.Context, matchID string, readerID int64) error
    HideMatch(ctx context.Context, matchID string, userID int64) error
    Unmatch(ctx context.Context, matchID string, userID int64) error
    VerifyParticipant(ctx context.Context, matchID string, userID int64) error
}

type service struct {
    repo       Repository
    matchRepo  matches.Repository
    hub        Broadcaster
    notifier   Notifier
    previewLen int
    now        func() time.Time
}

func NewService(repo Repository, matchRepo matches.Repository, hub Broadcaster, notifier Notifier, previewLen int) Service {
    return &service{
        repo:       repo,
        matchRepo:  matchRepo,
        hub:        hub,
        notifier:   notifier,
        previewLen: previewLen,
        now:        time.Now,
    }
}

// SendMessage persists a message, updates the match summary and fans the
// message out to the room. The recipient's unread counter is incremented by
// the same update that sets the preview, so the two can never diverge.
func (s *service) SendMessage(ctx context.Context, matchID string, senderID int64, content string) (*Message, error) {
    match, err := s.authorize(ctx, matchID, senderID)
    if err != nil {
        return nil, err
    }

    content = strings.TrimSpace(content)
    if content == "" {
        return nil, ErrEmptyMessage
    }
    if len(content) > maxMessageLength {
        return nil, ErrMessageTooLong
    }

    message := &Message{
        ID:        uuid.NewString(),
        MatchID:   matchID,
        SenderID:  senderID,
        Content:   content,
        CreatedAt: s.now().UTC(),
    }
    if err := s.repo.CreateMessage(ctx, message); err != nil {
        return nil, fmt.Errorf("failed to store message: %w", err)
    }

    recipientID := match.OtherUser(senderID)
    preview := truncate(content, s.previewLen)
    if err := s.matchRepo.RecordMessage(ctx, matchID, preview, message.CreatedAt, recipientID); err != nil {
        log.Printf("Failed to update match %s after message %s: %v", matchID, message.ID, err)
    }

    RecordMessageSent()

    if s.hub != nil {
        s.hub.BroadcastToRoom(matchID, newMessageEnvelope(message))
    }

    // Push only when the recipient is not looking at the conversation
    if s.notifier != nil && (s.hub == nil || !s.hub.IsUserInRoom(matchID, recipientID)) {
        go s.notifier.NotifyMessage(context.Background(), recipientID, senderID, matchID, preview)
    }

    return message, nil
}

// GetHistory returns the most recent messages of a match, newest first
func (s *service) GetHistory(ctx context.Context, matchID string, userID int64, limit int) ([]*Message, error) {
    if _, err := s.authorize(ctx, matchID, userID); err != nil {
        return nil, err
    }

    if limit <= 0 || limit > 100 {
        limit = 50
    }
    return s.repo.ListMessages(ctx, matchID, limit)
}

// MarkRead marks the other side's messages read and clears the unread counter
func (s *service) MarkRead(ctx context.Context, matchID string, readerID int64) error {
    if _, err := s.authorize(ctx, matchID, readerID); err != nil {
        return err
    }

    if err := s.repo.MarkRead(ctx, matchID, readerID); err != nil {
        return fmt.Errorf("failed to mark messages read: %w", err)
    }
    return s.matchRepo.ResetUnread(ctx, matchID, readerID)
}

// HideMatch hides the conversation for one user; the other side is unaffected
func (s *service) HideMatch(ctx context.Context, matchID string, userID int64) error {
    if _, err := s.authorize(ctx, matchID, userID); err != nil {
        return err
    }
    return s.matchRepo.Hide(ctx, matchID, userID)
}

// Unmatch deletes the match and every message in it, for both users
func (s *service) Unmatch(ctx context.Context, matchID string, userID int64) error {
    if _, err := s.authorize(ctx, matchID, userID); err != nil {
        return err
    }

    if err := s.repo.DeleteForMatch(ctx, matchID); err != nil {
        return fmt.Errorf("failed to delete messages: %w", err)
    }
    return s.matchRepo.DeleteMatch(ctx, matchID)
}

// VerifyParticipant reports whether userID may access the match
func (s *service) VerifyParticipant(ctx context.Context, matchID string, userID int64) error {
    _, err := s.authorize(ctx, matchID, userID)
    return err
}

func (s *service) authorize(ctx context.Context, matchID string, userID int64) (*matches.Match, error) {
    match, err := s.matchRepo.GetMatch(ctx, matchID)
    if err != nil {
        return nil, err
    }
    if !match.HasUser(userID) {
        return nil, ErrNotParticipant
    }
    return match, nil
}

func newMessageEnvelope(message *Message) WSMessage {
    return WSMessage{
        Type:      string(WSTypeNewMessage),
        Data:      mustMarshal(message),
        Timestamp: message.CreatedAt,
    }
}

func truncate(s string, max int) string {
    if max <= 0 || len(s) <= max {
        return s
    }
    // Cut on a rune boundary
    runes := []rune(s)
    if len(runes) <= max {
        return s
    }
    return string(runes[:max])
}
