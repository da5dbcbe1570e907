// internal/chat/memory.go

package chat

import (
    "context"
    "sort"
    "sync"
)

// MemoryRepository is an in-memory Repository for tests
type MemoryRepository struct {
    mu       sync.Mutex
    messages map[string][]*Message
}

func NewMemoryRepository() *MemoryRepository {
    return &MemoryRepository{messages: make(map[string][]*Message)}
}

func (r *MemoryRepository) CreateMessage(ctx context.Context, message *Message) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    clone := *message
    r.messages[message.MatchID] = append(r.messages[message.MatchID], &clone)
    return nil
}

func (r *MemoryRepository) ListMessages(ctx context.Context, matchID string, limit int) ([]*Message, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    stored := r.messages[matchID]
    result := make([]*Message, 0, len(stored))
    for _, msg := range stored {
        clone := *msg
        result = append(result, &clone)
    }

    sort.Slice(result, func(i, j int) bool {
        return result[i].CreatedAt.After(result[j].CreatedAt)
    })
    if limit > 0 && len(result) > limit {
        result = result[:limit]
    }
    return result, nil
}

func (r *MemoryRepository) MarkRead(ctx context.Context, matchID string, readerID int64) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    for _, msg := range r.messages[matchID] {
        if msg.SenderID != readerID {
            msg.Read = true
        }
    }
    return nil
}

func (r *MemoryRepository) DeleteForMatch(ctx context.Context, matchID string) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    delete(r.messages, matchID)
    return nil
}

// CountForMatch returns the number of stored messages (test helper)
func (r *MemoryRepository) CountForMatch(matchID string) int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return len(r.messages[matchID])
}
