// internal/notifications/memory.go

package notifications

import (
    "context"
    "sync"
)

// MemoryTokenRepository is an in-memory TokenRepository for tests
type MemoryTokenRepository struct {
    mu     sync.Mutex
    tokens map[string]*PushToken
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
    return &MemoryTokenRepository{tokens: make(map[string]*PushToken)}
}

func (r *MemoryTokenRepository) SaveToken(ctx context.Context, token *PushToken) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    clone := *token
    r.tokens[token.Token] = &clone
    return nil
}

func (r *MemoryTokenRepository) GetTokens(ctx context.Context, userID int64) ([]string, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    var result []string
    for _, token := range r.tokens {
        if token.UserID == userID {
            result = append(result, token.Token)
        }
    }
    return result, nil
}

func (r *MemoryTokenRepository) DeleteToken(ctx context.Context, token string) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    delete(r.tokens, token)
    return nil
}
