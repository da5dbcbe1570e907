// internal/interactions/memory.go
// In-memory repository for development and tests

package interactions

import (
    "context"
    "sync"
)

type MemoryRepository struct {
    mu           sync.RWMutex
    nextID       int64
    interactions []*Interaction
}

func NewMemoryRepository() *MemoryRepository {
    return &MemoryRepository{}
}

func (r *MemoryRepository) CreateInteraction(ctx context.Context, interaction *Interaction) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    r.nextID++
    interaction.ID = r.nextID

    stored := *interaction
    r.interactions = append(r.interactions, &stored)
    return nil
}

func (r *MemoryRepository) HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()

    for _, i := range r.interactions {
        if i.FromUserID == fromUserID && i.ToUserID == toUserID && i.Kind == KindLike {
            return true, nil
        }
    }
    return false, nil
}

// Count returns the number of stored interactions (test helper)
func (r *MemoryRepository) Count() int {
    r.mu.RLock()
    defer r.mu.RUnlock()
    return len(r.interactions)
}
