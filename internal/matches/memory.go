// internal/matches/memory.go

package matches

import (
    "context"
    "sort"
    "sync"
    "time"
)

// MemoryRepository is an in-memory Repository for tests
type MemoryRepository struct {
    mu      sync.Mutex
    matches map[string]*Match
}

func NewMemoryRepository() *MemoryRepository {
    return &MemoryRepository{matches: make(map[string]*Match)}
}

func (r *MemoryRepository) CreateIfAbsent(ctx context.Context, match *Match) (bool, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    if _, exists := r.matches[match.ID]; exists {
        return false, nil
    }
    r.matches[match.ID] = cloneMatch(match)
    return true, nil
}

func (r *MemoryRepository) GetMatch(ctx context.Context, id string) (*Match, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    match, ok := r.matches[id]
    if !ok {
        return nil, ErrMatchNotFound
    }
    return cloneMatch(match), nil
}

func (r *MemoryRepository) ListForUser(ctx context.Context, userID int64) ([]*Match, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    var result []*Match
    for _, match := range r.matches {
        if match.HasUser(userID) && !match.HiddenFor[userID] {
            result = append(result, cloneMatch(match))
        }
    }

    sort.Slice(result, func(i, j int) bool {
        return activityTime(result[i]).After(activityTime(result[j]))
    })
    return result, nil
}

func (r *MemoryRepository) RecordMessage(ctx context.Context, matchID string, preview string, at time.Time, recipientID int64) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    match, ok := r.matches[matchID]
    if !ok {
        return ErrMatchNotFound
    }
    match.LastMessage = &preview
    match.LastMessageAt = &at
    match.UnreadCount[recipientID]++
    return nil
}

func (r *MemoryRepository) ResetUnread(ctx context.Context, matchID string, userID int64) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    match, ok := r.matches[matchID]
    if !ok {
        return ErrMatchNotFound
    }
    match.UnreadCount[userID] = 0
    return nil
}

func (r *MemoryRepository) Hide(ctx context.Context, matchID string, userID int64) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    match, ok := r.matches[matchID]
    if !ok {
        return ErrMatchNotFound
    }
    match.HiddenFor[userID] = true
    return nil
}

func (r *MemoryRepository) DeleteMatch(ctx context.Context, matchID string) error {
    r.mu.Lock()
    defer r.mu.Unlock()

    if _, ok := r.matches[matchID]; !ok {
        return ErrMatchNotFound
    }
    delete(r.matches, matchID)
    return nil
}

// Count returns the number of stored matches (test helper)
func (r *MemoryRepository) Count() int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return len(r.matches)
}

func activityTime(m *Match) time.Time {
    if m.LastMessageAt != nil {
        return *m.LastMessageAt
    }
    return m.CreatedAt
}

func cloneMatch(m *Match) *Match {
    clone := *m
    clone.UnreadCount = make(map[int64]int, len(m.UnreadCount))
    for k, v := range m.UnreadCount {
        clone.UnreadCount[k] = v
    }
    clone.HiddenFor = make(map[int64]bool, len(m.HiddenFor))
    for k, v := range m.HiddenFor {
        clone.HiddenFor[k] = v
    }
    return &clone
}
