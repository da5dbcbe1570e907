// internal/users/memory.go

package users

import (
    "context"
    "sync"
)

// MemoryStore is an in-memory Store for tests
type MemoryStore struct {
    mu    sync.RWMutex
    users map[int64]*UserInfo
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{users: make(map[int64]*UserInfo)}
}

func (s *MemoryStore) AddUser(user *UserInfo) {
    s.mu.Lock()
    defer s.mu.Unlock()
    clone := *user
    s.users[user.ID] = &clone
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*UserInfo, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()

    user, ok := s.users[id]
    if !ok {
        return nil, ErrUserNotFound
    }
    clone := *user
    return &clone, nil
}
