// internal/users/repository.go

package users

import (
    "context"
    "errors"
)

var ErrUserNotFound = errors.New("user not found")

// Store reads user profiles
type Store interface {
    GetUser(ctx context.Context, id int64) (*UserInfo, error)
}
