// internal/notifications/repository.go

package notifications

import (
    "context"
)

// TokenRepository stores device push tokens
type TokenRepository interface {
    SaveToken(ctx context.Context, token *PushToken) error
    GetTokens(ctx context.Context, userID int64) ([]string, error)
    DeleteToken(ctx context.Context, token string) error
}
