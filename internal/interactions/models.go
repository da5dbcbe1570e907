// internal/interactions/models.go

package interactions

import (
    "time"
)

// Interaction kinds
const (
    KindLike = "like"
    KindPass = "pass"
)

// Interaction is a single directional like/pass from one user to another.
// Immutable once written. Duplicates are tolerated by downstream consumers.
type Interaction struct {
    ID         int64     `json:"id" db:"id"`
    FromUserID int64     `json:"from_user_id" db:"from_user_id"`
    ToUserID   int64     `json:"to_user_id" db:"to_user_id"`
    Kind       string    `json:"kind" db:"kind"`
    CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Request DTOs

type InteractionRequest struct {
    ToUserID int64 `json:"to_user_id" validate:"required"`
}
