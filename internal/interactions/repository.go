// internal/interactions/repository.go

package interactions

import (
    "context"
)

type Repository interface {
    // Interactions
    CreateInteraction(ctx context.Context, interaction *Interaction) error
    HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error)
}
