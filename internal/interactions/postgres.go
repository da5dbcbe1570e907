// internal/interactions/postgres.go

package interactions

import (
    "context"

    "github.com/jmoiron/sqlx"
)

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

// CreateInteraction appends an interaction record
func (r *postgresRepository) CreateInteraction(ctx context.Context, interaction *Interaction) error {
    query := `
        INSERT INTO interactions (from_user_id, to_user_id, kind, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

    return r.db.QueryRowContext(
        ctx, query,
        interaction.FromUserID, interaction.ToUserID,
        interaction.Kind, interaction.CreatedAt,
    ).Scan(&interaction.ID)
}

// HasLike reports whether fromUserID has ever liked toUserID
func (r *postgresRepository) HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
    query := `
        SELECT EXISTS(
            SELECT 1 FROM interactions
            WHERE from_user_id = $1 AND to_user_id = $2 AND kind = $3
        )`

    var exists bool
    err := r.db.QueryRowContext(ctx, query, fromUserID, toUserID, KindLike).Scan(&exists)
    return exists, err
}
