// internal/notifications/postgres.go

package notifications

import (
    "context"

    "github.com/jmoiron/sqlx"
)

type postgresTokenRepository struct {
    db *sqlx.DB
}

func NewPostgresTokenRepository(db *sqlx.DB) TokenRepository {
    return &postgresTokenRepository{db: db}
}

// SaveToken upserts the token; re-registering moves it to the current user
func (r *postgresTokenRepository) SaveToken(ctx context.Context, token *PushToken) error {
    query := `
        INSERT INTO push_tokens (user_id, token, platform, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (token) DO UPDATE
        SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform`

    _, err := r.db.ExecContext(ctx, query, token.UserID, token.Token, token.Platform, token.CreatedAt)
    return err
}

func (r *postgresTokenRepository) GetTokens(ctx context.Context, userID int64) ([]string, error) {
    tokens := []string{}
    err := r.db.SelectContext(ctx, &tokens,
        `SELECT token FROM push_tokens WHERE user_id = $1`, userID)
    if err != nil {
        return nil, err
    }
    return tokens, nil
}

func (r *postgresTokenRepository) DeleteToken(ctx context.Context, token string) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM push_tokens WHERE token = $1`, token)
    return err
}
