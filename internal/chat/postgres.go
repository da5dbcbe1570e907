// internal/chat/postgres.go

package chat

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

func (r *postgresRepository) CreateMessage(ctx context.Context, message *Message) error {
    query := `
        INSERT INTO messages (id, match_id, sender_id, content, created_at, read)
        VALUES ($1, $2, $3, $4, $5, $6)`

    _, err := r.db.ExecContext(ctx, query,
        message.ID, message.MatchID, message.SenderID,
        message.Content, message.CreatedAt, message.Read)
    return err
}

func (r *postgresRepository) ListMessages(ctx context.Context, matchID string, limit int) ([]*Message, error) {
    query := `
        SELECT id, match_id, sender_id, content, created_at, read
        FROM messages
        WHERE match_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

    messages := []*Message{}
    if err := r.db.SelectContext(ctx, &messages, query, matchID, limit); err != nil {
        return nil, err
    }
    return messages, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, matchID string, readerID int64) error {
    query := `
        UPDATE messages
        SET read = TRUE
        WHERE match_id = $1 AND sender_id != $2 AND NOT read`

    _, err := r.db.ExecContext(ctx, query, matchID, readerID)
    return err
}

// DeleteForMatch is a no-op when the match row was already deleted, because
// the foreign key on messages cascades. It stays explicit so the memory
// repository behaves the same and unmatch does not depend on schema details.
func (r *postgresRepository) DeleteForMatch(ctx context.Context, matchID string) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE match_id = $1`, matchID)
    return err
}
