// internal/matches/postgres.go

package matches

import (
    "context"
    "database/sql"
    "time"

    "github.com/jmoiron/sqlx"
)

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

// matchRow mirrors the matches table layout
type matchRow struct {
    ID            string     `db:"id"`
    UserA         int64      `db:"user_a"`
    UserB         int64      `db:"user_b"`
    CreatedAt     time.Time  `db:"created_at"`
    LastMessage   *string    `db:"last_message"`
    LastMessageAt *time.Time `db:"last_message_at"`
    UnreadA       int        `db:"unread_a"`
    UnreadB       int        `db:"unread_b"`
    HiddenA       bool       `db:"hidden_a"`
    HiddenB       bool       `db:"hidden_b"`
}

func (row *matchRow) toMatch() *Match {
    match := &Match{
        ID:            row.ID,
        UserA:         row.UserA,
        UserB:         row.UserB,
        CreatedAt:     row.CreatedAt,
        LastMessage:   row.LastMessage,
        LastMessageAt: row.LastMessageAt,
        UnreadCount: map[int64]int{
            row.UserA: row.UnreadA,
            row.UserB: row.UnreadB,
        },
        HiddenFor: map[int64]bool{},
    }
    if row.HiddenA {
        match.HiddenFor[row.UserA] = true
    }
    if row.HiddenB {
        match.HiddenFor[row.UserB] = true
    }
    return match
}

// CreateIfAbsent relies on the primary key for idempotence: concurrent
// detections of the same pair race on the insert, and the loser is a no-op.
func (r *postgresRepository) CreateIfAbsent(ctx context.Context, match *Match) (bool, error) {
    query := `
        INSERT INTO matches (id, user_a, user_b, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO NOTHING`

    result, err := r.db.ExecContext(ctx, query, match.ID, match.UserA, match.UserB, match.CreatedAt)
    if err != nil {
        return false, err
    }

    inserted, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return inserted > 0, nil
}

func (r *postgresRepository) GetMatch(ctx context.Context, id string) (*Match, error) {
    query := `
        SELECT id, user_a, user_b, created_at, last_message, last_message_at,
               unread_a, unread_b, hidden_a, hidden_b
        FROM matches
        WHERE id = $1`

    var row matchRow
    err := r.db.GetContext(ctx, &row, query, id)
    if err == sql.ErrNoRows {
        return nil, ErrMatchNotFound
    }
    if err != nil {
        return nil, err
    }

    return row.toMatch(), nil
}

func (r *postgresRepository) ListForUser(ctx context.Context, userID int64) ([]*Match, error) {
    query := `
        SELECT id, user_a, user_b, created_at, last_message, last_message_at,
               unread_a, unread_b, hidden_a, hidden_b
        FROM matches
        WHERE (user_a = $1 AND NOT hidden_a) OR (user_b = $1 AND NOT hidden_b)
        ORDER BY COALESCE(last_message_at, created_at) DESC`

    var rows []matchRow
    if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
        return nil, err
    }

    result := make([]*Match, 0, len(rows))
    for i := range rows {
        result = append(result, rows[i].toMatch())
    }
    return result, nil
}

// RecordMessage updates the preview and bumps the recipient's counter with a
// relative increment, never read-modify-write, so concurrent sends cannot
// lose updates.
func (r *postgresRepository) RecordMessage(ctx context.Context, matchID string, preview string, at time.Time, recipientID int64) error {
    query := `
        UPDATE matches
        SET last_message = $1,
            last_message_at = $2,
            unread_a = unread_a + CASE WHEN user_a = $3 THEN 1 ELSE 0 END,
            unread_b = unread_b + CASE WHEN user_b = $3 THEN 1 ELSE 0 END
        WHERE id = $4`

    result, err := r.db.ExecContext(ctx, query, preview, at, recipientID, matchID)
    if err != nil {
        return err
    }
    return checkFound(result)
}

func (r *postgresRepository) ResetUnread(ctx context.Context, matchID string, userID int64) error {
    query := `
        UPDATE matches
        SET unread_a = CASE WHEN user_a = $1 THEN 0 ELSE unread_a END,
            unread_b = CASE WHEN user_b = $1 THEN 0 ELSE unread_b END
        WHERE id = $2`

    result, err := r.db.ExecContext(ctx, query, userID, matchID)
    if err != nil {
        return err
    }
    return checkFound(result)
}

func (r *postgresRepository) Hide(ctx context.Context, matchID string, userID int64) error {
    query := `
        UPDATE matches
        SET hidden_a = hidden_a OR (user_a = $1),
            hidden_b = hidden_b OR (user_b = $1)
        WHERE id = $2`

    result, err := r.db.ExecContext(ctx, query, userID, matchID)
    if err != nil {
        return err
    }
    return checkFound(result)
}

// DeleteMatch removes the record; messages cascade via their foreign key
func (r *postgresRepository) DeleteMatch(ctx context.Context, matchID string) error {
    result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
    if err != nil {
        return err
    }
    return checkFound(result)
}

func checkFound(result sql.Result) error {
    affected, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrMatchNotFound
    }
    return nil
}
