// internal/users/postgres.go

package users

import (
    "context"
    "database/sql"

    "github.com/jmoiron/sqlx"
)

type postgresStore struct {
    db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) Store {
    return &postgresStore{db: db}
}

func (s *postgresStore) GetUser(ctx context.Context, id int64) (*UserInfo, error) {
    query := `
        SELECT id, name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone, created_at
        FROM users
        WHERE id = $1`

    var user UserInfo
    err := s.db.GetContext(ctx, &user, query, id)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &user, nil
}
