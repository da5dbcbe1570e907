// internal/users/models.go

package users

import "time"

// UserInfo is the read-only profile slice the engine needs for display
// names and notification delivery. Account management lives elsewhere.
type UserInfo struct {
    ID        int64     `json:"id" db:"id"`
    Name      string    `json:"name" db:"name"`
    Email     string    `json:"email,omitempty" db:"email"`
    Phone     string    `json:"phone,omitempty" db:"phone"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
}
