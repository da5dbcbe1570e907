// internal/notifications/models.go

package notifications

import "time"

// PushNotification is one push message addressed to a set of device tokens
type PushNotification struct {
    Tokens []string          `json:"tokens"`
    Title  string            `json:"title"`
    Body   string            `json:"body"`
    Data   map[string]string `json:"data,omitempty"`
}

// EmailNotification is one email message
type EmailNotification struct {
    To      string `json:"to"`
    Subject string `json:"subject"`
    Body    string `json:"body"`
}

// SMSNotification is one SMS message
type SMSNotification struct {
    To      string `json:"to"`
    Message string `json:"message"`
}

// PushToken is a registered device token for a user
type PushToken struct {
    UserID    int64     `json:"user_id" db:"user_id"`
    Token     string    `json:"token" db:"token"`
    Platform  string    `json:"platform" db:"platform"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Request DTOs
type RegisterTokenRequest struct {
    Token    string `json:"token" validate:"required"`
    Platform string `json:"platform" validate:"required,oneof=ios android web"`
}
