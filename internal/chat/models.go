// internal/chat/models.go

package chat

import (
    "encoding/json"
    "time"
)

// Message is one chat message inside a match
type Message struct {
    ID        string    `json:"id" db:"id"`
    MatchID   string    `json:"match_id" db:"match_id"`
    SenderID  int64     `json:"sender_id" db:"sender_id"`
    Content   string    `json:"content" db:"content"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
    Read      bool      `json:"read" db:"read"`
}

// WebSocket message types
type WSMessage struct {
    Type      string          `json:"type"`
    Data      json.RawMessage `json:"data"`
    Timestamp time.Time       `json:"timestamp"`
}

type WSMessageType string

const (
    WSTypeJoinRoom    WSMessageType = "join_room"
    WSTypeSendMessage WSMessageType = "send_message"
    WSTypeNewMessage  WSMessageType = "receive_message"
    WSTypeMarkRead    WSMessageType = "read"
    WSTypeError       WSMessageType = "error"
)

// Request DTOs. Rooms are keyed by match id; client_time is accepted for
// client-side display but the server timestamp is authoritative.
type JoinRoomRequest struct {
    RoomID string `json:"room_id" validate:"required"`
}

type SendMessageRequest struct {
    RoomID     string     `json:"room_id" validate:"required"`
    Content    string     `json:"content" validate:"required,max=2000"`
    ClientTime *time.Time `json:"client_time,omitempty"`
}

type MarkReadRequest struct {
    RoomID string `json:"room_id" validate:"required"`
}

// WSError represents a WebSocket error payload
type WSError struct {
    Code    string `json:"code"`
    Message string `json:"message"`
}
