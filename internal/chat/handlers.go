// internal/chat/handlers.go

package chat

import (
    "encoding/json"
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"
    "github.com/gorilla/websocket"

    "github.com/emberlyapp/emberly-backend/internal/auth"
    "github.com/emberlyapp/emberly-backend/internal/common/utils"
    "github.com/emberlyapp/emberly-backend/internal/matches"
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin: func(r *http.Request) bool {
        // In production, implement proper CORS checking
        return true
    },
}

type Handler struct {
    service Service
    hub     *Hub
}

func NewHandler(service Service, hub *Hub) *Handler {
    return &Handler{service: service, hub: hub}
}

// ServeWS handles GET /api/v1/ws and upgrades to a websocket connection
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Printf("WebSocket upgrade failed: %v", err)
        return
    }

    client := NewClient(h.hub, conn, userID, h.service)
    client.Start()
}

type sendMessageBody struct {
    Content string `json:"content" validate:"required,max=2000"`
}

// SendMessage handles POST /api/v1/matches/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }
    matchID := mux.Vars(r)["id"]

    var body sendMessageBody
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        utils.ErrorResponse(w, "Invalid request", http.StatusBadRequest)
        return
    }
    if err := utils.ValidateStruct(body); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    message, err := h.service.SendMessage(r.Context(), matchID, userID, body.Content)
    if err != nil {
        h.writeError(w, err)
        return
    }

    utils.SuccessResponse(w, message, http.StatusCreated)
}

// GetHistory handles GET /api/v1/matches/{id}/messages
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }
    matchID := mux.Vars(r)["id"]

    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

    messages, err := h.service.GetHistory(r.Context(), matchID, userID, limit)
    if err != nil {
        h.writeError(w, err)
        return
    }

    utils.SuccessResponse(w, messages, http.StatusOK)
}

// MarkRead handles POST /api/v1/matches/{id}/mark-read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }
    matchID := mux.Vars(r)["id"]

    if err := h.service.MarkRead(r.Context(), matchID, userID); err != nil {
        h.writeError(w, err)
        return
    }

    utils.MessageResponse(w, "Messages marked as read", http.StatusOK)
}

// HideMatch handles POST /api/v1/matches/{id}/hide
func (h *Handler) HideMatch(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }
    matchID := mux.Vars(r)["id"]

    if err := h.service.HideMatch(r.Context(), matchID, userID); err != nil {
        h.writeError(w, err)
        return
    }

    utils.MessageResponse(w, "Match hidden", http.StatusOK)
}

// Unmatch handles DELETE /api/v1/matches/{id}
func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }
    matchID := mux.Vars(r)["id"]

    if err := h.service.Unmatch(r.Context(), matchID, userID); err != nil {
        h.writeError(w, err)
        return
    }

    utils.MessageResponse(w, "Match deleted", http.StatusOK)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, matches.ErrMatchNotFound):
        utils.ErrorResponse(w, "Match not found", http.StatusNotFound)
    case errors.Is(err, ErrNotParticipant):
        utils.ErrorResponse(w, "Forbidden", http.StatusForbidden)
    case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
    default:
        utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
    }
}
