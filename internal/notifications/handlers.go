// internal/notifications/handlers.go

package notifications

import (
    "encoding/json"
    "net/http"
    "time"

    "github.com/gorilla/mux"

    "github.com/emberlyapp/emberly-backend/internal/auth"
    "github.com/emberlyapp/emberly-backend/internal/common/utils"
)

type Handler struct {
    tokens TokenRepository
}

func NewHandler(tokens TokenRepository) *Handler {
    return &Handler{tokens: tokens}
}

// RegisterToken handles POST /api/v1/devices
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    var req RegisterTokenRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request", http.StatusBadRequest)
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    token := &PushToken{
        UserID:    userID,
        Token:     req.Token,
        Platform:  req.Platform,
        CreatedAt: time.Now().UTC(),
    }
    if err := h.tokens.SaveToken(r.Context(), token); err != nil {
        utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
        return
    }

    utils.SuccessResponse(w, token, http.StatusCreated)
}

// UnregisterToken handles DELETE /api/v1/devices/{token}
func (h *Handler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
    if _, ok := auth.GetUserIDFromContext(r.Context()); !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    token := mux.Vars(r)["token"]
    if err := h.tokens.DeleteToken(r.Context(), token); err != nil {
        utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
        return
    }

    utils.MessageResponse(w, "Token removed", http.StatusOK)
}
