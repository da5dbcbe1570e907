// internal/interactions/handlers.go

package interactions

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/emberlyapp/emberly-backend/internal/auth"
    "github.com/emberlyapp/emberly-backend/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

// SubmitLike handles POST /api/v1/likes
func (h *Handler) SubmitLike(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    var req InteractionRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request", http.StatusBadRequest)
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    interaction, err := h.service.SubmitLike(r.Context(), userID, req.ToUserID)
    if err != nil {
        h.writeError(w, err)
        return
    }

    utils.SuccessResponse(w, interaction, http.StatusCreated)
}

// SubmitPass handles POST /api/v1/passes
func (h *Handler) SubmitPass(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    var req InteractionRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.ErrorResponse(w, "Invalid request", http.StatusBadRequest)
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
        return
    }

    interaction, err := h.service.SubmitPass(r.Context(), userID, req.ToUserID)
    if err != nil {
        h.writeError(w, err)
        return
    }

    utils.SuccessResponse(w, interaction, http.StatusCreated)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, ErrMissingTarget), errors.Is(err, ErrSelfInteraction):
        utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
    case errors.Is(err, ErrRateLimitExceeded):
        utils.ErrorResponse(w, "Too many likes, try again later", http.StatusTooManyRequests)
    default:
        utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
    }
}
