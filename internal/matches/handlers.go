// internal/matches/handlers.go

package matches

import (
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

// ListMatches handles GET /api/v1/matches
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
    userID, ok := auth.GetUserIDFromContext(r.Context())
    if !ok {
        utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
        return
    }

    views, err := h.service.ListMatches(r.Context(), userID)
    if err != nil {
        utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
        return
    }

    utils.SuccessResponse(w, views, http.StatusOK)
}
