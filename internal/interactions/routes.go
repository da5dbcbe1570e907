// internal/interactions/routes.go

package interactions

import (
    "net/http"

    "github.com/gorilla/mux"
)

// RegisterRoutes registers interaction routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
    api := router.PathPrefix("/api/v1").Subrouter()
    api.Use(authMiddleware)

    api.HandleFunc("/likes", handler.SubmitLike).Methods("POST")
    api.HandleFunc("/passes", handler.SubmitPass).Methods("POST")
}
