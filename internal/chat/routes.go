// internal/chat/routes.go

package chat

import (
    "net/http"

    "github.com/gorilla/mux"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
    api := router.PathPrefix("/api/v1").Subrouter()
    api.Use(authMiddleware)

    api.HandleFunc("/ws", handler.ServeWS).Methods("GET")
    api.HandleFunc("/matches/{id}/messages", handler.SendMessage).Methods("POST")
    api.HandleFunc("/matches/{id}/messages", handler.GetHistory).Methods("GET")
    api.HandleFunc("/matches/{id}/mark-read", handler.MarkRead).Methods("POST")
    api.HandleFunc("/matches/{id}/hide", handler.HideMatch).Methods("POST")
    api.HandleFunc("/matches/{id}", handler.Unmatch).Methods("DELETE")
}
