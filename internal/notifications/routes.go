// internal/notifications/routes.go

package notifications

import (
    "net/http"

    "github.com/gorilla/mux"
)

// RegisterRoutes registers device token routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
    api := router.PathPrefix("/api/v1").Subrouter()
    api.Use(authMiddleware)

    api.HandleFunc("/devices", handler.RegisterToken).Methods("POST")
    api.HandleFunc("/devices/{token}", handler.UnregisterToken).Methods("DELETE")
}
