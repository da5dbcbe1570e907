// internal/matches/routes.go

package matches

import (
    "net/http"

    "github.com/gorilla/mux"
)

// RegisterRoutes registers match routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
    api := router.PathPrefix("/api/v1").Subrouter()
    api.Use(authMiddleware)

    api.HandleFunc("/matches", handler.ListMatches).Methods("GET")
}
