package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mapleleafu/snakearena/snakearena-backend/middleware"
)

func NewRouter(h *GameHandler, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging)

	r.Handle("/ws", limiter.Limit(http.HandlerFunc(h.WsHandler))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", h.StateHandler).Methods("GET")
	api.HandleFunc("/health", h.HealthHandler).Methods("GET")
	return r
}
