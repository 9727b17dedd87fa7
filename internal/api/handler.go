// Package api provides the HTTP surface of the support intake service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/chat"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/store"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/uploads"
)

// Handler bundles the service dependencies of all endpoints.
type Handler struct {
	repo    store.Repository
	chat    *chat.Service
	uploads *uploads.Store // nil when attachment storage is not configured
}

// NewHandler creates a Handler.
func NewHandler(repo store.Repository, chatSvc *chat.Service, uploadStore *uploads.Store) *Handler {
	return &Handler{repo: repo, chat: chatSvc, uploads: uploadStore}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
