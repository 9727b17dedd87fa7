package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/identity"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// RegisterRoutes mounts all API endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.HandleChat)
	r.Post("/api/upload/image", h.HandleUploadImage)
	r.Get("/api/tickets", h.HandleListTickets)
	r.Get("/api/tickets/user/{userID}", h.HandleListUserTickets)
	r.Get("/api/tickets/{ticketID}", h.HandleGetTicket)
	r.Put("/api/tickets/{ticketID}/status", h.HandleUpdateTicketStatus)
}

// HandleChat is the single conversation endpoint: one action in, the full
// next screen out. Application-level failures still reply 200 with
// success:false and a restart affordance, so the client always has a way
// forward.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req protocol.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSON(w, http.StatusOK, &protocol.ChatResponse{
			Success: false,
			Error:   "invalid request body",
			Buttons: []protocol.Button{restartButton()},
		})
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	username := identity.UsernameOverride(r, identity.UsernameFromContext(r.Context()))

	resp := h.chat.Handle(r.Context(), &req, userID, username)
	JSON(w, http.StatusOK, resp)
}

func restartButton() protocol.Button {
	return protocol.Button{
		ID:     "restart",
		Label:  "🔄 Start Over",
		Action: protocol.ActionRestart,
		Value:  "restart",
	}
}
