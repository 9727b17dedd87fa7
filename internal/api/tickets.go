package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/identity"
)

// HandleListTickets returns all tickets, newest first.
func (h *Handler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.repo.ListTickets(r.Context())
	if err != nil {
		slog.Error("list tickets failed", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets, "count": len(tickets)})
}

// HandleListUserTickets returns the tickets of one user ("my tickets").
// The special id "me" resolves to the requesting identity.
func (h *Handler) HandleListUserTickets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "me" {
		userID = identity.UserIDFromContext(r.Context())
	}
	tickets, err := h.repo.ListTicketsByUser(r.Context(), userID)
	if err != nil {
		slog.Error("list user tickets failed", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets, "count": len(tickets)})
}

// HandleGetTicket returns one ticket by id.
func (h *Handler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	ticket, err := h.repo.GetTicket(r.Context(), ticketID)
	if err != nil {
		slog.Error("get ticket failed", "ticket_id", ticketID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load ticket")
		return
	}
	if ticket == nil {
		Error(w, http.StatusNotFound, "ticket not found")
		return
	}
	JSON(w, http.StatusOK, ticket)
}

// HandleUpdateTicketStatus sets a ticket's status.
func (h *Handler) HandleUpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !domain.ValidStatus(status) {
		Error(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateTicketStatus(r.Context(), ticketID, status); err != nil {
		if strings.Contains(err.Error(), "not found") {
			Error(w, http.StatusNotFound, "ticket not found")
			return
		}
		slog.Error("update ticket status failed", "ticket_id", ticketID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to update ticket")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "ticket_id": ticketID, "status": status})
}
