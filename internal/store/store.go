// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
)

// Repository defines the interface for persisting tickets, feedback, and the
// conversation log.
type Repository interface {
	// CreateTicket persists a new ticket.
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error

	// GetTicket retrieves a ticket by its ID. Returns nil when not found.
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)

	// ListTicketsByUser retrieves all tickets of one user, newest first.
	ListTicketsByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)

	// ListTickets retrieves all tickets, newest first.
	ListTickets(ctx context.Context) ([]*domain.Ticket, error)

	// UpdateTicketStatus sets the status of a ticket.
	UpdateTicketStatus(ctx context.Context, ticketID, status string) error

	// SaveFeedback persists an end-of-conversation feedback record.
	SaveFeedback(ctx context.Context, fb *domain.Feedback) error

	// SaveConversationTurn appends one turn to the conversation log.
	SaveConversationTurn(ctx context.Context, turn *domain.ConversationTurn) error

	// UpsertUser creates or refreshes a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
