// Package domain contains core domain types for the support intake service.
package domain

import (
	"time"
)

// Ticket statuses as stored and served.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Ticket priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Ticket is one support ticket created at the end of an intake conversation.
type Ticket struct {
	TicketID       string    `json:"ticket_id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	TicketType     string    `json:"ticket_type"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory,omitempty"`
	Subject        string    `json:"subject"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	AttachmentURLs []string  `json:"attachment_urls,omitempty"`
	SessionID      string    `json:"session_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is one of the accepted ticket statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}
