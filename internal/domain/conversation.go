package domain

import (
	"time"
)

// ConversationTurn is one append-only log row: a single action handled for a
// session and the state it produced.
type ConversationTurn struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Message   string    `json:"message,omitempty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
