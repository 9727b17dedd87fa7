package domain

import (
	"time"
)

// User is a known requester. Identity is anonymous-cookie based; the record
// exists so tickets and feedback can be grouped per person.
type User struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
