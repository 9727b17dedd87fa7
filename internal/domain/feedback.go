package domain

import (
	"time"
)

// Feedback flow types distinguish where in the conversation the feedback was
// collected.
const (
	FlowSolutionResolved = "solution_resolved"
	FlowTicketCreated    = "ticket_created"
	FlowRequestComplete  = "request_complete"
)

// Feedback is the end-of-conversation feedback record: an optional star
// rating, optional free-text comment, and the per-step solution feedback
// gathered while the solution was on screen.
type Feedback struct {
	ID               int64             `json:"id"`
	SessionID        string            `json:"session_id"`
	UserID           string            `json:"user_id"`
	TicketID         string            `json:"ticket_id,omitempty"`
	FlowType         string            `json:"flow_type"`
	Rating           int               `json:"rating"`
	FeedbackText     string            `json:"feedback_text,omitempty"`
	SolutionFeedback map[string]string `json:"solution_feedback,omitempty"`
	SolutionsShown   []string          `json:"solutions_shown,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}
