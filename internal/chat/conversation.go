// Package chat implements the server-side conversation state machine of the
// intake assistant: guided narrowing through the issue catalog, free-text
// resolution, ticket creation, the request flow, and end-of-flow feedback.
package chat

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// Conversation is the per-session state. The catalog hierarchy levels are
// Category/Subcategory/Type/Item; the legacy wire protocol calls the first
// two smart_category and category.
type Conversation struct {
	SessionID string
	UserID    string
	Username  string

	State protocol.State

	TicketType  string
	Category    string
	Subcategory string
	TypeName    string
	Item        string

	IssueIndex  int
	IssueText   string
	Solution    string
	Description string

	SolutionSteps    []string
	SolutionFeedback map[string]string
	Rating           int
	FeedbackText     string
	FlowType         string

	TicketID       string
	AttachmentURLs []string

	Request *RequestDraft

	// navStack records the listing states visited so go_back can re-render
	// the previous screen.
	navStack []string

	UpdatedAt time.Time
}

// RequestDraft accumulates the fields of the guided request flow.
type RequestDraft struct {
	Category         string // Hardware, Software, Access
	HardwareItem     string
	HardwareBrand    string
	SoftwareAction   string // Install, Remove
	SoftwareItem     string
	AccessType       string // Internet, Shared Folder, VPN
	InternetOptions  []string
	FolderPath       string
	FolderPermission string
	VPNReason        string
	Justification    string
	Submitted        bool
	ApprovedBy       string
}

func newConversation(sessionID, userID, username string) *Conversation {
	return &Conversation{
		SessionID:        sessionID,
		UserID:           userID,
		Username:         username,
		State:            protocol.State{Name: protocol.StateInitial},
		SolutionFeedback: map[string]string{},
		UpdatedAt:        time.Now(),
	}
}

// reset returns the conversation to its initial state, keeping identity.
func (c *Conversation) reset() {
	id, uid, name := c.SessionID, c.UserID, c.Username
	*c = *newConversation(id, uid, name)
}

func (c *Conversation) pushNav(state string) {
	c.navStack = append(c.navStack, state)
}

func (c *Conversation) popNav() (string, bool) {
	if len(c.navStack) == 0 {
		return "", false
	}
	top := c.navStack[len(c.navStack)-1]
	c.navStack = c.navStack[:len(c.navStack)-1]
	return top, true
}

// Sessions is a bounded in-memory conversation cache keyed by user and
// session. Evicted or unknown sessions simply start over; the server never
// trusts client state.
type Sessions struct {
	cache *lru.Cache[string, *Conversation]
}

// NewSessions creates a session cache holding at most size conversations.
func NewSessions(size int) (*Sessions, error) {
	cache, err := lru.New[string, *Conversation](size)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Sessions{cache: cache}, nil
}

func sessionKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

// Get returns the conversation for a user/session pair.
func (s *Sessions) Get(userID, sessionID string) (*Conversation, bool) {
	return s.cache.Get(sessionKey(userID, sessionID))
}

// Put stores a conversation.
func (s *Sessions) Put(c *Conversation) {
	c.UpdatedAt = time.Now()
	s.cache.Add(sessionKey(c.UserID, c.SessionID), c)
}

// Delete drops a conversation.
func (s *Sessions) Delete(userID, sessionID string) {
	s.cache.Remove(sessionKey(userID, sessionID))
}

// Len reports the number of cached conversations.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
