package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/catalog"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/resolver"
)

// memoryRepo is an in-memory store.Repository for tests.
type memoryRepo struct {
	mu       sync.Mutex
	tickets  map[string]*domain.Ticket
	feedback []*domain.Feedback
	turns    []*domain.ConversationTurn
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tickets: map[string]*domain.Ticket{}}
}

func (m *memoryRepo) CreateTicket(_ context.Context, t *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[t.TicketID] = t
	return nil
}

func (m *memoryRepo) GetTicket(_ context.Context, id string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickets[id], nil
}

func (m *memoryRepo) ListTicketsByUser(_ context.Context, userID string) ([]*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Ticket
	for _, t := range m.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListTickets(_ context.Context) ([]*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Ticket
	for _, t := range m.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (m *memoryRepo) UpdateTicketStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, found := m.tickets[id]; found {
		t.Status = status
	}
	return nil
}

func (m *memoryRepo) SaveFeedback(_ context.Context, fb *domain.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, fb)
	return nil
}

func (m *memoryRepo) SaveConversationTurn(_ context.Context, turn *domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
	return nil
}

func (m *memoryRepo) UpsertUser(context.Context, *domain.User) error          { return nil }
func (m *memoryRepo) UpdateLastSeen(context.Context, string, time.Time) error { return nil }
func (m *memoryRepo) Ping(context.Context) error                              { return nil }
func (m *memoryRepo) Close() error                                            { return nil }

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	sessions, err := NewSessions(128)
	if err != nil {
		t.Fatalf("new sessions: %v", err)
	}
	repo := newMemoryRepo()
	return NewService(cat, resolver.NewKeyword(cat), repo, sessions), repo
}

func send(t *testing.T, s *Service, sessionID string, action protocol.Action, mutate ...func(*protocol.ChatRequest)) *protocol.ChatResponse {
	t.Helper()
	req := &protocol.ChatRequest{Action: action, SessionID: sessionID}
	for _, fn := range mutate {
		fn(req)
	}
	resp := s.Handle(context.Background(), req, "user-1", "Priya")
	if !resp.Success && resp.Error == "" {
		t.Fatalf("action %s: failed without error text", action)
	}
	return resp
}

func withValue(v string) func(*protocol.ChatRequest)   { return func(r *protocol.ChatRequest) { r.Value = v } }
func withMessage(m string) func(*protocol.ChatRequest) { return func(r *protocol.ChatRequest) { r.Message = m } }

func buttonValues(resp *protocol.ChatResponse) []string {
	var out []string
	for _, b := range resp.Buttons {
		out = append(out, b.Value)
	}
	return out
}

func findButton(resp *protocol.ChatResponse, action protocol.Action) (protocol.Button, bool) {
	for _, b := range resp.Buttons {
		if b.Action == action {
			return b, true
		}
	}
	return protocol.Button{}, false
}

func TestStartGreetsAndOffersTicketTypes(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	resp := send(t, s, "", protocol.ActionStart)
	if resp.SessionID == "" {
		t.Fatal("start response carries no session id")
	}
	if !strings.Contains(resp.Response, "Priya") {
		t.Errorf("greeting does not address the user: %q", resp.Response)
	}
	if !resp.State.Is(protocol.StateAwaitingTicketType) {
		t.Errorf("state = %s, want awaiting_ticket_type", resp.State)
	}
	vals := buttonValues(resp)
	if len(vals) != 2 || vals[0] != "Incident" || vals[1] != "Request" {
		t.Errorf("ticket type buttons = %v", vals)
	}
}

func TestUnknownActionFallsBackToStart(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	resp := s.Handle(context.Background(), &protocol.ChatRequest{Action: "definitely_not_an_action"}, "user-1", "Priya")
	if !resp.State.Is(protocol.StateAwaitingTicketType) {
		t.Errorf("state = %s, want awaiting_ticket_type", resp.State)
	}
}

// TestIncidentHappyPath walks the full narrowing chain down to a solution,
// reports it unresolved, creates a ticket with attachments, and rates the
// experience.
func TestIncidentHappyPath(t *testing.T) {
	t.Parallel()
	s, repo := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID

	resp := send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))
	if !resp.State.Is(protocol.StateAwaitingSmartCat) {
		t.Fatalf("state = %s, want awaiting_smart_category", resp.State)
	}
	category := resp.Buttons[0].Value

	resp = send(t, s, sid, protocol.ActionSelectSmartCategory, withValue(category))
	if !resp.State.Is(protocol.StateAwaitingCategory) {
		t.Fatalf("state = %s, want awaiting_category", resp.State)
	}
	sub := resp.Buttons[0].Value

	resp = send(t, s, sid, protocol.ActionSelectCategory, withValue(sub))
	if !resp.State.Is(protocol.StateAwaitingType) {
		t.Fatalf("state = %s, want awaiting_type", resp.State)
	}
	typ := resp.Buttons[0].Value

	resp = send(t, s, sid, protocol.ActionSelectType, withValue(typ))
	if !resp.State.Is(protocol.StateAwaitingItem) {
		t.Fatalf("state = %s, want awaiting_item", resp.State)
	}
	item := resp.Buttons[0].Value

	resp = send(t, s, sid, protocol.ActionSelectItem, withValue(item))
	if !resp.State.Is(protocol.StateAwaitingIssue) {
		t.Fatalf("state = %s, want awaiting_issue", resp.State)
	}
	if _, found := findButton(resp, protocol.ActionOtherIssue); !found {
		t.Error("issue list has no 'not listed' escape hatch")
	}

	resp = send(t, s, sid, protocol.ActionSelectIssue, withValue("0"))
	if !resp.State.Is(protocol.StateShowingSolution) {
		t.Fatalf("state = %s, want showing_solution", resp.State)
	}
	if len(resp.Solutions) == 0 {
		t.Fatal("solution response has no feedback steps")
	}

	// Per-step feedback is telemetry and must not move the state.
	fb := send(t, s, sid, protocol.ActionSolutionHelpful, withValue("1:tried"))
	if !fb.State.Is(protocol.StateShowingSolution) {
		t.Errorf("solution_helpful moved state to %s", fb.State)
	}

	resp = send(t, s, sid, protocol.ActionSolutionNotResolved)
	if !resp.State.Is(protocol.StateTicketConfirmation) {
		t.Fatalf("state = %s, want awaiting_ticket_confirmation", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionPreviewTicket)
	if !resp.ShowAttachmentUpload {
		t.Error("ticket preview does not enable attachment upload")
	}

	resp = send(t, s, sid, protocol.ActionConfirmTicket, func(r *protocol.ChatRequest) {
		r.AttachmentURLs = []string{"http://files/a.png", "http://files/b.png"}
	})
	if resp.TicketID == "" {
		t.Fatal("confirm_ticket returned no ticket id")
	}
	if !resp.ShowStarRating {
		t.Error("ticket creation response does not show star rating")
	}
	if !resp.State.Is(protocol.StateEndRating) {
		t.Errorf("state = %s, want end_rating", resp.State)
	}

	ticket, err := repo.GetTicket(context.Background(), resp.TicketID)
	if err != nil || ticket == nil {
		t.Fatalf("ticket not persisted: %v", err)
	}
	if len(ticket.AttachmentURLs) != 2 || ticket.AttachmentURLs[0] != "http://files/a.png" {
		t.Errorf("attachment urls = %v", ticket.AttachmentURLs)
	}
	if ticket.Status != domain.StatusOpen {
		t.Errorf("ticket status = %q, want open", ticket.Status)
	}

	resp = send(t, s, sid, protocol.ActionSubmitRating, withValue("4"))
	if !resp.State.Is(protocol.StateEndFeedbackText) {
		t.Fatalf("state = %s, want end_feedback_text", resp.State)
	}
	if !resp.ShowTextInput {
		t.Error("comment prompt does not open text input")
	}

	resp = send(t, s, sid, protocol.ActionSubmitFeedbackText, withMessage("quick and painless"))
	if !resp.State.Is(protocol.StateFeedbackComplete) {
		t.Fatalf("state = %s, want feedback_complete", resp.State)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.feedback) != 1 {
		t.Fatalf("feedback records = %d, want 1", len(repo.feedback))
	}
	got := repo.feedback[0]
	if got.Rating != 4 || got.FeedbackText != "quick and painless" {
		t.Errorf("feedback = %+v", got)
	}
	if got.SolutionFeedback["1"] != "tried" {
		t.Errorf("solution feedback = %v", got.SolutionFeedback)
	}
	if got.TicketID != ticket.TicketID {
		t.Errorf("feedback ticket id = %q, want %q", got.TicketID, ticket.TicketID)
	}
}

func TestSolutionResolvedGoesToRating(t *testing.T) {
	t.Parallel()
	s, repo := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))
	resp := send(t, s, sid, protocol.ActionFreeText, withMessage("vpn keeps disconnecting"))
	if !resp.State.Is(protocol.StateShowingSolution) {
		t.Fatalf("free text did not resolve to a solution, state = %s", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionSolutionResolved)
	if !resp.ShowStarRating || !resp.State.Is(protocol.StateEndRating) {
		t.Fatalf("resolved path did not reach rating: state = %s", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionSkipRating)
	if !resp.State.Is(protocol.StateFeedbackComplete) {
		t.Fatalf("state = %s, want feedback_complete", resp.State)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.feedback) != 1 {
		t.Fatalf("feedback records = %d, want 1", len(repo.feedback))
	}
	if repo.feedback[0].Rating != 0 {
		t.Errorf("skipped rating persisted as %d", repo.feedback[0].Rating)
	}
	if repo.feedback[0].FlowType != domain.FlowSolutionResolved {
		t.Errorf("flow type = %q", repo.feedback[0].FlowType)
	}
}

func TestFreeTextNoMatchOffersTicket(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))
	resp := send(t, s, sid, protocol.ActionFreeText, withMessage("xyzzy plugh frobnicate"))
	if !resp.State.Is(protocol.StateTicketConfirmation) {
		t.Fatalf("state = %s, want awaiting_ticket_confirmation", resp.State)
	}
	if _, found := findButton(resp, protocol.ActionConfirmTicket); !found {
		t.Error("no-match response offers no ticket creation")
	}
}

func TestCategoryOtherCarriesCategoryInState(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))

	resp := send(t, s, sid, protocol.ActionCategoryOther, func(r *protocol.ChatRequest) {
		r.Category = "Network Connection Issues"
	})
	if !resp.State.IsCategoryOther() {
		t.Fatalf("state = %s, want category_other", resp.State)
	}
	if resp.State.Category != "Network Connection Issues" {
		t.Errorf("state category = %q", resp.State.Category)
	}
	if resp.State.String() != "category_other_Network Connection Issues" {
		t.Errorf("wire state = %q", resp.State.String())
	}
	if !resp.ShowTextInput {
		t.Error("category_other does not open text input")
	}
}

func TestGoBackWalksToPreviousListing(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))
	cats := send(t, s, sid, protocol.ActionGoBack)
	if !cats.State.Is(protocol.StateAwaitingTicketType) {
		t.Fatalf("go_back from categories landed on %s", cats.State)
	}

	// Deeper: type list back to subcategory list.
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))
	catResp := send(t, s, sid, protocol.ActionSelectSmartCategory, withValue("Network Connection Issues"))
	sub := catResp.Buttons[0].Value
	send(t, s, sid, protocol.ActionSelectCategory, withValue(sub))
	back := send(t, s, sid, protocol.ActionGoBack)
	if !back.State.Is(protocol.StateAwaitingCategory) {
		t.Fatalf("go_back from types landed on %s", back.State)
	}
}

func TestRestartResetsConversation(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Incident"))
	send(t, s, sid, protocol.ActionSelectSmartCategory, withValue("Network Connection Issues"))

	resp := send(t, s, sid, protocol.ActionRestart)
	if !resp.State.Is(protocol.StateAwaitingTicketType) {
		t.Fatalf("restart landed on %s", resp.State)
	}
	// Restart twice in a row is idempotent.
	again := send(t, s, sid, protocol.ActionRestart)
	if again.Response != resp.Response {
		t.Error("second restart produced a different screen")
	}
	if len(again.Buttons) != len(resp.Buttons) {
		t.Error("second restart produced different buttons")
	}
}

func TestRequestHardwareFlow(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID

	resp := send(t, s, sid, protocol.ActionSelectTicketType, withValue("Request"))
	if !resp.State.Is(protocol.StateRequestCategory) {
		t.Fatalf("state = %s, want request_category", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionSelectRequestCategory, withValue("hardware"))
	if !resp.State.Is(protocol.StateRequestHardwareType) {
		t.Fatalf("state = %s, want request_hardware_type", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionSelectHardwareItem, withValue("Laptop"))
	if !resp.State.Is(protocol.StateRequestHardwareBrand) {
		t.Fatalf("state = %s, want request_hardware_brand", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionSelectHardwareBrand, withValue("Dell Laptop"))
	if !resp.State.Is(protocol.StateRequestPreview) {
		t.Fatalf("state = %s, want request_preview", resp.State)
	}
	if !strings.Contains(resp.Response, "Dell Laptop") {
		t.Errorf("preview does not name the item: %q", resp.Response)
	}

	resp = send(t, s, sid, protocol.ActionSubmitRequest)
	if !resp.State.Is(protocol.StateRequestComplete) {
		t.Fatalf("state = %s, want request_complete", resp.State)
	}
	if !strings.Contains(resp.Response, "Maheshwar") {
		t.Errorf("submission does not name the approving manager: %q", resp.Response)
	}

	resp = send(t, s, sid, protocol.ActionCheckApproval)
	if !resp.State.Is(protocol.StateManagerApproved) {
		t.Fatalf("state = %s, want manager_approved", resp.State)
	}
	if !strings.Contains(resp.Response, "Approved") {
		t.Errorf("approval check response: %q", resp.Response)
	}
}

func TestRequestInternetAccessCheckboxes(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Request"))
	send(t, s, sid, protocol.ActionSelectRequestCategory, withValue("access"))

	resp := send(t, s, sid, protocol.ActionSelectAccessType, withValue("internet"))
	if !resp.ShowCheckboxes || len(resp.Checkboxes) == 0 {
		t.Fatal("internet access does not present checkboxes")
	}

	resp = send(t, s, sid, protocol.ActionConfirmInternetAccess, func(r *protocol.ChatRequest) {
		r.SelectedOptions = []string{"HR Portal Access", "Developer Tools Access"}
	})
	if !resp.State.Is(protocol.StateRequestPreview) {
		t.Fatalf("state = %s, want request_preview", resp.State)
	}
	if !strings.Contains(resp.Response, "HR Portal Access") {
		t.Errorf("preview does not list selected options: %q", resp.Response)
	}
}

func TestRequestSharedFolderFlow(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	sid := start.SessionID
	send(t, s, sid, protocol.ActionSelectTicketType, withValue("Request"))
	send(t, s, sid, protocol.ActionSelectRequestCategory, withValue("access"))

	resp := send(t, s, sid, protocol.ActionSelectAccessType, withValue("shared_folder"))
	if !resp.ShowTextInput {
		t.Fatal("shared folder path prompt does not open text input")
	}

	resp = send(t, s, sid, protocol.ActionFreeText, withMessage(`\\server\finance\reports`))
	if !resp.State.Is(protocol.StateRequestFolderPermission) {
		t.Fatalf("state = %s, want request_shared_folder_permission", resp.State)
	}

	resp = send(t, s, sid, protocol.ActionSelectFolderPermission, withValue("Read/Write"))
	if !resp.State.Is(protocol.StateRequestPreview) {
		t.Fatalf("state = %s, want request_preview", resp.State)
	}
	if !strings.Contains(resp.Response, `\\server\finance\reports`) {
		t.Errorf("preview does not show the folder path: %q", resp.Response)
	}
}

func TestConversationLogWritten(t *testing.T) {
	t.Parallel()
	s, repo := newTestService(t)

	start := send(t, s, "", protocol.ActionStart)
	send(t, s, start.SessionID, protocol.ActionSelectTicketType, withValue("Incident"))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.turns) != 2 {
		t.Fatalf("conversation log rows = %d, want 2", len(repo.turns))
	}
	if repo.turns[1].Action != "select_ticket_type" {
		t.Errorf("second turn action = %q", repo.turns[1].Action)
	}
}

func TestSessionsBounded(t *testing.T) {
	t.Parallel()
	sessions, err := NewSessions(2)
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		sessions.Put(newConversation(id, "user-1", "Priya"))
	}
	if sessions.Len() != 2 {
		t.Errorf("cache len = %d, want 2", sessions.Len())
	}
	if _, found := sessions.Get("user-1", "a"); found {
		t.Error("oldest session survived past capacity")
	}
}
