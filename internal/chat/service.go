package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/catalog"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/resolver"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/store"
)

// Service is the conversation engine. One Handle call processes one action
// and returns the full next screen: message, buttons, affordance flags, and
// the new state tag.
type Service struct {
	catalog  *catalog.Catalog
	resolver resolver.Resolver
	repo     store.Repository
	sessions *Sessions
}

// NewService wires the conversation engine.
func NewService(cat *catalog.Catalog, res resolver.Resolver, repo store.Repository, sessions *Sessions) *Service {
	return &Service{catalog: cat, resolver: res, repo: repo, sessions: sessions}
}

// Handle processes one chat action for a user. A missing session ID starts a
// fresh session; an unknown action or an unknown session falls back to start.
func (s *Service) Handle(ctx context.Context, req *protocol.ChatRequest, userID, username string) *protocol.ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conv, ok := s.sessions.Get(userID, sessionID)
	if !ok {
		conv = newConversation(sessionID, userID, username)
	}

	action := req.Action
	if action == "" || !action.Known() {
		action = protocol.ActionStart
	}
	// A typed message while the state expects text is implicit free text,
	// whatever action the client attached.
	if req.Message != "" && conv.State.AwaitsFreeText() && action != protocol.ActionRestart && action != protocol.ActionStart {
		action = protocol.ActionFreeText
	}

	resp := s.dispatch(ctx, conv, action, req)
	resp.SessionID = sessionID
	resp.State = conv.State

	s.sessions.Put(conv)
	s.logTurn(ctx, conv, action, req)

	return resp
}

func (s *Service) dispatch(ctx context.Context, conv *Conversation, action protocol.Action, req *protocol.ChatRequest) *protocol.ChatResponse {
	switch action {
	case protocol.ActionStart, protocol.ActionRestart:
		return s.handleStart(conv)
	case protocol.ActionEnd:
		return s.handleEnd(conv)

	case protocol.ActionSelectTicketType:
		return s.handleSelectTicketType(conv, req.Value)
	case protocol.ActionSelectSmartCategory:
		return s.handleSelectCategory(conv, req.Value)
	case protocol.ActionSelectCategory:
		return s.handleSelectSubcategory(conv, req.Value)
	case protocol.ActionSelectType:
		return s.handleSelectType(conv, req.Value)
	case protocol.ActionSelectItem:
		return s.handleSelectItem(conv, req.Value)
	case protocol.ActionSelectIssue:
		return s.handleSelectIssue(conv, req.Value)
	case protocol.ActionOtherIssue, protocol.ActionOtherIssues:
		return s.handleOtherIssue(conv)
	case protocol.ActionCategoryOther:
		return s.handleCategoryOther(conv, req)
	case protocol.ActionGoBack:
		return s.handleGoBack(conv)
	case protocol.ActionFreeText, protocol.ActionAgentContinue:
		return s.handleFreeText(ctx, conv, req)

	case protocol.ActionSolutionResolved:
		return s.handleSolutionResolved(conv)
	case protocol.ActionSolutionNotResolved:
		return s.handleSolutionNotResolved(conv)
	case protocol.ActionPreviewTicket:
		return s.handlePreviewTicket(conv)
	case protocol.ActionConfirmTicket:
		return s.handleConfirmTicket(ctx, conv, req)
	case protocol.ActionDeclineTicket:
		return s.handleDeclineTicket(conv)

	case protocol.ActionSelectRequestCategory:
		return s.handleSelectRequestCategory(conv, req.Value)
	case protocol.ActionSelectHardwareItem:
		return s.handleSelectHardwareItem(conv, req.Value)
	case protocol.ActionSelectHardwareBrand:
		return s.handleSelectHardwareBrand(conv, req.Value)
	case protocol.ActionSelectSoftwareAction:
		return s.handleSelectSoftwareAction(conv, req.Value)
	case protocol.ActionSelectSoftwareItem:
		return s.handleSelectSoftwareItem(conv, req.Value)
	case protocol.ActionSelectAccessType:
		return s.handleSelectAccessType(conv, req.Value)
	case protocol.ActionConfirmInternetAccess:
		return s.handleConfirmInternetAccess(conv, req.SelectedOptions)
	case protocol.ActionSelectFolderPermission:
		return s.handleSelectFolderPermission(conv, req.Value)
	case protocol.ActionSubmitRequest:
		return s.handleSubmitRequest(ctx, conv)
	case protocol.ActionCheckApproval:
		return s.handleCheckApproval(conv)

	case protocol.ActionSolutionHelpful:
		return s.handleSolutionHelpful(conv, req.Value)
	case protocol.ActionSubmitRating:
		return s.handleSubmitRating(conv, req.Value)
	case protocol.ActionSkipRating:
		return s.handleSkipRating(ctx, conv)
	case protocol.ActionSubmitFeedbackText:
		return s.handleSubmitFeedbackText(ctx, conv, req.Message)
	case protocol.ActionSkipFeedbackText:
		return s.handleSkipFeedbackText(ctx, conv)
	}

	return s.handleStart(conv)
}

func (s *Service) logTurn(ctx context.Context, conv *Conversation, action protocol.Action, req *protocol.ChatRequest) {
	if s.repo == nil {
		return
	}
	message := req.Message
	if message == "" {
		message = req.Value
	}
	turn := &domain.ConversationTurn{
		SessionID: conv.SessionID,
		UserID:    conv.UserID,
		Action:    string(action),
		Message:   message,
		State:     conv.State.String(),
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveConversationTurn(ctx, turn); err != nil {
		slog.Warn("failed to log conversation turn", "session_id", conv.SessionID, "error", err)
	}
}

func ok(message string, state protocol.State, buttons ...protocol.Button) *protocol.ChatResponse {
	return &protocol.ChatResponse{
		Success:  true,
		Response: message,
		Buttons:  buttons,
		State:    state,
	}
}

func goBackButton() protocol.Button {
	return protocol.Button{ID: "go_back", Label: "⬅️ Go Back", Action: protocol.ActionGoBack, Value: "back"}
}

// handleStart resets the conversation and greets the user.
func (s *Service) handleStart(conv *Conversation) *protocol.ChatResponse {
	conv.reset()
	conv.State = protocol.State{Name: protocol.StateAwaitingTicketType}

	name := conv.Username
	if name == "" {
		name = "there"
	}
	msg := fmt.Sprintf("👋 Hi %s! I'm your IT support assistant.\n\nWhat would you like to do today?", name)
	return ok(msg, conv.State,
		protocol.Button{ID: "incident", Label: "🔧 Report an Issue (Incident)", Action: protocol.ActionSelectTicketType, Value: "Incident"},
		protocol.Button{ID: "request", Label: "📝 Make a Request", Action: protocol.ActionSelectTicketType, Value: "Request"},
	)
}

func (s *Service) handleEnd(conv *Conversation) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateCompleted}
	s.sessions.Delete(conv.UserID, conv.SessionID)
	return ok("✅ Thanks for using IT Support. Have a great day!", conv.State)
}

func (s *Service) handleSelectTicketType(conv *Conversation, value string) *protocol.ChatResponse {
	if strings.EqualFold(value, "Request") {
		conv.TicketType = "Request"
		return s.startRequestFlow(conv)
	}
	conv.TicketType = "Incident"
	conv.pushNav(protocol.StateAwaitingTicketType)
	conv.State = protocol.State{Name: protocol.StateAwaitingSmartCat}
	return s.renderCategoryList(conv, "🔍 What kind of issue are you facing?")
}

func (s *Service) renderCategoryList(conv *Conversation, message string) *protocol.ChatResponse {
	cats := s.catalog.Categories(conv.TicketType)
	buttons := make([]protocol.Button, 0, len(cats)+1)
	for i, cat := range cats {
		buttons = append(buttons, protocol.Button{
			ID:     fmt.Sprintf("smart_cat_%d", i),
			Label:  cat.Icon + " " + cat.Name,
			Action: protocol.ActionSelectSmartCategory,
			Value:  cat.Name,
			Icon:   cat.Icon,
		})
	}
	buttons = append(buttons, goBackButton())
	return ok(message, conv.State, buttons...)
}

func (s *Service) handleSelectCategory(conv *Conversation, value string) *protocol.ChatResponse {
	subs := s.catalog.Subcategories(conv.TicketType, value)
	if len(subs) == 0 {
		return s.unknownSelection(conv)
	}
	conv.Category = value
	conv.pushNav(protocol.StateAwaitingSmartCat)
	conv.State = protocol.State{Name: protocol.StateAwaitingCategory}
	return s.renderSubcategoryList(conv, fmt.Sprintf("📂 **%s**\n\nWhich area does this fall under?", value))
}

func (s *Service) renderSubcategoryList(conv *Conversation, message string) *protocol.ChatResponse {
	subs := s.catalog.Subcategories(conv.TicketType, conv.Category)
	buttons := make([]protocol.Button, 0, len(subs)+2)
	for i, sub := range subs {
		buttons = append(buttons, protocol.Button{
			ID:     fmt.Sprintf("cat_%d", i),
			Label:  sub.Icon + " " + sub.Name,
			Action: protocol.ActionSelectCategory,
			Value:  sub.Name,
			Icon:   sub.Icon,
		})
	}
	buttons = append(buttons,
		protocol.Button{ID: "other", Label: "✏️ Something else (describe it)", Action: protocol.ActionCategoryOther, Value: conv.Category, Category: conv.Category},
		goBackButton(),
	)
	return ok(message, conv.State, buttons...)
}

func (s *Service) handleSelectSubcategory(conv *Conversation, value string) *protocol.ChatResponse {
	types := s.catalog.Types(conv.TicketType, conv.Category, value)
	if len(types) == 0 {
		return s.unknownSelection(conv)
	}
	conv.Subcategory = value
	conv.pushNav(protocol.StateAwaitingCategory)
	conv.State = protocol.State{Name: protocol.StateAwaitingType}
	return s.renderTypeList(conv, fmt.Sprintf("🔧 **%s**\n\nWhat type of equipment or platform is affected?", value))
}

func (s *Service) renderTypeList(conv *Conversation, message string) *protocol.ChatResponse {
	types := s.catalog.Types(conv.TicketType, conv.Category, conv.Subcategory)
	buttons := make([]protocol.Button, 0, len(types)+1)
	for i, tg := range types {
		buttons = append(buttons, protocol.Button{
			ID:     fmt.Sprintf("type_%d", i),
			Label:  tg.Icon + " " + tg.Name,
			Action: protocol.ActionSelectType,
			Value:  tg.Name,
			Icon:   tg.Icon,
		})
	}
	buttons = append(buttons, goBackButton())
	return ok(message, conv.State, buttons...)
}

func (s *Service) handleSelectType(conv *Conversation, value string) *protocol.ChatResponse {
	items := s.catalog.Items(conv.TicketType, conv.Category, conv.Subcategory, value)
	if len(items) == 0 {
		return s.unknownSelection(conv)
	}
	conv.TypeName = value
	conv.pushNav(protocol.StateAwaitingType)
	conv.State = protocol.State{Name: protocol.StateAwaitingItem}
	return s.renderItemList(conv, fmt.Sprintf("📦 **%s**\n\nWhich one exactly?", value))
}

func (s *Service) renderItemList(conv *Conversation, message string) *protocol.ChatResponse {
	items := s.catalog.Items(conv.TicketType, conv.Category, conv.Subcategory, conv.TypeName)
	buttons := make([]protocol.Button, 0, len(items)+1)
	for i, item := range items {
		buttons = append(buttons, protocol.Button{
			ID:     fmt.Sprintf("item_%d", i),
			Label:  item.Name,
			Action: protocol.ActionSelectItem,
			Value:  item.Name,
		})
	}
	buttons = append(buttons, goBackButton())
	return ok(message, conv.State, buttons...)
}

func (s *Service) handleSelectItem(conv *Conversation, value string) *protocol.ChatResponse {
	issues := s.catalog.Issues(conv.TicketType, conv.Category, conv.Subcategory, conv.TypeName, value)
	if len(issues) == 0 {
		return s.unknownSelection(conv)
	}
	conv.Item = value
	conv.pushNav(protocol.StateAwaitingItem)
	conv.State = protocol.State{Name: protocol.StateAwaitingIssue}
	return s.renderIssueList(conv, fmt.Sprintf("❓ **%s**\n\nWhich of these matches your problem?", value))
}

func (s *Service) renderIssueList(conv *Conversation, message string) *protocol.ChatResponse {
	issues := s.catalog.Issues(conv.TicketType, conv.Category, conv.Subcategory, conv.TypeName, conv.Item)
	buttons := make([]protocol.Button, 0, len(issues)+2)
	for i, issue := range issues {
		buttons = append(buttons, protocol.Button{
			ID:     fmt.Sprintf("issue_%d", i),
			Label:  issue.Issue,
			Action: protocol.ActionSelectIssue,
			Value:  strconv.Itoa(i),
		})
	}
	buttons = append(buttons,
		protocol.Button{ID: "other_issue", Label: "✏️ My issue isn't listed", Action: protocol.ActionOtherIssue, Value: "other"},
		goBackButton(),
	)
	return ok(message, conv.State, buttons...)
}

func (s *Service) handleSelectIssue(conv *Conversation, value string) *protocol.ChatResponse {
	index, err := strconv.Atoi(value)
	if err != nil {
		return s.unknownSelection(conv)
	}
	issue, found := s.catalog.Solution(conv.TicketType, conv.Category, conv.Subcategory, conv.TypeName, conv.Item, index)
	if !found {
		return s.unknownSelection(conv)
	}
	conv.IssueIndex = index
	conv.IssueText = issue.Issue
	conv.Solution = issue.Solution
	conv.pushNav(protocol.StateAwaitingIssue)
	return s.showSolution(conv, issue.Issue, issue.Solution)
}

// showSolution presents remediation steps with per-step feedback affordances
// and the resolved / not-resolved question.
func (s *Service) showSolution(conv *Conversation, issueText, solution string) *protocol.ChatResponse {
	steps := splitSolution(solution)
	conv.SolutionSteps = steps
	conv.SolutionFeedback = map[string]string{}
	conv.State = protocol.State{Name: protocol.StateShowingSolution}

	msg := fmt.Sprintf("💡 **%s**\n\nHere's what you can try:\n\n%s\n\nDid this resolve your issue?", issueText, formatSteps(steps))
	resp := ok(msg, conv.State,
		protocol.Button{ID: "resolved", Label: "✅ Yes, it's resolved", Action: protocol.ActionSolutionResolved, Value: "yes"},
		protocol.Button{ID: "not_resolved", Label: "❌ No, I still need help", Action: protocol.ActionSolutionNotResolved, Value: "no"},
	)
	resp.Solutions = solutionSteps(steps)
	return resp
}

func (s *Service) handleOtherIssue(conv *Conversation) *protocol.ChatResponse {
	conv.pushNav(conv.State.Name)
	conv.State = protocol.State{Name: protocol.StateAwaitingFreeText}

	var context string
	if conv.Item != "" {
		context = fmt.Sprintf(" about **%s › %s**", conv.TypeName, conv.Item)
	} else if conv.Category != "" {
		context = fmt.Sprintf(" about **%s**", conv.Category)
	}
	resp := ok(fmt.Sprintf("✏️ Please describe your issue%s in your own words.", context), conv.State, goBackButton())
	resp.ShowTextInput = true
	return resp
}

func (s *Service) handleCategoryOther(conv *Conversation, req *protocol.ChatRequest) *protocol.ChatResponse {
	category := req.Category
	if category == "" {
		category = req.Value
	}
	// The newest category always wins; re-entering replaces the scope.
	conv.Category = category
	conv.pushNav(conv.State.Name)
	conv.State = protocol.CategoryOtherState(category)

	resp := ok(fmt.Sprintf("✏️ Tell me more about your **%s** issue.", category), conv.State, goBackButton())
	resp.ShowTextInput = true
	return resp
}

func (s *Service) handleFreeText(ctx context.Context, conv *Conversation, req *protocol.ChatRequest) *protocol.ChatResponse {
	// Request-flow text states collect fields rather than descriptions.
	switch conv.State.Name {
	case protocol.StateRequestSoftwareType:
		return s.handleSoftwareItemText(conv, req.Message)
	case protocol.StateRequestFolderPath:
		return s.handleFolderPathText(conv, req.Message)
	case protocol.StateRequestVPNReason:
		return s.handleVPNReasonText(conv, req.Message)
	case protocol.StateRequestJustification:
		return s.handleJustificationText(conv, req.Message)
	case protocol.StateEndFeedbackText:
		return s.handleSubmitFeedbackText(ctx, conv, req.Message)
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		resp := ok("✏️ Please type a short description of the problem.", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}
	conv.Description = text

	sol, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		if !errors.Is(err, resolver.ErrNoMatch) {
			slog.Warn("resolver failed", "session_id", conv.SessionID, "error", err)
		}
		return s.offerTicket(conv)
	}

	if sol.Category != "" && conv.Category == "" {
		conv.Category = sol.Category
	}
	if sol.Item != "" {
		conv.Item = sol.Item
		conv.TypeName = sol.Type
		conv.Subcategory = sol.Subcategory
	}
	conv.IssueText = sol.Issue
	conv.Solution = sol.Text
	conv.pushNav(protocol.StateAwaitingFreeText)
	return s.showSolution(conv, sol.Issue, sol.Text)
}

// offerTicket is the no-match path: no self-help found, offer to raise a
// ticket instead.
func (s *Service) offerTicket(conv *Conversation) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateTicketConfirmation}
	return ok(
		"🤔 I couldn't find a matching self-help solution for that.\n\nWould you like me to create a support ticket so the IT team can look into it?",
		conv.State,
		protocol.Button{ID: "preview", Label: "📋 Preview Ticket", Action: protocol.ActionPreviewTicket, Value: "preview"},
		protocol.Button{ID: "confirm", Label: "✅ Create Ticket", Action: protocol.ActionConfirmTicket, Value: "yes"},
		protocol.Button{ID: "decline", Label: "❌ No Thanks", Action: protocol.ActionDeclineTicket, Value: "no"},
	)
}

func (s *Service) handleSolutionResolved(conv *Conversation) *protocol.ChatResponse {
	conv.FlowType = domain.FlowSolutionResolved
	return s.showRatingPrompt(conv, "🎉 Great, glad that helped!")
}

func (s *Service) handleSolutionNotResolved(conv *Conversation) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateTicketConfirmation}
	return ok(
		"😔 Sorry that didn't fix it.\n\nI can create a support ticket so the IT team picks this up. Want to proceed?",
		conv.State,
		protocol.Button{ID: "preview", Label: "📋 Preview Ticket", Action: protocol.ActionPreviewTicket, Value: "preview"},
		protocol.Button{ID: "confirm", Label: "✅ Create Ticket", Action: protocol.ActionConfirmTicket, Value: "yes"},
		protocol.Button{ID: "decline", Label: "❌ No Thanks", Action: protocol.ActionDeclineTicket, Value: "no"},
	)
}

func (s *Service) ticketSubject(conv *Conversation) string {
	if conv.IssueText != "" {
		return conv.IssueText
	}
	if conv.Description != "" {
		if len(conv.Description) > 80 {
			return conv.Description[:80]
		}
		return conv.Description
	}
	return "IT support request"
}

func (s *Service) ticketDescription(conv *Conversation) string {
	var b strings.Builder
	if conv.Category != "" {
		path := conv.Category
		for _, part := range []string{conv.Subcategory, conv.TypeName, conv.Item} {
			if part != "" {
				path += " › " + part
			}
		}
		fmt.Fprintf(&b, "Category: %s\n", path)
	}
	if conv.IssueText != "" {
		fmt.Fprintf(&b, "Issue: %s\n", conv.IssueText)
	}
	if conv.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", conv.Description)
	}
	if conv.Solution != "" {
		fmt.Fprintf(&b, "\nAttempted self-help steps did not resolve the issue:\n%s\n", conv.Solution)
	}
	if b.Len() == 0 {
		return "No details provided."
	}
	return b.String()
}

func (s *Service) handlePreviewTicket(conv *Conversation) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateTicketConfirmation}
	msg := fmt.Sprintf(
		"📋 **Ticket Preview**\n\n**Subject:** %s\n\n%s\n\n📎 You can attach up to 5 screenshots (jpeg/png/gif/webp, max 5 MB each) before creating the ticket.",
		s.ticketSubject(conv), s.ticketDescription(conv))
	resp := ok(msg, conv.State,
		protocol.Button{ID: "confirm", Label: "✅ Create Ticket", Action: protocol.ActionConfirmTicket, Value: "yes"},
		protocol.Button{ID: "decline", Label: "❌ Cancel", Action: protocol.ActionDeclineTicket, Value: "no"},
	)
	resp.ShowAttachmentUpload = true
	return resp
}

func newTicketID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TCK-" + strings.ToUpper(id[:8])
}

func (s *Service) handleConfirmTicket(ctx context.Context, conv *Conversation, req *protocol.ChatRequest) *protocol.ChatResponse {
	if len(req.AttachmentURLs) > 0 {
		conv.AttachmentURLs = req.AttachmentURLs
	}

	now := time.Now()
	ticket := &domain.Ticket{
		TicketID:       newTicketID(),
		UserID:         conv.UserID,
		Username:       conv.Username,
		TicketType:     conv.TicketType,
		Category:       conv.Category,
		Subcategory:    conv.Subcategory,
		Subject:        s.ticketSubject(conv),
		Description:    s.ticketDescription(conv),
		Status:         domain.StatusOpen,
		Priority:       domain.PriorityMedium,
		AttachmentURLs: conv.AttachmentURLs,
		SessionID:      conv.SessionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if ticket.TicketType == "" {
		ticket.TicketType = "Incident"
	}
	if ticket.Category == "" {
		ticket.Category = "General"
	}

	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		slog.Error("failed to create ticket", "session_id", conv.SessionID, "error", err)
		return &protocol.ChatResponse{
			Success: false,
			Error:   "Could not create the ticket, please try again.",
			State:   conv.State,
			Buttons: []protocol.Button{
				{ID: "confirm", Label: "🔄 Try Again", Action: protocol.ActionConfirmTicket, Value: "yes"},
				{ID: "decline", Label: "❌ Cancel", Action: protocol.ActionDeclineTicket, Value: "no"},
			},
		}
	}

	conv.TicketID = ticket.TicketID
	conv.FlowType = domain.FlowTicketCreated

	attachNote := ""
	if n := len(conv.AttachmentURLs); n > 0 {
		attachNote = fmt.Sprintf("\n📎 %d attachment(s) included.", n)
	}
	resp := s.showRatingPrompt(conv, fmt.Sprintf(
		"🎫 **Ticket created!**\n\nYour ticket ID is **%s**. The IT team will reach out to you.%s",
		ticket.TicketID, attachNote))
	resp.TicketID = ticket.TicketID
	return resp
}

func (s *Service) handleDeclineTicket(conv *Conversation) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateCompleted}
	return ok("👍 No problem. Is there anything else I can help you with?", conv.State,
		protocol.Button{ID: "new", Label: "🆕 New Issue", Action: protocol.ActionStart, Value: "new"},
		protocol.Button{ID: "done", Label: "✅ I'm Done", Action: protocol.ActionEnd, Value: "done"},
	)
}

// handleGoBack walks one step back through the listing screens.
func (s *Service) handleGoBack(conv *Conversation) *protocol.ChatResponse {
	target, found := conv.popNav()
	if !found {
		return s.handleStart(conv)
	}

	switch target {
	case protocol.StateAwaitingTicketType:
		return s.handleStart(conv)
	case protocol.StateAwaitingSmartCat:
		conv.Category, conv.Subcategory, conv.TypeName, conv.Item = "", "", "", ""
		conv.State = protocol.State{Name: protocol.StateAwaitingSmartCat}
		return s.renderCategoryList(conv, "🔍 What kind of issue are you facing?")
	case protocol.StateAwaitingCategory:
		conv.Subcategory, conv.TypeName, conv.Item = "", "", ""
		conv.State = protocol.State{Name: protocol.StateAwaitingCategory}
		return s.renderSubcategoryList(conv, fmt.Sprintf("📂 **%s**\n\nWhich area does this fall under?", conv.Category))
	case protocol.StateAwaitingType:
		conv.TypeName, conv.Item = "", ""
		conv.State = protocol.State{Name: protocol.StateAwaitingType}
		return s.renderTypeList(conv, fmt.Sprintf("🔧 **%s**\n\nWhat type of equipment or platform is affected?", conv.Subcategory))
	case protocol.StateAwaitingItem:
		conv.Item = ""
		conv.State = protocol.State{Name: protocol.StateAwaitingItem}
		return s.renderItemList(conv, fmt.Sprintf("📦 **%s**\n\nWhich one exactly?", conv.TypeName))
	case protocol.StateAwaitingIssue:
		conv.State = protocol.State{Name: protocol.StateAwaitingIssue}
		return s.renderIssueList(conv, fmt.Sprintf("❓ **%s**\n\nWhich of these matches your problem?", conv.Item))
	case protocol.StateRequestCategory:
		return s.startRequestFlow(conv)
	}
	return s.handleStart(conv)
}

func (s *Service) unknownSelection(conv *Conversation) *protocol.ChatResponse {
	resp := ok("⚠️ I didn't recognize that selection. Let's start over.", conv.State,
		protocol.Button{ID: "restart", Label: "🔄 Start Over", Action: protocol.ActionRestart, Value: "restart"},
	)
	return resp
}
