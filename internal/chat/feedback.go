package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// showRatingPrompt moves the conversation to the end-of-flow star rating.
func (s *Service) showRatingPrompt(conv *Conversation, lead string) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateEndRating}
	msg := lead + "\n\n📊 **How was your experience?**\n\nPlease rate your interaction:"
	resp := ok(msg, conv.State, starRatingButtons()...)
	resp.ShowStarRating = true
	return resp
}

// handleSolutionHelpful records per-step solution feedback. The value format
// is "<index>:<tried|not_tried|helpful|not_helpful>". This is telemetry: the
// screen does not change, so the response re-states the current view flags
// only.
func (s *Service) handleSolutionHelpful(conv *Conversation, value string) *protocol.ChatResponse {
	index, status, found := strings.Cut(value, ":")
	if !found {
		return &protocol.ChatResponse{Success: false, Error: "malformed feedback value", State: conv.State}
	}
	if _, err := strconv.Atoi(index); err != nil {
		return &protocol.ChatResponse{Success: false, Error: "malformed feedback index", State: conv.State}
	}
	switch status {
	case "tried", "not_tried", "helpful", "not_helpful":
	default:
		return &protocol.ChatResponse{Success: false, Error: "unknown feedback status", State: conv.State}
	}

	if conv.SolutionFeedback == nil {
		conv.SolutionFeedback = map[string]string{}
	}
	conv.SolutionFeedback[index] = status

	return &protocol.ChatResponse{Success: true, State: conv.State}
}

func (s *Service) handleSubmitRating(conv *Conversation, value string) *protocol.ChatResponse {
	rating, err := strconv.Atoi(value)
	if err != nil || rating < 1 || rating > 5 {
		resp := s.showRatingPrompt(conv, "⚠️ That rating didn't come through.")
		return resp
	}
	conv.Rating = rating
	conv.State = protocol.State{Name: protocol.StateEndFeedbackText}

	msg := fmt.Sprintf("⭐ **Rating: %d/5** - Thank you!\n\n📝 Would you like to leave any additional comments? (Optional)", rating)
	resp := ok(msg, conv.State,
		protocol.Button{ID: "submit", Label: "✅ Submit", Action: protocol.ActionSubmitFeedbackText, Value: "submit"},
		protocol.Button{ID: "skip", Label: "⏭️ Skip", Action: protocol.ActionSkipFeedbackText, Value: "skip"},
	)
	resp.ShowTextInput = true
	return resp
}

func (s *Service) handleSkipRating(ctx context.Context, conv *Conversation) *protocol.ChatResponse {
	conv.Rating = 0
	return s.completeFeedback(ctx, conv)
}

func (s *Service) handleSubmitFeedbackText(ctx context.Context, conv *Conversation, text string) *protocol.ChatResponse {
	conv.FeedbackText = strings.TrimSpace(text)
	return s.completeFeedback(ctx, conv)
}

func (s *Service) handleSkipFeedbackText(ctx context.Context, conv *Conversation) *protocol.ChatResponse {
	conv.FeedbackText = ""
	return s.completeFeedback(ctx, conv)
}

// completeFeedback persists whatever was collected and closes the loop.
func (s *Service) completeFeedback(ctx context.Context, conv *Conversation) *protocol.ChatResponse {
	conv.State = protocol.State{Name: protocol.StateFeedbackComplete}

	flowType := conv.FlowType
	if flowType == "" {
		flowType = domain.FlowSolutionResolved
	}
	fb := &domain.Feedback{
		SessionID:        conv.SessionID,
		UserID:           conv.UserID,
		TicketID:         conv.TicketID,
		FlowType:         flowType,
		Rating:           conv.Rating,
		FeedbackText:     conv.FeedbackText,
		SolutionFeedback: conv.SolutionFeedback,
		SolutionsShown:   conv.SolutionSteps,
		CreatedAt:        time.Now(),
	}
	if s.repo != nil {
		if err := s.repo.SaveFeedback(ctx, fb); err != nil {
			slog.Warn("failed to save feedback", "session_id", conv.SessionID, "error", err)
		}
	}

	thanks := "Thank you for using IT Support!"
	if conv.Rating > 0 {
		thanks = fmt.Sprintf("Thank you for your feedback! (⭐ %d/5)", conv.Rating)
	}
	msg := fmt.Sprintf("✅ **%s**\n\nYour feedback helps us improve.\n\n---\n\nIs there anything else I can help you with?", thanks)
	return ok(msg, conv.State,
		protocol.Button{ID: "new", Label: "🆕 New Issue", Action: protocol.ActionStart, Value: "new"},
		protocol.Button{ID: "done", Label: "✅ I'm Done", Action: protocol.ActionEnd, Value: "done"},
	)
}
