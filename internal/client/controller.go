package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// ErrBusy is returned when a user action arrives while a round trip for the
// same session is still in flight.
var ErrBusy = errors.New("a request is already in flight")

// Origin tags who produced a transcript message.
type Origin string

const (
	OriginUser  Origin = "user"
	OriginAgent Origin = "agent"
	OriginError Origin = "error"
)

// Message is one transcript entry. The transcript is append-only and cleared
// only on restart.
type Message struct {
	Origin   Origin
	Text     string
	TicketID string
	Time     time.Time
}

// Turn is the affordance snapshot of the current conversation turn. It is
// replaced wholesale on every applied server response; absent flags mean
// "hidden".
type Turn struct {
	State                protocol.State
	Buttons              []protocol.Button
	ShowTextInput        bool
	ShowStarRating       bool
	ShowCheckboxes       bool
	Checkboxes           []protocol.Checkbox
	ShowAttachmentUpload bool
	Solutions            []protocol.SolutionStep

	// localPrompt marks a free-text prompt that was opened client-side and
	// has not hit the network yet; go_back from it restarts instead of
	// asking the server to unwind.
	localPrompt bool
}

// Controller mirrors the server-authoritative conversation state: session id,
// transcript, and the current turn snapshot. One round trip at a time per
// session; a restart bumps the generation counter so a response from before
// the restart is discarded when it finally lands.
type Controller struct {
	api *Client

	mu              sync.Mutex
	sessionID       string
	generation      uint64
	busy            bool
	transcript      []Message
	turn            Turn
	pendingCategory string

	attachments Attachments
	feedback    Feedback
}

// NewController creates a Controller over the given transport.
func NewController(api *Client) *Controller {
	return &Controller{api: api}
}

// SessionID returns the current session id, empty before the first response.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Busy reports whether a round trip is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Turn returns the current affordance snapshot.
func (c *Controller) Turn() Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.turn
	t.Buttons = append([]protocol.Button(nil), c.turn.Buttons...)
	t.Checkboxes = append([]protocol.Checkbox(nil), c.turn.Checkboxes...)
	t.Solutions = append([]protocol.SolutionStep(nil), c.turn.Solutions...)
	return t
}

// Transcript returns a copy of the message transcript.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Attachments exposes the attachment coordinator for file selection.
func (c *Controller) Attachments() *Attachments {
	return &c.attachments
}

// StepStatus returns the feedback status of one solution step.
func (c *Controller) StepStatus(index int) StepStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedback.StepStatusOf(index)
}

// Start opens the conversation.
func (c *Controller) Start(ctx context.Context) error {
	return c.roundTrip(ctx, &protocol.ChatRequest{Action: protocol.ActionStart}, "")
}

// Restart discards the session and all transient state, then re-issues start.
// It is the only way out of a stuck or terminal state.
func (c *Controller) Restart(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	c.busy = false
	c.sessionID = ""
	c.transcript = nil
	c.turn = Turn{}
	c.pendingCategory = ""
	c.attachments.Clear()
	c.feedback = Feedback{}
	c.mu.Unlock()

	return c.Start(ctx)
}

// Press routes one button press. Most buttons are forwarded verbatim; the
// free-text openers transition locally without a network call, go_back from a
// locally-opened prompt restarts, and confirm_ticket uploads the pending
// attachments first.
func (c *Controller) Press(ctx context.Context, btn protocol.Button) error {
	switch {
	case btn.Action == protocol.ActionRestart:
		return c.Restart(ctx)

	case btn.Action.OpensFreeText():
		c.openLocalPrompt(btn)
		return nil

	case btn.Action == protocol.ActionGoBack && c.fromLocalPrompt():
		return c.Restart(ctx)

	case btn.Action == protocol.ActionConfirmTicket:
		return c.confirmTicket(ctx, btn)
	}

	req := &protocol.ChatRequest{
		Action:   btn.Action,
		Value:    btn.Value,
		Category: btn.Category,
	}
	return c.roundTrip(ctx, req, btn.Label)
}

// SubmitText submits typed input. In the end_feedback_text state the text is
// conversation commentary; everywhere else it is an issue description, scoped
// to a category when one is in effect.
func (c *Controller) SubmitText(ctx context.Context, text string) error {
	c.mu.Lock()
	state := c.turn.State
	category := c.pendingCategory
	if state.IsCategoryOther() && state.Category != "" {
		category = state.Category
	}
	c.pendingCategory = ""
	c.mu.Unlock()

	if state.Is(protocol.StateEndFeedbackText) {
		return c.roundTrip(ctx, &protocol.ChatRequest{
			Action:  protocol.ActionSubmitFeedbackText,
			Message: text,
		}, text)
	}

	return c.roundTrip(ctx, &protocol.ChatRequest{
		Action:   protocol.ActionFreeText,
		Message:  text,
		Category: category,
	}, text)
}

// ConfirmCheckboxes submits the selected options of a multi-select
// affordance.
func (c *Controller) ConfirmCheckboxes(ctx context.Context, selected []string) error {
	req := &protocol.ChatRequest{
		Action:          protocol.ActionConfirmInternetAccess,
		SelectedOptions: selected,
	}
	label := fmt.Sprintf("%d option(s) selected", len(selected))
	return c.roundTrip(ctx, req, label)
}

// RateStars submits the star rating, once per presentation. The widget is
// hidden before the round trip resolves.
func (c *Controller) RateStars(ctx context.Context, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	c.mu.Lock()
	if !c.turn.ShowStarRating || !c.feedback.takeRating() {
		c.mu.Unlock()
		return fmt.Errorf("no star rating is currently open")
	}
	c.turn.ShowStarRating = false
	c.mu.Unlock()

	req := &protocol.ChatRequest{
		Action: protocol.ActionSubmitRating,
		Value:  strconv.Itoa(stars),
	}
	return c.roundTrip(ctx, req, fmt.Sprintf("Rated %d/5", stars))
}

// ResolveStep records per-step solution feedback and reports it to the
// server as fire-and-forget telemetry: invalid transitions are rejected
// locally, but a network failure is logged and swallowed.
func (c *Controller) ResolveStep(ctx context.Context, index int, status StepStatus) error {
	c.mu.Lock()
	if err := c.feedback.resolveStep(index, status); err != nil {
		c.mu.Unlock()
		return err
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	req := &protocol.ChatRequest{
		Action:    protocol.ActionSolutionHelpful,
		Value:     fmt.Sprintf("%d:%s", index, status),
		SessionID: sessionID,
	}
	if _, err := c.api.Chat(ctx, req); err != nil {
		slog.Debug("solution step feedback dropped", "step", index, "status", status, "error", err)
	}
	return nil
}

func (c *Controller) openLocalPrompt(btn protocol.Button) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pendingCategory = btn.Category
	if c.pendingCategory == "" && btn.Action == protocol.ActionCategoryOther {
		c.pendingCategory = btn.Value
	}

	c.turn = Turn{
		State:         c.turn.State,
		ShowTextInput: true,
		localPrompt:   true,
		Buttons: []protocol.Button{{
			ID:     "go_back",
			Label:  "⬅️ Go Back",
			Action: protocol.ActionGoBack,
		}},
	}
	c.transcript = append(c.transcript, Message{
		Origin: OriginAgent,
		Text:   "Please describe your issue in your own words.",
		Time:   time.Now(),
	})
}

func (c *Controller) fromLocalPrompt() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn.localPrompt
}

// confirmTicket runs the attachment pipeline and sends the confirmation with
// whatever URLs uploaded successfully, in selection order. The busy flag
// covers the uploads too: the whole confirmation is one user action, so no
// other request may start while the prefix runs. A restart during the
// uploads aborts the confirmation entirely.
func (c *Controller) confirmTicket(ctx context.Context, btn protocol.Button) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	gen := c.generation
	c.mu.Unlock()

	urls := c.attachments.uploadAll(ctx, c.api)

	c.mu.Lock()
	if gen != c.generation {
		// Restarted mid-upload; the confirmation belongs to a dead session.
		c.mu.Unlock()
		return nil
	}
	req := &protocol.ChatRequest{
		Action:         protocol.ActionConfirmTicket,
		Value:          btn.Value,
		AttachmentURLs: urls,
		SessionID:      c.sessionID,
	}
	c.transcript = append(c.transcript, Message{Origin: OriginUser, Text: btn.Label, Time: time.Now()})
	c.mu.Unlock()

	return c.finishRoundTrip(ctx, req, gen)
}

// roundTrip performs one guarded request/response cycle: sets the busy flag,
// appends the user message, sends, and applies the response unless a restart
// happened in between.
func (c *Controller) roundTrip(ctx context.Context, req *protocol.ChatRequest, userText string) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	gen := c.generation
	req.SessionID = c.sessionID
	if userText != "" {
		c.transcript = append(c.transcript, Message{Origin: OriginUser, Text: userText, Time: time.Now()})
	}
	c.mu.Unlock()

	return c.finishRoundTrip(ctx, req, gen)
}

// finishRoundTrip sends a request whose busy flag and generation were already
// claimed, then applies the response unless the generation moved on.
func (c *Controller) finishRoundTrip(ctx context.Context, req *protocol.ChatRequest, gen uint64) error {
	resp, err := c.api.Chat(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// The conversation was restarted while this request was in flight;
		// the response belongs to a dead session.
		return nil
	}
	c.busy = false

	if err != nil {
		c.fail(err.Error())
		return err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "something went wrong"
		}
		c.fail(msg)
		return fmt.Errorf("server error: %s", msg)
	}

	c.apply(resp)
	return nil
}

// fail appends one error message and offers a lone restart button. The
// conversation state itself is left untouched; recovery is user-initiated.
func (c *Controller) fail(msg string) {
	c.transcript = append(c.transcript, Message{Origin: OriginError, Text: msg, Time: time.Now()})
	c.turn.Buttons = []protocol.Button{{
		ID:     "restart",
		Label:  "🔄 Start Over",
		Action: protocol.ActionRestart,
		Value:  "restart",
	}}
	c.turn.ShowTextInput = false
	c.turn.ShowCheckboxes = false
	c.turn.localPrompt = false
}

// apply installs one server response as the new turn snapshot, atomically:
// session id adopted, affordances replaced wholesale, exactly one agent
// message appended.
func (c *Controller) apply(resp *protocol.ChatResponse) {
	if resp.SessionID != "" {
		c.sessionID = resp.SessionID
	}

	c.turn = Turn{
		State:                resp.State,
		Buttons:              resp.Buttons,
		ShowTextInput:        resp.ShowTextInput,
		ShowStarRating:       resp.ShowStarRating,
		ShowCheckboxes:       resp.ShowCheckboxes,
		Checkboxes:           resp.Checkboxes,
		ShowAttachmentUpload: resp.ShowAttachmentUpload,
		Solutions:            resp.Solutions,
	}

	// The step set mirrors the response's list exactly: a response without
	// one leaves no steps to rate.
	c.feedback.resetSteps(resp.Solutions)
	if resp.ShowStarRating {
		c.feedback.armRating()
	}
	if resp.TicketID != "" {
		c.attachments.Clear()
	}

	if resp.Response != "" {
		c.transcript = append(c.transcript, Message{
			Origin:   OriginAgent,
			Text:     resp.Response,
			TicketID: resp.TicketID,
			Time:     time.Now(),
		})
	}
}
