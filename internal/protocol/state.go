package protocol

import (
	"encoding/json"
	"strings"
)

// Conversation state names as they travel on the wire. The server owns the
// state; clients only mirror whatever the last response carried.
const (
	StateInitial            = "initial"
	StateAwaitingTicketType = "awaiting_ticket_type"
	StateAwaitingSmartCat   = "awaiting_smart_category"
	StateAwaitingCategory   = "awaiting_category"
	StateAwaitingType       = "awaiting_type"
	StateAwaitingItem       = "awaiting_item"
	StateAwaitingIssue      = "awaiting_issue"
	StateShowingSolution    = "showing_solution"
	StateTicketConfirmation = "awaiting_ticket_confirmation"
	StateAwaitingFreeText   = "awaiting_free_text"
	StateCategoryOther      = "category_other"
	StateTicketCreated      = "ticket_created"
	StateCompleted          = "completed"

	StateRequestCategory         = "request_category"
	StateRequestHardwareType     = "request_hardware_type"
	StateRequestHardwareBrand    = "request_hardware_brand"
	StateRequestSoftwareAction   = "request_software_action"
	StateRequestSoftwareType     = "request_software_type"
	StateRequestAccessType       = "request_access_type"
	StateRequestInternetAccess   = "request_internet_access"
	StateRequestFolderPath       = "request_shared_folder_path"
	StateRequestFolderPermission = "request_shared_folder_permission"
	StateRequestVPNReason        = "request_vpn_reason"
	StateRequestJustification    = "request_justification"
	StateRequestPreview          = "request_preview"
	StateRequestComplete         = "request_complete"
	StateManagerApproved         = "manager_approved"

	StateEndRating        = "end_rating"
	StateEndFeedbackText  = "end_feedback_text"
	StateFeedbackComplete = "feedback_complete"
)

const categoryOtherPrefix = StateCategoryOther + "_"

// State is the conversation state tag. The legacy wire encoding packs a
// category into the tag for category-scoped free text ("category_other_Network");
// State keeps that payload as typed data instead of requiring string surgery
// at every use site.
type State struct {
	Name     string
	Category string
}

// ParseState decodes a wire state tag, splitting off the category payload of
// the category_other convention.
func ParseState(tag string) State {
	if cat, ok := strings.CutPrefix(tag, categoryOtherPrefix); ok && cat != "" {
		return State{Name: StateCategoryOther, Category: cat}
	}
	return State{Name: tag}
}

// CategoryOtherState returns the category-scoped free-text state for cat.
func CategoryOtherState(cat string) State {
	return State{Name: StateCategoryOther, Category: cat}
}

// String renders the state in its wire form.
func (s State) String() string {
	if s.Name == StateCategoryOther && s.Category != "" {
		return categoryOtherPrefix + s.Category
	}
	return s.Name
}

// Is reports whether the state has the given name, ignoring any payload.
func (s State) Is(name string) bool { return s.Name == name }

// IsCategoryOther reports whether the state is category-scoped free text.
func (s State) IsCategoryOther() bool { return s.Name == StateCategoryOther }

// AwaitsFreeText reports whether the state expects the next user input to be
// typed rather than selected.
func (s State) AwaitsFreeText() bool {
	switch s.Name {
	case StateAwaitingFreeText, StateCategoryOther, StateRequestJustification,
		StateRequestVPNReason, StateRequestFolderPath, StateRequestSoftwareType,
		StateEndFeedbackText:
		return true
	}
	return false
}

// MarshalJSON encodes the state as its wire tag.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire tag into a State.
func (s *State) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	*s = ParseState(tag)
	return nil
}
