package protocol

// Action identifies one user intent in the chat protocol. The set is closed:
// every inbound request names exactly one of these, and the server dispatches
// on them exhaustively. Unknown actions are treated as Start.
type Action string

const (
	ActionStart   Action = "start"
	ActionRestart Action = "restart"
	ActionEnd     Action = "end"

	// Incident narrowing chain.
	ActionSelectTicketType     Action = "select_ticket_type"
	ActionSelectSmartCategory  Action = "select_smart_category"
	ActionSelectCategory       Action = "select_category"
	ActionSelectType           Action = "select_type"
	ActionSelectItem           Action = "select_item"
	ActionSelectIssue          Action = "select_issue"
	ActionOtherIssue           Action = "other_issue"
	ActionOtherIssues          Action = "other_issues"
	ActionCategoryOther        Action = "category_other"
	ActionGoBack               Action = "go_back"
	ActionFreeText             Action = "free_text"
	ActionAgentContinue        Action = "agent_continue"
	ActionSolutionResolved     Action = "solution_resolved"
	ActionSolutionNotResolved  Action = "solution_not_resolved"
	ActionPreviewTicket        Action = "preview_ticket"
	ActionConfirmTicket        Action = "confirm_ticket"
	ActionDeclineTicket        Action = "decline_ticket"

	// Request flow.
	ActionSelectRequestCategory  Action = "select_request_category"
	ActionSelectHardwareItem     Action = "select_hardware_item"
	ActionSelectHardwareBrand    Action = "select_hardware_brand"
	ActionSelectSoftwareAction   Action = "select_software_action"
	ActionSelectSoftwareItem     Action = "select_software_item"
	ActionSelectAccessType       Action = "select_access_type"
	ActionConfirmInternetAccess  Action = "confirm_internet_access"
	ActionSelectFolderPermission Action = "select_folder_permission"
	ActionSubmitRequest          Action = "submit_request"
	ActionCheckApproval          Action = "check_approval"

	// Feedback flow.
	ActionSolutionHelpful    Action = "solution_helpful"
	ActionSubmitRating       Action = "submit_rating"
	ActionSkipRating         Action = "skip_rating"
	ActionSubmitFeedbackText Action = "submit_feedback_text"
	ActionSkipFeedbackText   Action = "skip_feedback_text"
)

var knownActions = map[Action]struct{}{
	ActionStart: {}, ActionRestart: {}, ActionEnd: {},
	ActionSelectTicketType: {}, ActionSelectSmartCategory: {},
	ActionSelectCategory: {}, ActionSelectType: {}, ActionSelectItem: {},
	ActionSelectIssue: {}, ActionOtherIssue: {}, ActionOtherIssues: {},
	ActionCategoryOther: {}, ActionGoBack: {}, ActionFreeText: {},
	ActionAgentContinue: {}, ActionSolutionResolved: {},
	ActionSolutionNotResolved: {}, ActionPreviewTicket: {},
	ActionConfirmTicket: {}, ActionDeclineTicket: {},
	ActionSelectRequestCategory: {}, ActionSelectHardwareItem: {},
	ActionSelectHardwareBrand: {}, ActionSelectSoftwareAction: {},
	ActionSelectSoftwareItem: {}, ActionSelectAccessType: {},
	ActionConfirmInternetAccess: {}, ActionSelectFolderPermission: {},
	ActionSubmitRequest: {}, ActionCheckApproval: {},
	ActionSolutionHelpful: {}, ActionSubmitRating: {}, ActionSkipRating: {},
	ActionSubmitFeedbackText: {}, ActionSkipFeedbackText: {},
}

// Known reports whether a is part of the closed action vocabulary.
func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

// OpensFreeText reports whether the action opens a free-text prompt locally
// before any network round trip.
func (a Action) OpensFreeText() bool {
	return a == ActionOtherIssue || a == ActionOtherIssues || a == ActionCategoryOther
}

// FireAndForget reports whether the action is non-blocking telemetry whose
// failure is swallowed rather than surfaced.
func (a Action) FireAndForget() bool {
	return a == ActionSolutionHelpful
}
