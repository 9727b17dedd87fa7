// Package protocol defines the wire contract between the intake assistant
// server and its clients: the closed action vocabulary, the conversation
// state tag, and the request/response shapes of the chat and upload
// endpoints.
package protocol

// Button is one selectable affordance offered by the server. Button sets are
// ephemeral: each response replaces the previous set wholesale.
type Button struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Action   Action `json:"action"`
	Value    string `json:"value,omitempty"`
	Category string `json:"category,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// Checkbox is one option in a multi-select affordance.
type Checkbox struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SolutionStep is one remediation instruction offered for per-step feedback.
type SolutionStep struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ChatRequest is the single request shape of the chat endpoint. SessionID is
// omitted only on the very first start.
type ChatRequest struct {
	Action          Action   `json:"action"`
	Message         string   `json:"message,omitempty"`
	Value           string   `json:"value,omitempty"`
	Category        string   `json:"category,omitempty"`
	SessionID       string   `json:"session_id,omitempty"`
	SelectedOptions []string `json:"selected_options,omitempty"`
	AttachmentURLs  []string `json:"attachment_urls,omitempty"`
}

// ChatResponse is the single response shape of the chat endpoint. Absent
// affordance flags mean "hide": the client replaces its whole affordance
// snapshot from each response.
type ChatResponse struct {
	Success              bool           `json:"success"`
	Error                string         `json:"error,omitempty"`
	SessionID            string         `json:"session_id,omitempty"`
	Response             string         `json:"response,omitempty"`
	Buttons              []Button       `json:"buttons"`
	State                State          `json:"state"`
	TicketID             string         `json:"ticket_id,omitempty"`
	ShowTextInput        bool           `json:"show_text_input,omitempty"`
	ShowStarRating       bool           `json:"show_star_rating,omitempty"`
	ShowCheckboxes       bool           `json:"show_checkboxes,omitempty"`
	Checkboxes           []Checkbox     `json:"checkboxes,omitempty"`
	ShowAttachmentUpload bool           `json:"show_attachment_upload,omitempty"`
	Solutions            []SolutionStep `json:"solutions_with_feedback,omitempty"`
}

// UploadResponse is the response shape of the image upload endpoint, one file
// per call.
type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}
