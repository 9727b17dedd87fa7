package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
)

// hardwareItems are the orderable hardware categories.
var hardwareItems = []protocol.Button{
	{ID: "laptop", Label: "💻 Laptop", Value: "Laptop"},
	{ID: "desktop", Label: "🖥️ Desktop", Value: "Desktop"},
	{ID: "monitor", Label: "🖵 Monitor", Value: "Monitor"},
	{ID: "keyboard", Label: "⌨️ Keyboard", Value: "Keyboard"},
	{ID: "mouse", Label: "🖱️ Mouse", Value: "Mouse"},
	{ID: "headset", Label: "🎧 Headset", Value: "Headset"},
	{ID: "webcam", Label: "📷 Webcam", Value: "Webcam"},
	{ID: "docking_station", Label: "🔌 Docking Station", Value: "Docking Station"},
	{ID: "other_hardware", Label: "📝 Other Hardware", Value: "Other Hardware"},
}

// hardwareBrands maps each hardware item to its brand choices.
var hardwareBrands = map[string][]protocol.Button{
	"Laptop": {
		{ID: "hp_laptop", Label: "💻 HP", Value: "HP Laptop"},
		{ID: "dell_laptop", Label: "💻 Dell", Value: "Dell Laptop"},
		{ID: "lenovo_laptop", Label: "💻 Lenovo", Value: "Lenovo Laptop"},
		{ID: "macbook", Label: "🍎 MacBook", Value: "Apple MacBook"},
		{ID: "other_laptop", Label: "📝 Other", Value: "Other Laptop"},
	},
	"Desktop": {
		{ID: "hp_desktop", Label: "🖥️ HP", Value: "HP Desktop"},
		{ID: "dell_desktop", Label: "🖥️ Dell", Value: "Dell Desktop"},
		{ID: "lenovo_desktop", Label: "🖥️ Lenovo", Value: "Lenovo Desktop"},
		{ID: "other_desktop", Label: "📝 Other", Value: "Other Desktop"},
	},
	"Monitor": {
		{ID: "dell_monitor", Label: "🖵 Dell", Value: "Dell Monitor"},
		{ID: "hp_monitor", Label: "🖵 HP", Value: "HP Monitor"},
		{ID: "lg_monitor", Label: "🖵 LG", Value: "LG Monitor"},
		{ID: "samsung_monitor", Label: "🖵 Samsung", Value: "Samsung Monitor"},
		{ID: "other_monitor", Label: "📝 Other", Value: "Other Monitor"},
	},
	"Keyboard": {
		{ID: "standard_kb", Label: "⌨️ Standard Keyboard", Value: "Standard Keyboard"},
		{ID: "ergonomic_kb", Label: "⌨️ Ergonomic Keyboard", Value: "Ergonomic Keyboard"},
		{ID: "wireless_kb", Label: "⌨️ Wireless Keyboard", Value: "Wireless Keyboard"},
		{ID: "other_kb", Label: "📝 Other", Value: "Other Keyboard"},
	},
	"Mouse": {
		{ID: "standard_mouse", Label: "🖱️ Standard Mouse", Value: "Standard Mouse"},
		{ID: "ergonomic_mouse", Label: "🖱️ Ergonomic Mouse", Value: "Ergonomic Mouse"},
		{ID: "wireless_mouse", Label: "🖱️ Wireless Mouse", Value: "Wireless Mouse"},
		{ID: "other_mouse", Label: "📝 Other", Value: "Other Mouse"},
	},
	"Headset": {
		{ID: "jabra", Label: "🎧 Jabra", Value: "Jabra Headset"},
		{ID: "plantronics", Label: "🎧 Plantronics", Value: "Plantronics Headset"},
		{ID: "logitech_hs", Label: "🎧 Logitech", Value: "Logitech Headset"},
		{ID: "other_headset", Label: "📝 Other", Value: "Other Headset"},
	},
	"Webcam": {
		{ID: "logitech_cam", Label: "📷 Logitech", Value: "Logitech Webcam"},
		{ID: "hp_cam", Label: "📷 HP", Value: "HP Webcam"},
		{ID: "dell_cam", Label: "📷 Dell", Value: "Dell Webcam"},
		{ID: "other_webcam", Label: "📝 Other", Value: "Other Webcam"},
	},
	"Docking Station": {
		{ID: "hp_dock", Label: "🔌 HP", Value: "HP Docking Station"},
		{ID: "dell_dock", Label: "🔌 Dell", Value: "Dell Docking Station"},
		{ID: "lenovo_dock", Label: "🔌 Lenovo", Value: "Lenovo Docking Station"},
		{ID: "other_dock", Label: "📝 Other", Value: "Other Docking Station"},
	},
}

var softwareItems = []protocol.Button{
	{ID: "adobe_acrobat", Label: "Adobe Acrobat Pro", Value: "Adobe Acrobat Pro"},
	{ID: "ms_visio", Label: "Microsoft Visio", Value: "Microsoft Visio"},
	{ID: "ms_project", Label: "Microsoft Project", Value: "Microsoft Project"},
	{ID: "autocad", Label: "AutoCAD", Value: "AutoCAD"},
	{ID: "zoom", Label: "Zoom", Value: "Zoom"},
	{ID: "slack", Label: "Slack", Value: "Slack"},
	{ID: "other", Label: "📝 Other Software", Value: "Other"},
}

var internetOptions = []protocol.Checkbox{
	{ID: "ai_internet", Label: "AI Internet Access", Value: "AI Internet Access"},
	{ID: "hr_access", Label: "HR Portal Access", Value: "HR Portal Access"},
	{ID: "social_media", Label: "Social Media Access", Value: "Social Media Access"},
	{ID: "dev_tools", Label: "Developer Tools Access", Value: "Developer Tools Access"},
	{ID: "cloud_storage", Label: "Cloud Storage Access", Value: "Cloud Storage Access"},
}

const simulatedManager = "Maheshwar"

func withAction(buttons []protocol.Button, action protocol.Action) []protocol.Button {
	out := make([]protocol.Button, len(buttons))
	for i, b := range buttons {
		b.Action = action
		out[i] = b
	}
	return out
}

func (s *Service) startRequestFlow(conv *Conversation) *protocol.ChatResponse {
	conv.Request = &RequestDraft{}
	conv.pushNav(protocol.StateAwaitingTicketType)
	conv.State = protocol.State{Name: protocol.StateRequestCategory}
	return ok("📝 **New Request**\n\nWhat kind of request would you like to make?", conv.State,
		protocol.Button{ID: "hardware", Label: "🖥️ IT Hardware Request", Action: protocol.ActionSelectRequestCategory, Value: "hardware"},
		protocol.Button{ID: "software", Label: "💿 Install/Remove Software", Action: protocol.ActionSelectRequestCategory, Value: "software"},
		protocol.Button{ID: "access", Label: "🔐 Access Related", Action: protocol.ActionSelectRequestCategory, Value: "access"},
		goBackButton(),
	)
}

func (s *Service) draft(conv *Conversation) *RequestDraft {
	if conv.Request == nil {
		conv.Request = &RequestDraft{}
	}
	return conv.Request
}

func (s *Service) handleSelectRequestCategory(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.Category = value
	conv.pushNav(protocol.StateRequestCategory)

	switch value {
	case "hardware":
		conv.State = protocol.State{Name: protocol.StateRequestHardwareType}
		buttons := append(withAction(hardwareItems, protocol.ActionSelectHardwareItem), goBackButton())
		return ok("🖥️ **IT Hardware Request**\n\nPlease select the hardware you need:", conv.State, buttons...)
	case "software":
		conv.State = protocol.State{Name: protocol.StateRequestSoftwareAction}
		return ok("💿 **Software Request**\n\nWould you like to install or remove software?", conv.State,
			protocol.Button{ID: "install", Label: "📥 Install Software", Action: protocol.ActionSelectSoftwareAction, Value: "install"},
			protocol.Button{ID: "remove", Label: "📤 Remove Software", Action: protocol.ActionSelectSoftwareAction, Value: "remove"},
			goBackButton(),
		)
	case "access":
		conv.State = protocol.State{Name: protocol.StateRequestAccessType}
		return ok("🔐 **Access Request**\n\nPlease select the type of access you need:", conv.State,
			protocol.Button{ID: "internet", Label: "🌐 Internet Access", Action: protocol.ActionSelectAccessType, Value: "internet"},
			protocol.Button{ID: "shared_folder", Label: "📁 Shared Folder Access", Action: protocol.ActionSelectAccessType, Value: "shared_folder"},
			protocol.Button{ID: "vpn", Label: "🔒 VPN Access", Action: protocol.ActionSelectAccessType, Value: "vpn"},
			goBackButton(),
		)
	}
	return s.unknownSelection(conv)
}

func (s *Service) handleSelectHardwareItem(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.HardwareItem = value
	conv.pushNav(protocol.StateRequestHardwareType)

	if value == "Other Hardware" {
		conv.State = protocol.State{Name: protocol.StateRequestJustification}
		resp := ok("📝 **Other Hardware Request**\n\nPlease describe the hardware you need:", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}

	brands, found := hardwareBrands[value]
	if !found {
		draft.Justification = "Requesting " + value
		return s.showRequestPreview(conv)
	}

	conv.State = protocol.State{Name: protocol.StateRequestHardwareBrand}
	buttons := append(withAction(brands, protocol.ActionSelectHardwareBrand), goBackButton())
	return ok(fmt.Sprintf("💻 **%s Request**\n\nPlease select the brand/type:", value), conv.State, buttons...)
}

func (s *Service) handleSelectHardwareBrand(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)

	if strings.HasPrefix(value, "Other ") {
		draft.HardwareItem = strings.TrimPrefix(value, "Other ")
		conv.State = protocol.State{Name: protocol.StateRequestJustification}
		resp := ok(fmt.Sprintf("📝 **Other %s**\n\nPlease specify the brand/model you need:", draft.HardwareItem), conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}

	draft.HardwareBrand = value
	draft.Justification = "Requesting " + value
	conv.pushNav(protocol.StateRequestHardwareBrand)
	return s.showRequestPreview(conv)
}

func (s *Service) handleSelectSoftwareAction(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.SoftwareAction = value
	conv.pushNav(protocol.StateRequestSoftwareAction)
	conv.State = protocol.State{Name: protocol.StateRequestSoftwareType}

	verb, title := "install", "Install"
	if value == "remove" {
		verb, title = "remove", "Remove"
	}
	buttons := append(withAction(softwareItems, protocol.ActionSelectSoftwareItem), goBackButton())
	return ok(fmt.Sprintf("💿 **Software %s**\n\nPlease select the software to %s:", title, verb), conv.State, buttons...)
}

func (s *Service) handleSelectSoftwareItem(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)

	if value == "Other" {
		conv.State = protocol.State{Name: protocol.StateRequestSoftwareType}
		resp := ok("📝 **Other Software**\n\nPlease enter the software name:", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}

	draft.SoftwareItem = value
	action := draft.SoftwareAction
	if action == "" {
		action = "install"
	}
	draft.Justification = fmt.Sprintf("Requesting %s of %s", action, value)
	conv.pushNav(protocol.StateRequestSoftwareType)
	return s.showRequestPreview(conv)
}

// handleSoftwareItemText handles the typed software name for "Other".
func (s *Service) handleSoftwareItemText(conv *Conversation, text string) *protocol.ChatResponse {
	text = strings.TrimSpace(text)
	if text == "" {
		resp := ok("📝 Please enter the software name:", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}
	draft := s.draft(conv)
	draft.SoftwareItem = text
	action := draft.SoftwareAction
	if action == "" {
		action = "install"
	}
	draft.Justification = fmt.Sprintf("Requesting %s of %s", action, text)
	return s.showRequestPreview(conv)
}

func (s *Service) handleSelectAccessType(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.AccessType = value
	conv.pushNav(protocol.StateRequestAccessType)

	switch value {
	case "internet":
		conv.State = protocol.State{Name: protocol.StateRequestInternetAccess}
		resp := ok("🌐 **Internet Access Request**\n\nSelect the access types you need (you can select multiple):", conv.State,
			protocol.Button{ID: "confirm", Label: "✅ Confirm Selection", Action: protocol.ActionConfirmInternetAccess, Value: "confirm"},
			goBackButton(),
		)
		resp.ShowCheckboxes = true
		resp.Checkboxes = internetOptions
		return resp
	case "shared_folder":
		conv.State = protocol.State{Name: protocol.StateRequestFolderPath}
		resp := ok("📁 **Shared Folder Access**\n\nPlease enter the folder path (e.g., \\\\server\\share\\folder):", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	case "vpn":
		conv.State = protocol.State{Name: protocol.StateRequestVPNReason}
		resp := ok("🔒 **VPN Access Request**\n\nPlease describe why you need VPN access:", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}
	return s.unknownSelection(conv)
}

func (s *Service) handleConfirmInternetAccess(conv *Conversation, selected []string) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.InternetOptions = selected
	if len(selected) > 0 {
		draft.Justification = "Requesting access to: " + strings.Join(selected, ", ")
	} else {
		draft.Justification = "Requesting internet access"
	}
	conv.pushNav(protocol.StateRequestInternetAccess)
	return s.showRequestPreview(conv)
}

func (s *Service) handleFolderPathText(conv *Conversation, text string) *protocol.ChatResponse {
	text = strings.TrimSpace(text)
	if text == "" {
		resp := ok("📁 Please enter the folder path:", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}
	draft := s.draft(conv)
	draft.FolderPath = text
	conv.pushNav(protocol.StateRequestFolderPath)
	conv.State = protocol.State{Name: protocol.StateRequestFolderPermission}
	return ok(fmt.Sprintf("📁 **Folder: %s**\n\nSelect the permission level you need:", text), conv.State,
		protocol.Button{ID: "read", Label: "👁️ Read Only", Action: protocol.ActionSelectFolderPermission, Value: "Read"},
		protocol.Button{ID: "write", Label: "✏️ Write Only", Action: protocol.ActionSelectFolderPermission, Value: "Write"},
		protocol.Button{ID: "rw", Label: "📝 Read & Write", Action: protocol.ActionSelectFolderPermission, Value: "Read/Write"},
		goBackButton(),
	)
}

func (s *Service) handleSelectFolderPermission(conv *Conversation, value string) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.FolderPermission = value
	draft.Justification = fmt.Sprintf("Requesting %s access to %s", value, draft.FolderPath)
	conv.pushNav(protocol.StateRequestFolderPermission)
	return s.showRequestPreview(conv)
}

func (s *Service) handleVPNReasonText(conv *Conversation, text string) *protocol.ChatResponse {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "VPN access required for remote work"
	}
	draft := s.draft(conv)
	draft.VPNReason = text
	draft.Justification = text
	conv.pushNav(protocol.StateRequestVPNReason)
	return s.showRequestPreview(conv)
}

// handleJustificationText covers the "Other" hardware descriptions, which
// arrive as typed text instead of a selection.
func (s *Service) handleJustificationText(conv *Conversation, text string) *protocol.ChatResponse {
	text = strings.TrimSpace(text)
	if text == "" {
		resp := ok("📝 Please describe what you need:", conv.State, goBackButton())
		resp.ShowTextInput = true
		return resp
	}
	draft := s.draft(conv)
	if draft.HardwareBrand == "" && draft.Category == "hardware" {
		draft.HardwareBrand = text
	}
	draft.Justification = text
	return s.showRequestPreview(conv)
}

// requestItem renders the human-readable "what is being requested" line.
func (d *RequestDraft) requestItem() string {
	switch d.Category {
	case "hardware":
		if d.HardwareBrand != "" {
			return d.HardwareBrand
		}
		return d.HardwareItem
	case "software":
		return d.SoftwareItem
	case "access":
		switch d.AccessType {
		case "internet":
			if len(d.InternetOptions) > 0 {
				return strings.Join(d.InternetOptions, ", ")
			}
			return "Internet Access"
		case "shared_folder":
			return fmt.Sprintf("Shared Folder: %s (%s)", d.FolderPath, d.FolderPermission)
		case "vpn":
			return "VPN Access"
		}
	}
	return "Request"
}

func (d *RequestDraft) requestType() string {
	item := d.requestItem()
	switch d.Category {
	case "hardware":
		return "🖥️ Hardware Request: " + item
	case "software":
		action := "Installation"
		if d.SoftwareAction == "remove" {
			action = "Removal"
		}
		return fmt.Sprintf("💿 Software %s: %s", action, item)
	case "access":
		switch d.AccessType {
		case "internet":
			return "🌐 Internet Access: " + item
		case "shared_folder":
			return "📁 Shared Folder Access: " + item
		case "vpn":
			return "🔒 VPN Access"
		}
		return "🔐 Access Request: " + item
	}
	return "📋 Request: " + item
}

func (s *Service) showRequestPreview(conv *Conversation) *protocol.ChatResponse {
	draft := s.draft(conv)
	conv.State = protocol.State{Name: protocol.StateRequestPreview}

	justification := draft.Justification
	if justification == "" {
		justification = "No justification provided"
	}
	msg := fmt.Sprintf("📋 **Request Preview**\n\n**Type:** %s\n\n**Justification:** %s\n\n---\nWould you like to submit this request?",
		draft.requestType(), justification)
	return ok(msg, conv.State,
		protocol.Button{ID: "confirm", Label: "✅ Submit Request", Action: protocol.ActionSubmitRequest, Value: "yes"},
		protocol.Button{ID: "cancel", Label: "❌ Cancel", Action: protocol.ActionStart, Value: "no"},
	)
}

// handleSubmitRequest forwards the request for manager approval. Approval is
// simulated; no ticket is created for requests.
func (s *Service) handleSubmitRequest(_ context.Context, conv *Conversation) *protocol.ChatResponse {
	draft := s.draft(conv)
	draft.Submitted = true
	draft.ApprovedBy = simulatedManager
	conv.FlowType = domain.FlowRequestComplete
	conv.State = protocol.State{Name: protocol.StateRequestComplete}

	msg := fmt.Sprintf("✅ **Request Submitted Successfully!**\n\nYour request for **%s** has been forwarded to **Manager %s** for approval.\n\n📧 We'll notify you via email once the manager approves your request.\n\n---\n\nWould you like to do anything else?",
		draft.requestItem(), simulatedManager)
	return ok(msg, conv.State,
		protocol.Button{ID: "check", Label: "🔍 Check Approval Status", Action: protocol.ActionCheckApproval, Value: "check"},
		protocol.Button{ID: "new", Label: "🆕 New Request", Action: protocol.ActionStart, Value: "new"},
		protocol.Button{ID: "done", Label: "✅ I'm Done", Action: protocol.ActionEnd, Value: "done"},
	)
}

func (s *Service) handleCheckApproval(conv *Conversation) *protocol.ChatResponse {
	draft := s.draft(conv)
	manager := draft.ApprovedBy
	if manager == "" {
		manager = "Your Manager"
	}
	conv.State = protocol.State{Name: protocol.StateManagerApproved}

	msg := fmt.Sprintf("✅ **Request Approved!**\n\n👤 **Manager %s** has reviewed and approved your request for **%s**.\n\n📧 You will receive a confirmation email shortly.\n\n---\n\nWould you like to do anything else?",
		manager, draft.requestItem())
	return ok(msg, conv.State,
		protocol.Button{ID: "new", Label: "🆕 New Request", Action: protocol.ActionStart, Value: "new"},
		protocol.Button{ID: "done", Label: "✅ I'm Done", Action: protocol.ActionEnd, Value: "done"},
	)
}
