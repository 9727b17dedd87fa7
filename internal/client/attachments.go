package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/uploads"
)

// MaxAttachments caps the pending attachment list.
const MaxAttachments = 5

// PendingAttachment is one selected-but-not-yet-uploaded image.
type PendingAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Attachments manages the pending attachment list: validation at selection
// time, a hard cap of MaxAttachments, and a sequential upload that preserves
// selection order. Uploads happen only on the ticket-confirmation path; the
// list survives state changes and is cleared only after a confirmed ticket or
// a restart.
type Attachments struct {
	pending []PendingAttachment
}

// Add validates and appends files in order. It returns one error per rejected
// file (wrong type, too large, or beyond remaining capacity); accepted files
// are appended regardless of rejections elsewhere in the batch.
func (a *Attachments) Add(files ...PendingAttachment) []error {
	var errs []error
	for _, f := range files {
		if err := uploads.ValidateImage(f.Filename, f.ContentType, f.Data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Filename, err))
			continue
		}
		if len(a.pending) >= MaxAttachments {
			errs = append(errs, fmt.Errorf("%s: attachment limit of %d reached", f.Filename, MaxAttachments))
			continue
		}
		a.pending = append(a.pending, f)
	}
	return errs
}

// Pending returns the current pending files in selection order.
func (a *Attachments) Pending() []PendingAttachment {
	out := make([]PendingAttachment, len(a.pending))
	copy(out, a.pending)
	return out
}

// Len returns the number of pending files.
func (a *Attachments) Len() int { return len(a.pending) }

// Clear drops all pending files.
func (a *Attachments) Clear() { a.pending = nil }

// uploadAll uploads the pending files strictly in order and returns the URLs
// of the ones that succeeded. A per-file failure is logged and skipped; the
// remaining files still upload, so ticket creation proceeds with whatever
// subset made it.
func (a *Attachments) uploadAll(ctx context.Context, api *Client) []string {
	var urls []string
	for _, f := range a.pending {
		url, err := api.UploadImage(ctx, f.Filename, f.ContentType, f.Data)
		if err != nil {
			slog.Warn("attachment upload failed, continuing without it", "file", f.Filename, "error", err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
