package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/uploads"
)

// pngBytes returns data that sniffs as image/png.
func pngBytes(extra int) []byte {
	header := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	return append(header, make([]byte, extra)...)
}

func pngFile(name string) PendingAttachment {
	return PendingAttachment{Filename: name, ContentType: "image/png", Data: pngBytes(16)}
}

func TestAttachmentValidationAndCap(t *testing.T) {
	t.Parallel()
	var a Attachments

	errs := a.Add(
		pngFile("one.png"),
		PendingAttachment{Filename: "big.png", ContentType: "image/png", Data: pngBytes(uploads.MaxImageSize)},
		PendingAttachment{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
		pngFile("two.png"),
	)
	if len(errs) != 2 {
		t.Fatalf("got %d rejections, want 2: %v", len(errs), errs)
	}
	if a.Len() != 2 {
		t.Fatalf("pending = %d, want 2", a.Len())
	}

	// Fill to the cap, then one more batch: the overflow is rejected
	// per-file, never silently dropped.
	if errs := a.Add(pngFile("three.png"), pngFile("four.png"), pngFile("five.png")); len(errs) != 0 {
		t.Fatalf("unexpected rejections: %v", errs)
	}
	errs = a.Add(pngFile("six.png"), pngFile("seven.png"))
	if len(errs) != 2 {
		t.Fatalf("got %d rejections past the cap, want 2", len(errs))
	}
	if a.Len() != MaxAttachments {
		t.Fatalf("pending = %d, want %d", a.Len(), MaxAttachments)
	}

	// Selection order is preserved.
	want := []string{"one.png", "two.png", "three.png", "four.png", "five.png"}
	for i, f := range a.Pending() {
		if f.Filename != want[i] {
			t.Errorf("pending[%d] = %s, want %s", i, f.Filename, want[i])
		}
	}
}

func TestAttachmentUploadOrderAndPartialFailure(t *testing.T) {
	t.Parallel()

	var order []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload/image", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		file.Close()
		order = append(order, header.Filename)

		resp := protocol.UploadResponse{Success: true, URL: "https://files.test/" + header.Filename}
		if header.Filename == "two.png" {
			resp = protocol.UploadResponse{Success: false, Error: "storage hiccup"}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode: %v", err)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var a Attachments
	if errs := a.Add(pngFile("one.png"), pngFile("two.png"), pngFile("three.png")); len(errs) != 0 {
		t.Fatalf("unexpected rejections: %v", errs)
	}

	urls := a.uploadAll(context.Background(), api)

	// The failed file is skipped; the rest keep their order.
	want := []string{"https://files.test/one.png", "https://files.test/three.png"}
	if fmt.Sprint(urls) != fmt.Sprint(want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
	if fmt.Sprint(order) != fmt.Sprint([]string{"one.png", "two.png", "three.png"}) {
		t.Errorf("upload order = %v", order)
	}
}
