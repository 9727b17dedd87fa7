package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/catalog"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/chat"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/identity"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/resolver"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Repository) {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "api-test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})

	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	sessions, err := chat.NewSessions(64)
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}
	chatSvc := chat.NewService(cat, resolver.NewKeyword(cat), repo, sessions)
	handler := NewHandler(repo, chatSvc, nil)

	r := chi.NewRouter()
	r.Use(identity.Middleware(repo, true))
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

// cookieClient keeps the anonymous identity cookie between calls, so one
// client is one user.
func cookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postChat(t *testing.T, client *http.Client, url string, req *protocol.ChatRequest) *protocol.ChatResponse {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	httpResp, err := client.Post(url+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/chat: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", httpResp.StatusCode)
	}

	var resp protocol.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &resp
}

func TestChatEndpointStart(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	client := cookieClient(t)

	resp := postChat(t, client, srv.URL, &protocol.ChatRequest{Action: protocol.ActionStart})
	if !resp.Success {
		t.Fatalf("start failed: %s", resp.Error)
	}
	if resp.SessionID == "" {
		t.Error("no session id in start response")
	}
	if len(resp.Buttons) != 2 {
		t.Errorf("got %d buttons, want 2 ticket types", len(resp.Buttons))
	}
	if !resp.State.Is(protocol.StateAwaitingTicketType) {
		t.Errorf("state = %s", resp.State)
	}
}

func TestChatEndpointSessionContinuity(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	client := cookieClient(t)

	start := postChat(t, client, srv.URL, &protocol.ChatRequest{Action: protocol.ActionStart})
	next := postChat(t, client, srv.URL, &protocol.ChatRequest{
		Action:    protocol.ActionSelectTicketType,
		Value:     "Incident",
		SessionID: start.SessionID,
	})
	if next.SessionID != start.SessionID {
		t.Errorf("session id changed: %s -> %s", start.SessionID, next.SessionID)
	}
	if !next.State.Is(protocol.StateAwaitingSmartCat) {
		t.Errorf("state = %s, want awaiting_smart_category", next.State)
	}
}

func TestChatEndpointMalformedBody(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	client := cookieClient(t)

	httpResp, err := client.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 with success=false", httpResp.StatusCode)
	}
	var resp protocol.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("malformed body reported success")
	}
	if len(resp.Buttons) == 0 || resp.Buttons[0].Action != protocol.ActionRestart {
		t.Error("error response carries no restart button")
	}
}

func TestTicketEndpoints(t *testing.T) {
	t.Parallel()
	srv, repo := newTestServer(t)
	client := cookieClient(t)

	now := time.Now()
	ticket := &domain.Ticket{
		TicketID:    "TCK-API1",
		UserID:      "user-api",
		Username:    "API User",
		TicketType:  "Incident",
		Category:    "Network Connection Issues",
		Subject:     "Port dead",
		Description: "No link light.",
		Status:      domain.StatusOpen,
		Priority:    domain.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	// Detail.
	httpResp, err := client.Get(srv.URL + "/api/tickets/TCK-API1")
	if err != nil {
		t.Fatalf("GET ticket: %v", err)
	}
	var got domain.Ticket
	if err := json.NewDecoder(httpResp.Body).Decode(&got); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	httpResp.Body.Close()
	if got.Subject != "Port dead" {
		t.Errorf("subject = %q", got.Subject)
	}

	// Missing ticket is a 404.
	httpResp, err = client.Get(srv.URL + "/api/tickets/TCK-NOPE")
	if err != nil {
		t.Fatalf("GET missing ticket: %v", err)
	}
	httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusNotFound {
		t.Errorf("missing ticket status = %d, want 404", httpResp.StatusCode)
	}

	// Per-user listing.
	httpResp, err = client.Get(srv.URL + "/api/tickets/user/user-api")
	if err != nil {
		t.Fatalf("GET user tickets: %v", err)
	}
	var listing struct {
		Tickets []domain.Ticket `json:"tickets"`
		Count   int             `json:"count"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	httpResp.Body.Close()
	if listing.Count != 1 {
		t.Errorf("count = %d, want 1", listing.Count)
	}

	// Status update.
	putReq, err := http.NewRequest(http.MethodPut, srv.URL+"/api/tickets/TCK-API1/status",
		bytes.NewReader([]byte(`{"status":"resolved"}`)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	putReq.Header.Set("Content-Type", "application/json")
	httpResp, err = client.Do(putReq)
	if err != nil {
		t.Fatalf("PUT status: %v", err)
	}
	httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Errorf("status update = %d, want 200", httpResp.StatusCode)
	}

	updated, err := repo.GetTicket(context.Background(), "TCK-API1")
	if err != nil || updated == nil {
		t.Fatalf("reload ticket: %v", err)
	}
	if updated.Status != domain.StatusResolved {
		t.Errorf("status = %q, want resolved", updated.Status)
	}

	// Invalid status is rejected.
	putReq, err = http.NewRequest(http.MethodPut, srv.URL+"/api/tickets/TCK-API1/status",
		bytes.NewReader([]byte(`{"status":"on_fire"}`)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	httpResp, err = client.Do(putReq)
	if err != nil {
		t.Fatalf("PUT invalid status: %v", err)
	}
	httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid status update = %d, want 400", httpResp.StatusCode)
	}
}

func TestUploadWithoutStorageConfigured(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	client := cookieClient(t)

	httpResp, err := client.Post(srv.URL+"/api/upload/image", "application/json",
		bytes.NewReader([]byte(`{"filename":"a.png","content_type":"image/png","data":"aGVsbG8="}`)))
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer httpResp.Body.Close()

	var resp protocol.UploadResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("upload succeeded with no storage configured")
	}
	if resp.Error == "" {
		t.Error("upload error text is empty")
	}
}
