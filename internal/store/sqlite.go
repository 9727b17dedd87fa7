package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/domain"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS tickets (
		ticket_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		ticket_type TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT,
		subject TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		priority TEXT NOT NULL DEFAULT 'medium',
		attachment_urls TEXT,
		session_id TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id, created_at);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		ticket_id TEXT,
		flow_type TEXT NOT NULL,
		rating INTEGER NOT NULL DEFAULT 0,
		feedback_text TEXT,
		solution_feedback TEXT,
		solutions_shown TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_session ON feedback(session_id);

	CREATE TABLE IF NOT EXISTS conversation_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		message TEXT,
		state TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversation_session ON conversation_log(session_id, id);

	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateTicket persists a new ticket.
func (s *SQLiteStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	var attachments interface{}
	if len(ticket.AttachmentURLs) > 0 {
		b, err := json.Marshal(ticket.AttachmentURLs)
		if err != nil {
			return fmt.Errorf("marshal attachment urls: %w", err)
		}
		attachments = string(b)
	}

	query := `
	INSERT INTO tickets (
		ticket_id, user_id, username, ticket_type, category, subcategory,
		subject, description, status, priority, attachment_urls, session_id,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		ticket.TicketID, ticket.UserID, ticket.Username, ticket.TicketType,
		ticket.Category, ticket.Subcategory, ticket.Subject, ticket.Description,
		ticket.Status, ticket.Priority, attachments, ticket.SessionID,
		ticket.CreatedAt.Unix(), ticket.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

const ticketColumns = `ticket_id, user_id, username, ticket_type, category,
	subcategory, subject, description, status, priority, attachment_urls,
	session_id, created_at, updated_at`

func scanTicket(scan func(dest ...any) error) (*domain.Ticket, error) {
	var t domain.Ticket
	var subcategory, attachments, sessionID sql.NullString
	var createdAt, updatedAt int64

	err := scan(
		&t.TicketID, &t.UserID, &t.Username, &t.TicketType, &t.Category,
		&subcategory, &t.Subject, &t.Description, &t.Status, &t.Priority,
		&attachments, &sessionID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Subcategory = subcategory.String
	t.SessionID = sessionID.String
	t.CreatedAt = time.Unix(createdAt, 0)
	t.UpdatedAt = time.Unix(updatedAt, 0)

	if attachments.Valid && attachments.String != "" {
		if err := json.Unmarshal([]byte(attachments.String), &t.AttachmentURLs); err != nil {
			return nil, fmt.Errorf("unmarshal attachment urls: %w", err)
		}
	}
	return &t, nil
}

// GetTicket retrieves a ticket by its ID. Returns nil when not found.
func (s *SQLiteStore) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id = ?`
	row := s.db.QueryRowContext(ctx, query, ticketID)

	ticket, err := scanTicket(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan ticket row: %w", err)
	}
	return ticket, nil
}

func (s *SQLiteStore) queryTickets(ctx context.Context, query string, args ...any) ([]*domain.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close ticket rows", "error", closeErr)
		}
	}()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// ListTicketsByUser retrieves all tickets of one user, newest first.
func (s *SQLiteStore) ListTicketsByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = ? ORDER BY created_at DESC`
	return s.queryTickets(ctx, query, userID)
}

// ListTickets retrieves all tickets, newest first.
func (s *SQLiteStore) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	return s.queryTickets(ctx, query)
}

// UpdateTicketStatus sets the status of a ticket.
func (s *SQLiteStore) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	query := `UPDATE tickets SET status = ?, updated_at = ? WHERE ticket_id = ?`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().Unix(), ticketID)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ticket not found: %s", ticketID)
	}
	return nil
}

// SaveFeedback persists an end-of-conversation feedback record.
func (s *SQLiteStore) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	var solutionFeedback, solutionsShown interface{}
	if len(fb.SolutionFeedback) > 0 {
		b, err := json.Marshal(fb.SolutionFeedback)
		if err != nil {
			return fmt.Errorf("marshal solution feedback: %w", err)
		}
		solutionFeedback = string(b)
	}
	if len(fb.SolutionsShown) > 0 {
		b, err := json.Marshal(fb.SolutionsShown)
		if err != nil {
			return fmt.Errorf("marshal solutions shown: %w", err)
		}
		solutionsShown = string(b)
	}

	query := `
	INSERT INTO feedback (
		session_id, user_id, ticket_id, flow_type, rating, feedback_text,
		solution_feedback, solutions_shown, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var ticketID interface{}
	if fb.TicketID != "" {
		ticketID = fb.TicketID
	}

	_, err := s.db.ExecContext(ctx, query,
		fb.SessionID, fb.UserID, ticketID, fb.FlowType, fb.Rating,
		fb.FeedbackText, solutionFeedback, solutionsShown,
		fb.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// SaveConversationTurn appends one turn to the conversation log.
// Retries with exponential backoff on SQLITE_BUSY; log writes race the
// ticket/feedback writes of the same request.
func (s *SQLiteStore) SaveConversationTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = s.saveConversationTurnOnce(ctx, turn)
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) {
			return err
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("SaveConversationTurn hit SQLITE_BUSY, retrying",
				"session_id", turn.SessionID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("save conversation turn after %d attempts: %w", maxRetries, err)
}

func (s *SQLiteStore) saveConversationTurnOnce(ctx context.Context, turn *domain.ConversationTurn) error {
	query := `
	INSERT INTO conversation_log (session_id, user_id, action, message, state, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		turn.SessionID, turn.UserID, turn.Action, turn.Message, turn.State,
		turn.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert conversation turn: %w", err)
	}
	return nil
}

// UpsertUser creates or refreshes a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.LastSeenAt.Unix(),
		user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
