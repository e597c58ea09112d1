package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"spadesk/internal/db"
)

type ChatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateSession(ctx context.Context, s *db.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (session_id, user_email, user_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, last_activity`
	err := r.DB.QueryRowContext(ctx, query, s.SessionID, s.UserEmail, s.UserName).
		Scan(&s.ID, &s.CreatedAt, &s.LastActivity)
	if err != nil {
		return fmt.Errorf("error creating chat session: %w", err)
	}
	return nil
}

func (r *ChatRepository) GetSession(ctx context.Context, sessionID string) (*db.ChatSession, error) {
	var s db.ChatSession
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, session_id, user_email, user_name, created_at, last_activity
		FROM chat_sessions WHERE session_id = $1`, sessionID).
		Scan(&s.ID, &s.SessionID, &s.UserEmail, &s.UserName, &s.CreatedAt, &s.LastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying chat session: %w", err)
	}
	return &s, nil
}

// RecentMessages returns at most limit exchanges of the session, oldest
// first.
func (r *ChatRepository) RecentMessages(ctx context.Context, sessionID string, limit int) ([]db.ChatMessage, error) {
	query := `
	SELECT id, session_id, message, response, created_at FROM (
		SELECT id, session_id, message, response, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	query += `) recent ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying chat messages: %w", err)
	}
	defer rows.Close()

	messages := []db.ChatMessage{}
	for rows.Next() {
		var m db.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Message, &m.Response, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating chat messages: %w", err)
	}
	return messages, nil
}

// AddMessage stores one exchange and bumps the session's last activity in
// the same transaction.
func (r *ChatRepository) AddMessage(ctx context.Context, m *db.ChatMessage) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO chat_messages (session_id, message, response)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		m.SessionID, m.Message, m.Response).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting chat message: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE chat_sessions SET last_activity = NOW() WHERE session_id = $1`, m.SessionID); err != nil {
		return fmt.Errorf("error updating session activity: %w", err)
	}
	return tx.Commit()
}

// SessionSummary is a session with its message count.
type SessionSummary struct {
	db.ChatSession
	MessageCount int
}

// ListSessions returns sessions by most recent activity. An empty
// userEmail matches all.
func (r *ChatRepository) ListSessions(ctx context.Context, userEmail string, limit int) ([]SessionSummary, error) {
	query := `
	SELECT s.id, s.session_id, s.user_email, s.user_name, s.created_at, s.last_activity, COUNT(m.id)
	FROM chat_sessions s
	LEFT JOIN chat_messages m ON m.session_id = s.session_id
	WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if userEmail != "" {
		query += " AND s.user_email = $" + strconv.Itoa(idx)
		args = append(args, userEmail)
		idx++
	}
	query += " GROUP BY s.id ORDER BY s.last_activity DESC LIMIT $" + strconv.Itoa(idx)
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.ID, &s.SessionID, &s.UserEmail, &s.UserName, &s.CreatedAt, &s.LastActivity, &s.MessageCount); err != nil {
			return nil, fmt.Errorf("error scanning chat session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating chat sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session; its messages go with it.
func (r *ChatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chat_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("error deleting chat session: %w", err)
	}
	return expectOneRow(res)
}
