package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"darion/internal/domain/conversation"
	"darion/internal/infrastructure/database"
)

type conversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *database.DB) conversation.Repository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) CreateSession(session *conversation.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO conversation_sessions (id, created_at, updated_at) VALUES (?, ?, ?)`,
		session.ID, session.CreatedAt, session.UpdatedAt,
	)
	return err
}

func (r *conversationRepository) GetSession(id string) (*conversation.Session, error) {
	session := &conversation.Session{}

	err := r.db.QueryRow(
		`SELECT id, created_at, updated_at FROM conversation_sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, conversation.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *conversationRepository) Append(msg *conversation.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE conversation_sessions SET updated_at = ? WHERE id = ?`,
		msg.CreatedAt, msg.SessionID,
	)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return conversation.ErrSessionNotFound
	}

	if _, err := tx.Exec(
		`INSERT INTO conversation_messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Recent returns the last limit messages of a session, oldest first
func (r *conversationRepository) Recent(sessionID string, limit int) ([]conversation.Message, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, role, content, created_at
		 FROM conversation_messages WHERE session_id = ?
		 ORDER BY seq DESC LIMIT ?`, sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []conversation.Message{}
	for rows.Next() {
		var m conversation.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// newest first from the query, callers want conversation order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Trim keeps only the newest keep messages of a session
func (r *conversationRepository) Trim(sessionID string, keep int) error {
	_, err := r.db.Exec(
		`DELETE FROM conversation_messages
		 WHERE session_id = ? AND seq NOT IN (
			SELECT seq FROM conversation_messages WHERE session_id = ? ORDER BY seq DESC LIMIT ?
		 )`, sessionID, sessionID, keep,
	)
	return err
}

func (r *conversationRepository) Clear(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM conversation_messages WHERE session_id = ?`, sessionID)
	return err
}
