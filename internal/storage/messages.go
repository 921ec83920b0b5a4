package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Message type tags. Classification happens at intake by the '/' prefix.
const (
	MessageTypeCommand = "command"
	MessageTypeText    = "text"
)

// Message is one row of the append-only message log.
type Message struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	ChatID      int64     `db:"chat_id"`
	MessageText string    `db:"message_text"`
	MessageType string    `db:"message_type"`
	CreatedAt   time.Time `db:"created_at"`
}

// MessageStore persists the message log.
type MessageStore struct {
	db *sqlx.DB
}

func NewMessageStore(db *sqlx.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append records one inbound message.
func (s *MessageStore) Append(ctx context.Context, userID, chatID int64, text, msgType string) error {
	const q = `
		INSERT INTO messages (user_id, chat_id, message_text, message_type, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	if _, err := s.db.ExecContext(ctx, q, userID, chatID, text, msgType); err != nil {
		return fmt.Errorf("messages append: %w", err)
	}
	return nil
}

// Count returns the user's total message count.
func (s *MessageStore) Count(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM messages WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("messages count: %w", err)
	}
	return n, nil
}

// RecentCommands returns the user's newest command messages, newest first.
func (s *MessageStore) RecentCommands(ctx context.Context, userID int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []Message
	const q = `
		SELECT * FROM messages
		WHERE user_id = $1 AND message_type = $2
		ORDER BY created_at DESC
		LIMIT $3`
	if err := s.db.SelectContext(ctx, &out, q, userID, MessageTypeCommand, limit); err != nil {
		return nil, fmt.Errorf("messages recent commands: %w", err)
	}
	return out, nil
}

// All returns the user's full message history, oldest first.
func (s *MessageStore) All(ctx context.Context, userID int64) ([]Message, error) {
	var out []Message
	const q = `SELECT * FROM messages WHERE user_id = $1 ORDER BY created_at ASC`
	if err := s.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, fmt.Errorf("messages all: %w", err)
	}
	return out, nil
}

// DeleteAll removes the user's entire message history.
func (s *MessageStore) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("messages delete all: %w", err)
	}
	return nil
}
