package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermegouw/chatdesk/internal/db"
)

// ErrNotFound is returned when a message is not found.
var ErrNotFound = errors.New("message not found")

const selectColumns = `SELECT id, assistant_id, topic_id, role, content, model, provider, created_at FROM messages`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new SQLite-backed message store.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

// Create creates a new message.
func (s *SQLiteStore) Create(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, assistant_id, topic_id, role, content, model, provider, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.AssistantID, msg.TopicID, string(msg.Role), msg.Content,
		msg.Model, msg.Provider, msg.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}

	return nil
}

// Get retrieves a message by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Message, error) {
	msg, err := scanMessage(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting message: %w", err)
	}

	return msg, nil
}

// GetByTopic returns all messages for a topic.
func (s *SQLiteStore) GetByTopic(ctx context.Context, topicID string) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE topic_id = ? ORDER BY created_at, rowid`, topicID)
	if err != nil {
		return nil, fmt.Errorf("getting topic messages: %w", err)
	}

	return collect(rows)
}

// GetByTopicWithLimit returns the most recent messages for a topic.
func (s *SQLiteStore) GetByTopicWithLimit(ctx context.Context, topicID string, limit int) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, assistant_id, topic_id, role, content, model, provider, created_at FROM (
			SELECT *, rowid AS seq FROM messages
			WHERE topic_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		) ORDER BY created_at, seq`, topicID, limit)
	if err != nil {
		return nil, fmt.Errorf("getting topic messages with limit: %w", err)
	}

	return collect(rows)
}

// Count returns the number of messages in a topic.
func (s *SQLiteStore) Count(ctx context.Context, topicID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE topic_id = ?`, topicID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}

	return count, nil
}

// Delete removes a message by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	return nil
}

// DeleteByTopic removes all messages for a topic.
func (s *SQLiteStore) DeleteByTopic(ctx context.Context, topicID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE topic_id = ?`, topicID); err != nil {
		return fmt.Errorf("deleting topic messages: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*Message, error) {
	var (
		msg       Message
		role      string
		createdAt int64
	)
	err := row.Scan(&msg.ID, &msg.AssistantID, &msg.TopicID, &role, &msg.Content,
		&msg.Model, &msg.Provider, &createdAt)
	if err != nil {
		return nil, err
	}
	msg.Role = Role(role)
	msg.CreatedAt = time.UnixMilli(createdAt)

	return &msg, nil
}

func collect(rows *sql.Rows) ([]*Message, error) {
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}

	return msgs, nil
}
