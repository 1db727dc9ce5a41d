package topic

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guilhermegouw/chatdesk/internal/db"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new SQLite-backed topic store.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

// ListAssistants returns all assistants ordered by creation time.
func (s *SQLiteStore) ListAssistants(ctx context.Context) ([]*Assistant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, prompt FROM assistants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing assistants: %w", err)
	}
	defer rows.Close()

	var assistants []*Assistant
	for rows.Next() {
		a := &Assistant{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Prompt); err != nil {
			return nil, fmt.Errorf("scanning assistant: %w", err)
		}
		assistants = append(assistants, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing assistants: %w", err)
	}

	for _, a := range assistants {
		if a.Topics, err = s.listTopics(ctx, a.ID); err != nil {
			return nil, err
		}
	}

	return assistants, nil
}

// SaveAssistant upserts the assistant and its topics in one transaction.
// Topics no longer present in a.Topics are deleted along with their messages.
func (s *SQLiteStore) SaveAssistant(ctx context.Context, a *Assistant) error {
	now := time.Now().UnixMilli()

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assistants (id, name, prompt, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				prompt = excluded.prompt,
				updated_at = excluded.updated_at`,
			a.ID, a.Name, a.Prompt, now, now)
		if err != nil {
			return fmt.Errorf("saving assistant: %w", err)
		}

		keep := make(map[string]struct{}, len(a.Topics))
		for i, t := range a.Topics {
			keep[t.ID] = struct{}{}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO topics (id, assistant_id, name, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					position = excluded.position,
					updated_at = excluded.updated_at`,
				t.ID, a.ID, t.Name, i, t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())
			if err != nil {
				return fmt.Errorf("saving topic %s: %w", t.ID, err)
			}
		}

		stale, err := staleTopicIDs(ctx, tx, a.ID, keep)
		if err != nil {
			return err
		}
		for _, id := range stale {
			if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id); err != nil {
				return fmt.Errorf("deleting topic %s: %w", id, err)
			}
		}

		return nil
	})
}

func (s *SQLiteStore) listTopics(ctx context.Context, assistantID string) ([]*Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, assistant_id, name, created_at, updated_at
		FROM topics WHERE assistant_id = ? ORDER BY position`, assistantID)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []*Topic
	for rows.Next() {
		var (
			t                    Topic
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&t.ID, &t.AssistantID, &t.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		t.CreatedAt = time.UnixMilli(createdAt)
		t.UpdatedAt = time.UnixMilli(updatedAt)
		topics = append(topics, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	return topics, nil
}

func staleTopicIDs(ctx context.Context, tx *sql.Tx, assistantID string, keep map[string]struct{}) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM topics WHERE assistant_id = ?`, assistantID)
	if err != nil {
		return nil, fmt.Errorf("listing stored topics: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning topic id: %w", err)
		}
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale, rows.Err()
}
