package postgres

import (
	"context"
	"database/sql"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// MessagePostgres is a PostgreSQL implementation of repository.MessageRepository.
type MessagePostgres struct {
	db *sql.DB
}

func NewMessagePostgres(db *sql.DB) *MessagePostgres {
	return &MessagePostgres{db: db}
}

var _ repository.MessageRepository = (*MessagePostgres)(nil)

func (r *MessagePostgres) Append(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	const q = `
		INSERT INTO messages (id, user_id, username, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, username, message, created_at
	`
	var out model.ChatMessage
	if err := r.db.QueryRowContext(ctx, q, m.ID, m.UserID, m.Username, m.Message, m.Timestamp).
		Scan(&out.ID, &out.UserID, &out.Username, &out.Message, &out.Timestamp); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recent takes the newest rows by insertion sequence and flips them back to chronological order.
func (r *MessagePostgres) Recent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	const q = `
		SELECT id, user_id, username, message, created_at FROM (
			SELECT seq, id, user_id, username, message, created_at
			FROM messages
			ORDER BY seq DESC
			LIMIT $1
		) newest
		ORDER BY seq ASC
	`
	if limit <= 0 {
		return []model.ChatMessage{}, nil
	}
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ChatMessage, 0, limit)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Message, &m.Timestamp); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MessagePostgres) CountBySender(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM messages WHERE user_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
