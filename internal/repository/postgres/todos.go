package postgres

import (
	"context"
	"database/sql"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// TodoPostgres is a PostgreSQL implementation of repository.TodoRepository.
type TodoPostgres struct {
	db *sql.DB
}

func NewTodoPostgres(db *sql.DB) *TodoPostgres {
	return &TodoPostgres{db: db}
}

var _ repository.TodoRepository = (*TodoPostgres)(nil)

const todoColumns = `id, user_id, title, description, priority, due_date, completed, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*model.Todo, error) {
	var t model.Todo
	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Todo, error) {
	const q = `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TodoPostgres) Create(ctx context.Context, t *model.Todo) (*model.Todo, error) {
	const q = `
		INSERT INTO todos (id, user_id, title, description, priority, due_date, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRowContext(ctx, q,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.Priority,
		t.DueDate,
		t.Completed,
		t.CreatedAt,
	))
}

// Update applies patch in a single statement; NULL parameters keep the stored value.
func (r *TodoPostgres) Update(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	const q = `
		UPDATE todos SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			priority    = COALESCE($5, priority),
			due_date    = COALESCE($6, due_date),
			completed   = COALESCE($7, completed)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	t, err := scanTodo(r.db.QueryRowContext(ctx, q,
		id,
		ownerID,
		patch.Title,
		patch.Description,
		patch.Priority,
		patch.DueDate,
		patch.Completed,
	))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TodoPostgres) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	const q = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return notFound(err)
	}
	return deleted(res)
}
