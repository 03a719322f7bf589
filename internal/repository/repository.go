// Package repository contains data access layer abstractions.
// Implementations live in subpackages: memory (default) and postgres.
package repository

import (
	"context"
	"errors"

	"travelapi/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository stores accounts. Email and username are unique.
type UserRepository interface {
	// Create inserts u. It returns ErrDuplicateEmail or ErrDuplicateUsername when either is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// TodoRepository stores owner-scoped todos. A record that exists but belongs to
// another owner is reported as ErrNotFound.
type TodoRepository interface {
	// ListByOwner returns the owner's todos in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Todo, error)
	Create(ctx context.Context, t *model.Todo) (*model.Todo, error)
	// Update merges patch into the record atomically and returns the result.
	Update(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// FileRepository stores owner-scoped upload metadata.
type FileRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.StoredFile, error)
	Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.StoredFile, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// MessageRepository is the append-only chat history.
type MessageRepository interface {
	Append(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error)
	// Recent returns at most limit newest messages, oldest first.
	Recent(ctx context.Context, limit int) ([]model.ChatMessage, error)
	CountBySender(ctx context.Context, userID string) (int, error)
}

// Store groups the repositories of one backend.
type Store interface {
	Users() UserRepository
	Todos() TodoRepository
	Files() FileRepository
	Messages() MessageRepository
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
