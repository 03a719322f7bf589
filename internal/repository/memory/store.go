// Package memory implements the repositories on process memory.
// Every repository guards its collection with its own lock; nothing survives a restart.
package memory

import (
	"context"

	"travelapi/internal/repository"
)

// Store is an in-memory repository.Store.
type Store struct {
	users    *Users
	todos    *Todos
	files    *Files
	messages *Messages
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    NewUsers(),
		todos:    NewTodos(),
		files:    NewFiles(),
		messages: NewMessages(),
	}
}

func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Todos() repository.TodoRepository       { return s.todos }
func (s *Store) Files() repository.FileRepository       { return s.files }
func (s *Store) Messages() repository.MessageRepository { return s.messages }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }
