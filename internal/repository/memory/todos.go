package memory

import (
	"context"
	"sync"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// Todos is an in-memory repository.TodoRepository.
type Todos struct {
	mu    sync.RWMutex
	items []model.Todo
}

var _ repository.TodoRepository = (*Todos)(nil)

func NewTodos() *Todos {
	return &Todos{}
}

func (r *Todos) ListByOwner(_ context.Context, ownerID string) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Todo, 0)
	for _, t := range r.items {
		if t.UserID == ownerID {
			out = append(out, cloneTodo(t))
		}
	}
	return out, nil
}

func (r *Todos) Create(_ context.Context, t *model.Todo) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, cloneTodo(*t))
	out := cloneTodo(*t)
	return &out, nil
}

func (r *Todos) Update(_ context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	r.items[i].Apply(patch)
	out := cloneTodo(r.items[i])
	return &out, nil
}

func (r *Todos) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *Todos) indexOf(ownerID, id string) int {
	for i, t := range r.items {
		if t.ID == id && t.UserID == ownerID {
			return i
		}
	}
	return -1
}

func cloneTodo(t model.Todo) model.Todo {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
