package memory

import (
	"context"
	"sync"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// Messages is an in-memory repository.MessageRepository.
type Messages struct {
	mu    sync.RWMutex
	items []model.ChatMessage
}

var _ repository.MessageRepository = (*Messages)(nil)

func NewMessages() *Messages {
	return &Messages{}
}

func (r *Messages) Append(_ context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *m)
	out := *m
	return &out, nil
}

func (r *Messages) Recent(_ context.Context, limit int) ([]model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if limit >= 0 && len(r.items) > limit {
		start = len(r.items) - limit
	}
	out := make([]model.ChatMessage, len(r.items)-start)
	copy(out, r.items[start:])
	return out, nil
}

func (r *Messages) CountBySender(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.items {
		if m.UserID == userID {
			n++
		}
	}
	return n, nil
}
