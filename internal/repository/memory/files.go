package memory

import (
	"context"
	"sync"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// Files is an in-memory repository.FileRepository.
type Files struct {
	mu    sync.RWMutex
	items []model.StoredFile
}

var _ repository.FileRepository = (*Files)(nil)

func NewFiles() *Files {
	return &Files{}
}

func (r *Files) ListByOwner(_ context.Context, ownerID string) ([]model.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.StoredFile, 0)
	for _, f := range r.items {
		if f.UserID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *Files) Create(_ context.Context, f *model.StoredFile) (*model.StoredFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *f)
	out := *f
	return &out, nil
}

func (r *Files) FindByID(_ context.Context, ownerID, id string) (*model.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(ownerID, id); i >= 0 {
		out := r.items[i]
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *Files) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *Files) indexOf(ownerID, id string) int {
	for i, f := range r.items {
		if f.ID == id && f.UserID == ownerID {
			return i
		}
	}
	return -1
}
