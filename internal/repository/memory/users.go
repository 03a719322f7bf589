package memory

import (
	"context"
	"sync"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.RWMutex
	items []model.User
}

var _ repository.UserRepository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{}
}

// Create checks uniqueness and inserts under one lock so concurrent sign-ups cannot both win.
func (r *Users) Create(_ context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	for _, existing := range r.items {
		if existing.Username == u.Username {
			return nil, repository.ErrDuplicateUsername
		}
	}

	r.items = append(r.items, *u)
	out := *u
	return &out, nil
}

func (r *Users) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *Users) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r *Users) find(match func(model.User) bool) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}
