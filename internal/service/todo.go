package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// CreateTodoInput carries a new todo. Priority defaults to medium.
type CreateTodoInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// TodoService manages a user's todos. Every operation is scoped to ownerID.
type TodoService interface {
	List(ctx context.Context, ownerID string) ([]model.Todo, error)
	Create(ctx context.Context, ownerID string, in CreateTodoInput) (*model.Todo, error)
	Update(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type todoService struct {
	repo repository.TodoRepository
	now  func() time.Time
}

func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo, now: time.Now}
}

func (s *todoService) List(ctx context.Context, ownerID string) ([]model.Todo, error) {
	todos, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (s *todoService) Create(ctx context.Context, ownerID string, in CreateTodoInput) (*model.Todo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be low, medium or high", ErrValidation)
	}

	due, err := normalizeDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.Create(ctx, &model.Todo{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		patch.Title = &title
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return nil, fmt.Errorf("%w: priority must be low, medium or high", ErrValidation)
	}
	if patch.DueDate != nil {
		due, err := normalizeDueDate(patch.DueDate)
		if err != nil {
			return nil, err
		}
		patch.DueDate = due
	}

	todo, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		return nil, translate(err)
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, ownerID, id string) error {
	return translate(s.repo.Delete(ctx, ownerID, id))
}

// normalizeDueDate accepts a calendar date or an RFC 3339 timestamp and returns the calendar date.
func normalizeDueDate(v *string) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*v)
	if d, err := time.Parse(model.DueDateLayout, raw); err == nil {
		out := d.Format(model.DueDateLayout)
		return &out, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		out := ts.Format(model.DueDateLayout)
		return &out, nil
	}
	return nil, fmt.Errorf("%w: dueDate must be YYYY-MM-DD", ErrValidation)
}
