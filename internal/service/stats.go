package service

import (
	"context"
	"fmt"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// StatsService summarises one user's data.
type StatsService interface {
	ForUser(ctx context.Context, userID string) (*model.Stats, error)
}

type statsService struct {
	todos    repository.TodoRepository
	files    repository.FileRepository
	messages repository.MessageRepository
}

func NewStatsService(todos repository.TodoRepository, files repository.FileRepository, messages repository.MessageRepository) StatsService {
	return &statsService{todos: todos, files: files, messages: messages}
}

func (s *statsService) ForUser(ctx context.Context, userID string) (*model.Stats, error) {
	todos, err := s.todos.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	files, err := s.files.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	sent, err := s.messages.CountBySender(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	st := &model.Stats{
		TotalTodos:    len(todos),
		TotalFiles:    len(files),
		TotalMessages: sent,
	}
	for _, t := range todos {
		if t.Completed {
			st.CompletedTodos++
		}
		switch t.Priority {
		case model.PriorityHigh:
			st.TodosByPriority.High++
		case model.PriorityMedium:
			st.TodosByPriority.Medium++
		case model.PriorityLow:
			st.TodosByPriority.Low++
		}
	}
	st.PendingTodos = st.TotalTodos - st.CompletedTodos
	for _, f := range files {
		st.TotalFilesSize += f.Size
	}
	return st, nil
}
