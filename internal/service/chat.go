package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

const (
	// HistoryLimit is how many messages a fresh chat session receives.
	HistoryLimit = 50
	// MaxMessageLength caps a chat message in runes.
	MaxMessageLength = 2000
)

// SendInput is a chat message before it is stamped.
type SendInput struct {
	UserID   string
	Username string
	Message  string
}

// ChatService keeps the shared chat history.
type ChatService interface {
	// Send stamps the message with an id and a timestamp and appends it.
	Send(ctx context.Context, in SendInput) (*model.ChatMessage, error)
	// Recent returns at most limit newest messages, oldest first. A limit outside 1..HistoryLimit means HistoryLimit.
	Recent(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

type chatService struct {
	repo repository.MessageRepository
	now  func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewChatService(repo repository.MessageRepository) ChatService {
	return &chatService{repo: repo, now: time.Now}
}

func (s *chatService) Send(ctx context.Context, in SendInput) (*model.ChatMessage, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, MaxMessageLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Timestamps never go backwards in append order, even if the wall clock does.
	ts := s.now().UTC()
	if ts.Before(s.last) {
		ts = s.last
	}

	msg, err := s.repo.Append(ctx, &model.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Username:  in.Username,
		Message:   text,
		Timestamp: ts,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	s.last = ts
	return msg, nil
}

func (s *chatService) Recent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	msgs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}
