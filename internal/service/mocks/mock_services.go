package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/model"
	"travelapi/internal/service"
	"travelapi/internal/storage"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) List(ctx context.Context, ownerID string) ([]model.Todo, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Todo), args.Error(1)
}

func (m *MockTodoService) Create(ctx context.Context, ownerID string, in service.CreateTodoInput) (*model.Todo, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Todo), args.Error(1)
}

func (m *MockTodoService) Update(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error) {
	args := m.Called(ctx, ownerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Todo), args.Error(1)
}

func (m *MockTodoService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, ownerID string, in service.UploadInput) (*model.StoredFile, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, ownerID string) ([]model.StoredFile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredFile), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockFileService) Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, filename)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Send(ctx context.Context, in service.SendInput) (*model.ChatMessage, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatService) Recent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) ForUser(ctx context.Context, userID string) (*model.Stats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}
