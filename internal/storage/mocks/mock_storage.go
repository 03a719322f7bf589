package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"travelapi/internal/storage"
)

var _ storage.Storage = (*MockStorage)(nil)

// MockStorage is a testify mock of storage.Storage.
// Put accepts either an ObjectInfo or a func computing one from the call arguments.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	switch v := args.Get(0).(type) {
	case func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo:
		return v(ctx, key, r, opt), args.Error(1)
	case storage.ObjectInfo:
		return v, args.Error(1)
	}
	return storage.ObjectInfo{}, args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	info, _ := args.Get(1).(storage.ObjectInfo)
	return rc, info, args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
