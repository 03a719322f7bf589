package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelapi/internal/model"
	"travelapi/internal/repository"
	"travelapi/internal/repository/memory"
	repoMocks "travelapi/internal/repository/mocks"
	"travelapi/internal/storage"
	storeMocks "travelapi/internal/storage/mocks"
)

var storedNamePattern = regexp.MustCompile(`^\d+-[0-9a-f-]{36}\.png$`)

// drain consumes the reader the way a real backend would and reports the byte count.
func drain(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
	n, _ := io.Copy(io.Discard, r)
	return storage.ObjectInfo{Key: key, Size: n, ContentType: opt.ContentType}
}

func TestAllowedUpload(t *testing.T) {
	tests := []struct {
		name, ct string
		want     bool
	}{
		{"photo.PNG", "image/png", true},
		{"notes.txt", "text/plain; charset=utf-8", true},
		{"cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"scan.pdf", "application/pdf", true},
		{"setup.exe", "application/octet-stream", false},
		{"fake.png", "application/x-msdownload", false},
		{"script.sh", "text/plain", false},
		{"noext", "image/png", false},
		{"photo.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedUpload(tt.name, tt.ct))
		})
	}
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()
	const max = 1 << 20

	tests := []struct {
		name       string
		in         func() UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			in: func() UploadInput {
				return UploadInput{OriginalName: "Photo.PNG", ContentType: "image/png", Size: 5, Reader: strings.NewReader("hello")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) {
				mStore.On("Put", ctx, mock.MatchedBy(storedNamePattern.MatchString), mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.ContentType == "image/png" && o.Metadata["original-name"] == "Photo.PNG"
				})).Return(drain, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(f *model.StoredFile) bool {
					return f.UserID == "u1" && f.Size == 5 && f.Path == "/uploads/"+f.Filename && f.OriginalName == "Photo.PNG"
				})).Return(&model.StoredFile{ID: "f1"}, nil)
			},
		},
		{
			name:    "nil reader",
			in:      func() UploadInput { return UploadInput{OriginalName: "a.png", ContentType: "image/png"} },
			wantErr: ErrReaderNil,
		},
		{
			name: "unsupported type",
			in: func() UploadInput {
				return UploadInput{OriginalName: "setup.exe", ContentType: "application/octet-stream", Size: 3, Reader: strings.NewReader("MZ!")}
			},
			wantErr: ErrUnsupportedType,
		},
		{
			name: "declared size over the limit",
			in: func() UploadInput {
				return UploadInput{OriginalName: "big.png", ContentType: "image/png", Size: 15 << 20, Reader: strings.NewReader("x")}
			},
			wantErr: ErrFileTooLarge,
		},
		{
			name: "body over the limit despite small declared size",
			in: func() UploadInput {
				return UploadInput{OriginalName: "big.png", ContentType: "image/png", Size: 1, Reader: bytes.NewReader(make([]byte, max+10))}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(drain, nil)
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
			},
			wantErr: ErrFileTooLarge,
		},
		{
			name: "storage error",
			in: func() UploadInput {
				return UploadInput{OriginalName: "a.png", ContentType: "image/png", Size: 1, Reader: strings.NewReader("x")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("disk full"))
			},
			wantErrMsg: "store binary: disk full",
		},
		{
			name: "repository error rolls back the binary",
			in: func() UploadInput {
				return UploadInput{OriginalName: "a.png", ContentType: "image/png", Size: 1, Reader: strings.NewReader("x")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) {
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(drain, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(storedNamePattern.MatchString)).Return(nil)
			},
			wantErrMsg: "create file record: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockFileRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mRepo)
			}
			svc := NewFileService(mRepo, mStore, max)

			rec, err := svc.Upload(ctx, "u1", tt.in())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, rec)
			default:
				require.NoError(t, err)
				assert.Equal(t, "f1", rec.ID)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestFileService_UploadListDelete(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := NewFileService(memory.NewFiles(), store, 10<<20)

	payload := bytes.Repeat([]byte{0x89}, 1<<20)
	rec, err := svc.Upload(ctx, "alice", UploadInput{OriginalName: "kyoto.png", ContentType: "image/png", Size: int64(len(payload)), Reader: bytes.NewReader(payload)})
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), rec.Size)
	assert.Equal(t, "image/png", rec.MimeType)

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	others, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, others)

	rc, info, err := svc.Open(ctx, rec.Filename)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), info.Size)

	assert.ErrorIs(t, svc.Delete(ctx, "bob", rec.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "alice", rec.ID))

	_, _, err = svc.Open(ctx, rec.Filename)
	assert.ErrorIs(t, err, ErrNotFound)
	list, err = svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileService_Open_RejectsTraversal(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := NewFileService(memory.NewFiles(), store, 10)

	_, _, err = svc.Open(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileService_Delete_StorageFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockFileRepository)
	svc := NewFileService(mRepo, mStore, 10)

	mRepo.On("FindByID", ctx, "u1", "f1").Return(&model.StoredFile{ID: "f1", Filename: "1-x.png"}, nil)
	mStore.On("Delete", ctx, "1-x.png").Return(errors.New("io"))

	err := svc.Delete(ctx, "u1", "f1")
	assert.EqualError(t, err, "delete binary: io")
	mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)

	mRepo.On("FindByID", ctx, "u1", "missing").Return(nil, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u1", "missing"), ErrNotFound)
}
