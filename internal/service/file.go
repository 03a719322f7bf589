package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelapi/internal/model"
	"travelapi/internal/repository"
	"travelapi/internal/storage"
)

// UploadsPath is the URL prefix stored binaries are served under.
const UploadsPath = "/uploads"

var allowedExtensions = map[string]struct{}{
	".jpeg": {}, ".jpg": {}, ".png": {}, ".gif": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".txt": {},
}

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

// UploadInput carries one multipart file part.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

// FileService stores user uploads and their metadata.
type FileService interface {
	Upload(ctx context.Context, ownerID string, in UploadInput) (*model.StoredFile, error)
	List(ctx context.Context, ownerID string) ([]model.StoredFile, error)
	// Delete removes the binary first and then the record.
	Delete(ctx context.Context, ownerID, id string) error
	// Open streams a stored binary by its stored filename.
	Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error)
}

type fileService struct {
	repo     repository.FileRepository
	store    storage.Storage
	maxBytes int64
	now      func() time.Time
}

func NewFileService(repo repository.FileRepository, store storage.Storage, maxBytes int64) FileService {
	return &fileService{repo: repo, store: store, maxBytes: maxBytes, now: time.Now}
}

// AllowedUpload checks the extension and the media type independently; both must be on the allow-list.
func AllowedUpload(originalName, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := allowedMimeTypes[strings.ToLower(mt)]
	return ok
}

func (s *fileService) Upload(ctx context.Context, ownerID string, in UploadInput) (*model.StoredFile, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if !AllowedUpload(in.OriginalName, in.ContentType) {
		return nil, ErrUnsupportedType
	}
	if in.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	now := s.now().UTC()
	ext := strings.ToLower(filepath.Ext(in.OriginalName))
	filename := fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString(), ext)
	mediaType, _, _ := mime.ParseMediaType(in.ContentType)

	// One byte past the limit is enough to tell an oversized body from a lying size header.
	info, err := s.store.Put(ctx, filename, io.LimitReader(in.Reader, s.maxBytes+1), storage.PutObjectOptions{
		Size:        -1,
		ContentType: mediaType,
		Metadata:    map[string]string{"original-name": in.OriginalName},
	})
	if err != nil {
		return nil, fmt.Errorf("store binary: %w", err)
	}
	if info.Size > s.maxBytes {
		_ = s.store.Delete(ctx, filename)
		return nil, ErrFileTooLarge
	}

	rec, err := s.repo.Create(ctx, &model.StoredFile{
		ID:           uuid.NewString(),
		UserID:       ownerID,
		Filename:     filename,
		OriginalName: in.OriginalName,
		MimeType:     mediaType,
		Size:         info.Size,
		Path:         UploadsPath + "/" + filename,
		UploadedAt:   now,
	})
	if err != nil {
		_ = s.store.Delete(ctx, filename)
		return nil, fmt.Errorf("create file record: %w", err)
	}
	return rec, nil
}

func (s *fileService) List(ctx context.Context, ownerID string) ([]model.StoredFile, error) {
	files, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []model.StoredFile{}
	}
	return files, nil
}

func (s *fileService) Delete(ctx context.Context, ownerID, id string) error {
	rec, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return translate(err)
	}
	if err := s.store.Delete(ctx, rec.Filename); err != nil {
		return fmt.Errorf("delete binary: %w", err)
	}
	return translate(s.repo.Delete(ctx, ownerID, id))
}

func (s *fileService) Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("open binary: %w", err)
	}
	return rc, info, nil
}
