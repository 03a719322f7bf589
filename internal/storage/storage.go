// Package storage holds the binaries behind uploaded files.
// The local backend writes into the upload directory; the MinIO backend targets any S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrObjectNotFound is returned by Get when no object exists under the key.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey rejects keys that could escape the storage root.
	ErrInvalidKey = errors.New("invalid object key")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage is a flat key/value blob store. Keys are single path segments.
type Storage interface {
	// Put writes the reader's content under key. It fails if the key already exists on backends that can tell.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams the object; the caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey accepts only plain file names: no separators, no dot segments.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) ||
		strings.Contains(key, "..") ||
		filepath.Base(key) != key {
		return ErrInvalidKey
	}
	return nil
}
