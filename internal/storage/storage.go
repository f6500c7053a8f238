// Package storage keeps uploaded resume files. Files go to an S3-compatible
// bucket when one is configured; otherwise the caller keeps them inline in
// Postgres.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an object key does not exist.
var ErrNotFound = errors.New("object not found")

// ResumeStore stores resume files under generated keys.
type ResumeStore interface {
	// PutResume stores data and returns its key. An empty key means the store
	// does not hold files and the caller must keep the bytes itself.
	PutResume(ctx context.Context, filename, contentType string, data []byte) (string, error)
	GetResume(ctx context.Context, key string) ([]byte, error)
	DeleteResume(ctx context.Context, key string) error
}

// ResumeKey builds the object key for a new upload: resumes/<uuid>/original<ext>.
func ResumeKey(id uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("resumes/%s/original%s", id, ext)
}

// Inline is the ResumeStore used without object storage.
type Inline struct{}

func (Inline) PutResume(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

func (Inline) GetResume(context.Context, string) ([]byte, error) {
	return nil, ErrNotFound
}

func (Inline) DeleteResume(context.Context, string) error {
	return nil
}
