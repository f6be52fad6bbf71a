// Package storage keeps uploaded media files on local disk or in MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"yatube/internal/config"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a media object does not exist.
	ErrNotFound = errors.New("media object not found")
	// ErrInvalidName is returned for object names that escape the media root.
	ErrInvalidName = errors.New("invalid media object name")
)

// PostImagePrefix is the directory post images are uploaded to.
const PostImagePrefix = "posts/"

// ObjectInfo describes a stored media object.
type ObjectInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// MediaStore stores media objects under slash-separated names relative to the media root.
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error)
	Delete(ctx context.Context, name string) error
}

// NewPostImageName returns a fresh object name for an uploaded post image.
func NewPostImageName(ext string) string {
	return PostImagePrefix + uuid.NewString() + strings.ToLower(ext)
}

// CleanName validates and normalizes an object name.
func CleanName(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.Contains(name, "\\") {
		return "", ErrInvalidName
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidName
	}
	return cleaned, nil
}

// New builds the MediaStore selected by MEDIA_BACKEND.
func New(ctx context.Context, cfg *config.Config) (MediaStore, error) {
	switch cfg.MediaBackend {
	case "", "local":
		return NewLocalStore(cfg.MediaRoot)
	case "minio":
		store, err := NewMinIOStore(MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}
}
