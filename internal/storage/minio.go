package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"yatube/internal/middleware"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds connection settings for an S3-compatible bucket.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore keeps media objects in a MinIO bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (m *MinIOStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "minio upload failed",
			slog.String("object_name", name),
			slog.String("bucket", m.bucket),
			slog.String("error", err.Error()),
		)
		return err
	}
	middleware.Logger.InfoContext(ctx, "minio upload succeeded",
		slog.String("object_name", name),
		slog.Int64("size", size),
		slog.String("content_type", contentType),
	)
	return nil
}

func (m *MinIOStore) Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, translateMinIOError(err)
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, nil, translateMinIOError(err)
	}
	return obj, &ObjectInfo{
		Size:        st.Size,
		ContentType: st.ContentType,
		ModTime:     st.LastModified,
	}, nil
}

func (m *MinIOStore) Delete(ctx context.Context, name string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

func translateMinIOError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrNotFound
	}
	return err
}
