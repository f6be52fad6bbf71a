package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
)

// LocalStore keeps media files in a directory on disk.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed and returns a store writing below it.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("media root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(name string) (string, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Save writes r to a temporary file and renames it into place.
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	dst, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	src, err := s.path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}

	return f, &ObjectInfo{
		Size:        st.Size(),
		ContentType: mime.TypeByExtension(path.Ext(name)),
		ModTime:     st.ModTime(),
	}, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	dst, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
