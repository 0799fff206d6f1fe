package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileNotFound is returned for uploads that do not exist on disk
var ErrFileNotFound = errors.New("file not found")

// LocalBackend writes images below a directory served at /uploads
type LocalBackend struct {
	dir string
}

// NewLocalBackend returns a backend rooted at dir
func NewLocalBackend(dir string) *LocalBackend {
	if dir == "" {
		dir = "uploads"
	}
	return &LocalBackend{dir: dir}
}

// Name implements Backend
func (l *LocalBackend) Name() string { return BackendLocal }

// Dir returns the upload directory
func (l *LocalBackend) Dir() string { return l.dir }

// Save writes the file as <uuid>_<sanitized name>
func (l *LocalBackend) Save(ctx context.Context, file *File, baseURL string) (*StoredImage, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, err
	}

	name := uuid.NewString() + "_" + SanitizeFilename(file.Name)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}

	return &StoredImage{
		URL:     strings.TrimSuffix(baseURL, "/") + "/uploads/" + name,
		Key:     name,
		Backend: BackendLocal,
	}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (l *LocalBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.dir, SanitizeFilename(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path resolves an upload name to a file on disk
func (l *LocalBackend) Path(name string) (string, error) {
	path := filepath.Join(l.dir, SanitizeFilename(name))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrFileNotFound
	}
	return path, nil
}
