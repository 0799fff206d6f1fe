// Package storage persists uploaded report images. Backends are tried in
// order and the first one that accepts the file wins.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"disasterconnect-http-service/internal/infrastructure/config"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"
)

// Backend names persisted with a report image
const (
	BackendCloudinary = "cloudinary"
	BackendS3         = "s3"
	BackendLocal      = "local"
)

// ErrNoBackend is returned when every backend refused the file
var ErrNoBackend = errors.New("no storage backend accepted the image")

// File is an uploaded file that can be read more than once
type File struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader wraps a multipart upload
func FromFileHeader(fh *multipart.FileHeader) *File {
	return &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromBytes wraps an in-memory file
func FromBytes(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// StoredImage describes where an image ended up
type StoredImage struct {
	URL     string
	Key     string
	Backend string
}

// Backend stores and removes images
type Backend interface {
	Name() string
	Save(ctx context.Context, file *File, baseURL string) (*StoredImage, error)
	Delete(ctx context.Context, key string) error
}

// ImageStore is what the report handlers depend on
type ImageStore interface {
	Store(ctx context.Context, file *File, baseURL string) (*StoredImage, error)
	Delete(ctx context.Context, backend, key string) error
}

// FallbackStore tries each backend in order
type FallbackStore struct {
	backends []Backend
	timeout  time.Duration
}

// NewFallbackStore returns a store over backends. A zero timeout disables the
// per-backend deadline.
func NewFallbackStore(timeout time.Duration, backends ...Backend) *FallbackStore {
	return &FallbackStore{backends: backends, timeout: timeout}
}

// NewFromConfig builds the chain Cloudinary, S3, local disk from whatever is
// configured. Local disk is always last.
func NewFromConfig(cfg *config.Config) *FallbackStore {
	var backends []Backend

	if cfg.CloudinaryConfigured() {
		if cld, err := NewCloudinaryBackend(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err != nil {
			Logger.Error("cloudinary disabled: %v", err)
		} else {
			backends = append(backends, cld)
		}
	}

	if cfg.S3Configured() {
		s3b, err := NewS3Backend(S3Configuration{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			AccessKeyID:   cfg.S3AccessKeyID,
			SecretKey:     cfg.S3SecretAccessKey,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			Logger.Error("s3 disabled: %v", err)
		} else {
			backends = append(backends, s3b)
		}
	}

	backends = append(backends, NewLocalBackend(cfg.UploadFolder))
	return NewFallbackStore(cfg.UploadTimeout, backends...)
}

// Backends returns the names of the configured backends in order
func (s *FallbackStore) Backends() []string {
	names := make([]string, 0, len(s.backends))
	for _, b := range s.backends {
		names = append(names, b.Name())
	}
	return names
}

// Store saves file with the first backend that succeeds
func (s *FallbackStore) Store(ctx context.Context, file *File, baseURL string) (*StoredImage, error) {
	rlog := Logger.FromContext(ctx)
	for _, b := range s.backends {
		stored, err := s.save(ctx, b, file, baseURL)
		if err == nil {
			rlog.Infof("image %q stored with %s", file.Name, b.Name())
			return stored, nil
		}
		rlog.WithError(err).Warnf("image upload to %s failed", b.Name())
	}
	return nil, ErrNoBackend
}

func (s *FallbackStore) save(ctx context.Context, b Backend, file *File, baseURL string) (*StoredImage, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return b.Save(ctx, file, baseURL)
}

// Delete removes an image from the backend that stored it. Unknown backends are ignored.
func (s *FallbackStore) Delete(ctx context.Context, backend, key string) error {
	if key == "" {
		return nil
	}
	for _, b := range s.backends {
		if b.Name() == backend {
			if err := b.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete %s from %s: %w", key, backend, err)
			}
			return nil
		}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename strips directories and every character outside [A-Za-z0-9._-]
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}
