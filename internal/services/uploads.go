package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize bounds a single uploaded file.
const MaxUploadSize = 10 << 20

// Object key prefixes per upload kind.
const (
	ResumeFiles   = "resumes"
	CompanyLogos  = "company_logos"
	ProfileImages = "profile_images"
)

// FileStore is the subset of object storage the services write to.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Upload is a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores request files under random keys.
type Uploader struct {
	files  FileStore
	logger *slog.Logger
}

// NewUploader returns an Uploader. A nil FileStore disables uploads.
func NewUploader(files FileStore, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{files: files, logger: logger}
}

// Save writes the upload under prefix and returns its object key.
func (u *Uploader) Save(ctx context.Context, field, prefix string, upload *Upload) (string, error) {
	if u == nil || u.files == nil {
		return "", ErrUploadsDisabled
	}
	if upload.Size > MaxUploadSize {
		return "", invalid(field, fmt.Sprintf("File exceeds the %d MiB limit.", MaxUploadSize>>20))
	}
	if upload.Size == 0 {
		return "", invalid(field, "The submitted file is empty.")
	}

	key := prefix + "/" + uuid.NewString() + strings.ToLower(path.Ext(upload.Filename))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := u.files.Put(ctx, key, upload.Body, upload.Size, contentType); err != nil {
		return "", fmt.Errorf("store %s: %w", prefix, err)
	}
	return key, nil
}

// Remove deletes a previously stored key. Failures are logged only.
func (u *Uploader) Remove(ctx context.Context, key string) {
	if u == nil || u.files == nil || key == "" {
		return
	}
	if err := u.files.Delete(ctx, key); err != nil {
		u.logger.Warn("remove replaced upload", "key", key, "error", err)
	}
}
