package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/logger"
	"flightdocs/internal/port"
)

// UploadStore keeps uploads on local disk under a uuid-prefixed name.
type UploadStore struct {
	dir      string
	maxBytes int64
	log      logger.Logger
}

// NewUploadStore creates a store rooted at cfg.Dir. The directory is created on first save.
func NewUploadStore(cfg *config.UploadConfig, log logger.Logger) *UploadStore {
	return &UploadStore{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxFileSizeMB * 1024 * 1024,
		log:      log,
	}
}

// Save copies body to a new file. Bodies larger than the configured limit are rejected
// with domain.ErrFileTooLarge and nothing is left behind.
func (s *UploadStore) Save(ctx context.Context, originalName string, body io.Reader) (*port.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating upload dir: %v", domain.ErrUploadFailed, err)
	}

	name := uuid.New().String() + "-" + sanitize(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	src := body
	if s.maxBytes > 0 {
		src = io.LimitReader(body, s.maxBytes+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("%w: %v", domain.ErrUploadFailed, copyErr)
	case closeErr != nil:
		err = fmt.Errorf("%w: %v", domain.ErrUploadFailed, closeErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		err = domain.ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &port.StoredFile{Path: path, OriginalName: originalName, Size: n}, nil
}

// Release removes the file. A file that is already gone is not an error.
func (s *UploadStore) Release(file *port.StoredFile) {
	if file == nil {
		return
	}
	if err := os.Remove(file.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("storage.release.failed", "path", file.Path, "error", err)
	}
}

// sanitize keeps only the base name, without separators.
func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return base
}
