package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud-video/pkg/logger"

	"github.com/google/uuid"
)

const (
	// StaticPrefix is the URL path under which the local upload directory
	// is served.
	StaticPrefix = "/static/"

	chunkSize = 1 << 20
)

type LocalStorage struct {
	dir string
	log *logger.Logger
}

func NewLocalStorage(dir string, log *logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, log: log.With("storage", "local")}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Put(ctx context.Context, ownerID uint, filename, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", writeError(err)
	}

	name := fmt.Sprintf("%d_%s_%s", ownerID, uuid.NewString(), SafeFilename(filename))
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", writeError(err)
	}

	// Hide ReadFrom/WriteTo so the copy always goes through the bounded buffer.
	_, copyErr := io.CopyBuffer(struct{ io.Writer }{f}, struct{ io.Reader }{r}, make([]byte, chunkSize))
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dst)
		if copyErr != nil {
			return "", writeError(copyErr)
		}
		return "", writeError(closeErr)
	}

	return StaticPrefix + name, nil
}

func (s *LocalStorage) Delete(_ context.Context, locator string) {
	name, ok := s.nameFromLocator(locator)
	if !ok {
		if locator != "" {
			s.log.Warn("Ignoring delete of unrecognised locator %q", locator)
		}
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		s.log.Warn("Failed to delete %s: %v", name, err)
	}
}

func (s *LocalStorage) nameFromLocator(locator string) (string, bool) {
	if !strings.HasPrefix(locator, StaticPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(locator, StaticPrefix)
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}
