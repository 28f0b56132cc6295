// Package storage stores uploaded video bytes either on the local
// filesystem or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"cloud-video/pkg/config"
	"cloud-video/pkg/logger"
)

// ErrWrite is returned when bytes could not be persisted.
var ErrWrite = errors.New("storage write failed")

type Storage interface {
	// Put streams r under a fresh key derived from ownerID and filename and
	// returns a locator for the stored object.
	Put(ctx context.Context, ownerID uint, filename, contentType string, r io.Reader) (string, error)
	// Delete removes the object behind locator. Failures are logged, never
	// returned; unknown or malformed locators are ignored.
	Delete(ctx context.Context, locator string)
}

var (
	_ Storage = (*LocalStorage)(nil)
	_ Storage = (*S3Storage)(nil)
)

// New picks the S3 backend when a storage connection string is configured
// and the local filesystem otherwise.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (Storage, error) {
	if cfg.UsesCloudStorage() {
		opts, err := ParseConnectionString(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		log.Info("Using S3 storage, bucket %s", cfg.StorageContainer)
		return NewS3Storage(ctx, opts, cfg.StorageContainer, log)
	}
	log.Info("Using local storage in %s", cfg.LocalUploadDir)
	return NewLocalStorage(cfg.LocalUploadDir, log)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFilename reduces a client supplied filename to its base name made of
// [A-Za-z0-9._-] only.
func SafeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		return "upload"
	}
	const maxLen = 128
	if len(name) > maxLen {
		name = name[len(name)-maxLen:]
	}
	return name
}

func writeError(err error) error {
	return fmt.Errorf("%w: %v", ErrWrite, err)
}
