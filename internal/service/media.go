package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/storage"
)

// DurationProber reads media length in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// MediaService moves staged uploads into the media store.
type MediaService struct {
	store  storage.MediaStore
	prober DurationProber
	logger *log.Logger
}

func NewMediaService(store storage.MediaStore, prober DurationProber, logger *log.Logger) *MediaService {
	if logger == nil {
		logger = log.Default()
	}
	return &MediaService{store: store, prober: prober, logger: logger}
}

// Ingest uploads the staged file at path and removes it, whatever the outcome.
func (m *MediaService) Ingest(ctx context.Context, path string, role storage.Role) (string, error) {
	defer m.Remove(path)

	url, err := m.store.Upload(ctx, path, role)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return url, nil
}

// Probe returns the duration of a staged video.
func (m *MediaService) Probe(ctx context.Context, path string) (float64, error) {
	d, err := m.prober.Duration(ctx, path)
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("probe duration: %w", err))
	}
	return d, nil
}

// Discard deletes uploaded assets, logging failures.
func (m *MediaService) Discard(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := m.store.Delete(ctx, url); err != nil {
			m.logger.Warn("media cleanup failed", "url", url, "err", err)
		}
	}
}

// Remove deletes a local staged file, logging failures.
func (m *MediaService) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("temp file cleanup failed", "path", path, "err", err)
	}
}
