package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// CleanupService periodically removes staged uploads that outlived their
// request, e.g. after a crash mid-upload.
type CleanupService struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewCleanupService(dir string, maxAge, interval time.Duration, logger *log.Logger) *CleanupService {
	if logger == nil {
		logger = log.Default()
	}
	return &CleanupService{dir: dir, maxAge: maxAge, interval: interval, logger: logger, now: time.Now}
}

// Start sweeps once immediately and then on every interval until ctx ends.
func (s *CleanupService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runCleanup()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runCleanup()
			}
		}
	}()
}

func (s *CleanupService) runCleanup() {
	removed, err := s.Sweep()
	if err != nil {
		s.logger.Warn("temp sweep failed", "dir", s.dir, "err", err)
		return
	}
	if removed > 0 {
		s.logger.Info("removed stale uploads", "count", removed)
	}
}

// Sweep deletes regular files in the staging directory older than maxAge.
func (s *CleanupService) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
