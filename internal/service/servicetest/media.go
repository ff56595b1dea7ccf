package servicetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/storage"
)

// MediaStore records uploads and deletions instead of storing anything.
type MediaStore struct {
	mu        sync.Mutex
	n         int
	Uploaded  []string
	Deleted   []string
	UploadErr error
}

func (m *MediaStore) Upload(_ context.Context, localPath string, role storage.Role) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.n++
	url := fmt.Sprintf("https://media.test/%s/%d%s", role, m.n, filepath.Ext(localPath))
	m.Uploaded = append(m.Uploaded, url)
	return url, nil
}

func (m *MediaStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, url)
	return nil
}

// Prober returns a fixed duration, or Err when set.
type Prober struct {
	Seconds float64
	Err     error
}

func (p Prober) Duration(context.Context, string) (float64, error) {
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Seconds, nil
}

// ErrProbe is a ready-made probe failure.
var ErrProbe = errors.New("probe: no duration")

// Env bundles services over an in-memory dataset.
type Env struct {
	DB     *DB
	Media  *MediaStore
	Prober *Prober
	*service.Services
}

// Tokens is the signing configuration used by NewEnv.
var Tokens = service.TokenConfig{
	AccessSecret:  "test-access-secret",
	AccessTTL:     time.Hour,
	RefreshSecret: "test-refresh-secret",
	RefreshTTL:    24 * time.Hour,
}

// NewEnv wires every service over fresh in-memory stores.
func NewEnv(historyLimit int) *Env {
	db := NewDB()
	media := &MediaStore{}
	prober := &Prober{Seconds: 42.5}
	svcs := service.New(db.Stores(), service.Options{
		Tokens:       Tokens,
		Blacklist:    service.NewMemoryBlacklist(),
		Media:        media,
		Prober:       prober,
		HistoryLimit: historyLimit,
		Logger:       log.New(io.Discard),
	})
	return &Env{DB: db, Media: media, Prober: prober, Services: svcs}
}
