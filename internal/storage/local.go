package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps media on disk under Root and serves it from BaseURL.
type LocalStore struct {
	Root    string
	BaseURL string
	now     func() time.Time
}

// NewLocalStore creates root if needed.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	return &LocalStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/"), now: time.Now}, nil
}

// Upload copies the file at localPath into the store.
func (s *LocalStore) Upload(_ context.Context, localPath string, role Role) (string, error) {
	key, err := objectKey(role, localPath, s.now())
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	if err := copyFile(localPath, dst); err != nil {
		return "", fmt.Errorf("local storage upload %s: %w", key, err)
	}
	return s.BaseURL + "/" + key, nil
}

// Delete removes the file behind url. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	key := keyFromURL(s.BaseURL, url)
	if key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local storage delete %s: %w", key, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
