// Package storage persists uploaded media and returns public URLs for it.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names what an uploaded asset is used for.
type Role string

const (
	RoleAvatar    Role = "avatar"
	RoleCover     Role = "cover"
	RoleThumbnail Role = "thumbnail"
	RoleVideo     Role = "video"
)

// Profile carries the per-role storage settings. Width and Height describe
// the display box the asset is rendered in and travel as object metadata.
type Profile struct {
	Prefix       string
	CacheControl string
	Family       string // MIME family accepted for the role
	Width        int
	Height       int
}

var profiles = map[Role]Profile{
	RoleAvatar:    {Prefix: "avatars", CacheControl: "public, max-age=86400", Family: "image", Width: 150, Height: 150},
	RoleCover:     {Prefix: "covers", CacheControl: "public, max-age=86400", Family: "image", Width: 1200, Height: 300},
	RoleThumbnail: {Prefix: "thumbnails", CacheControl: "public, max-age=604800", Family: "image", Width: 320, Height: 180},
	RoleVideo:     {Prefix: "videos", CacheControl: "public, max-age=31536000, immutable", Family: "video"},
}

// ProfileFor returns the settings for role.
func ProfileFor(role Role) (Profile, error) {
	p, ok := profiles[role]
	if !ok {
		return Profile{}, fmt.Errorf("storage: unknown role %q", role)
	}
	return p, nil
}

// MediaStore uploads local files and removes previously uploaded ones.
type MediaStore interface {
	Upload(ctx context.Context, localPath string, role Role) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectKey builds a unique key such as videos/2024/05/<uuid>.mp4.
func objectKey(role Role, localPath string, now time.Time) (string, error) {
	p, err := ProfileFor(role)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(localPath))
	return path.Join(p.Prefix, now.UTC().Format("2006/01"), uuid.NewString()+ext), nil
}

// keyFromURL strips baseURL from url, returning "" when url is not ours.
func keyFromURL(baseURL, url string) string {
	if baseURL == "" {
		return strings.TrimLeft(url, "/")
	}
	key, ok := strings.CutPrefix(url, baseURL+"/")
	if !ok {
		return ""
	}
	return key
}
