package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)

	key, err := objectKey(RoleVideo, "/tmp/ABC.MP4", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "videos/2024/05/"), key)
	assert.True(t, strings.HasSuffix(key, ".mp4"), key)

	other, err := objectKey(RoleVideo, "/tmp/ABC.MP4", now)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = objectKey(Role("poster"), "x.png", now)
	assert.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, "avatars/a.png", keyFromURL("https://cdn.example.com", "https://cdn.example.com/avatars/a.png"))
	assert.Equal(t, "", keyFromURL("https://cdn.example.com", "https://elsewhere.com/avatars/a.png"))
	assert.Equal(t, "avatars/a.png", keyFromURL("", "/avatars/a.png"))
}

func TestProfiles(t *testing.T) {
	for _, role := range []Role{RoleAvatar, RoleCover, RoleThumbnail} {
		p, err := ProfileFor(role)
		require.NoError(t, err)
		assert.Equal(t, "image", p.Family)
		assert.Positive(t, p.Width)
	}
	p, err := ProfileFor(RoleVideo)
	require.NoError(t, err)
	assert.Equal(t, "video", p.Family)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:8000/media/")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "pic.PNG")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))

	url, err := store.Upload(context.Background(), src, RoleAvatar)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8000/media/avatars/"), url)

	key := strings.TrimPrefix(url, "http://localhost:8000/media/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), url))
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere.com/x.png"))
	assert.NoError(t, store.Delete(context.Background(), "http://localhost:8000/media/../secret"))
}

func TestLocalStoreMissingSource(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), filepath.Join(t.TempDir(), "absent.mp4"), RoleVideo)
	assert.Error(t, err)
}

func TestWithEndpoint(t *testing.T) {
	var def s3.Options
	withEndpoint("")(&def)
	assert.Nil(t, def.BaseEndpoint)
	assert.False(t, def.UsePathStyle)

	var minio s3.Options
	withEndpoint(" http://localhost:9000 ")(&minio)
	require.NotNil(t, minio.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *minio.BaseEndpoint)
	assert.True(t, minio.UsePathStyle)
}
