package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/model"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/service/servicetest"
)

func TestPublishVideo(t *testing.T) {
	env := servicetest.NewEnv(0)
	alice := env.DB.SeedUser(t, "alice", "secret1")
	file := stage(t, "clip.mp4")
	thumb := stage(t, "thumb.jpg")

	v, err := env.Videos.Publish(context.Background(), alice.ID, service.PublishInput{Title: " Intro ", Description: "First"}, file, thumb)
	require.NoError(t, err)

	assert.Equal(t, "Intro", v.Title)
	assert.Equal(t, 42.5, v.Duration)
	assert.True(t, v.IsPublished)
	assert.Zero(t, v.Views)
	assert.Equal(t, alice.ID, v.OwnerID)
	assert.Len(t, env.Media.Uploaded, 2)
	assertRemoved(t, file)
	assertRemoved(t, thumb)
}

func TestPublishVideoFailures(t *testing.T) {
	alice := uint(1)

	t.Run("missing thumbnail", func(t *testing.T) {
		env := servicetest.NewEnv(0)
		file := stage(t, "clip.mp4")
		_, err := env.Videos.Publish(context.Background(), alice, service.PublishInput{Title: "t", Description: "d"}, file, "")
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
		assert.Equal(t, "Thumbnail is required", apperr.From(err).Message)
		assertRemoved(t, file)
		assert.Empty(t, env.Media.Uploaded)
	})

	t.Run("missing title", func(t *testing.T) {
		env := servicetest.NewEnv(0)
		_, err := env.Videos.Publish(context.Background(), alice, service.PublishInput{Description: "d"}, stage(t, "a.mp4"), stage(t, "b.jpg"))
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	})

	t.Run("unreadable duration", func(t *testing.T) {
		env := servicetest.NewEnv(0)
		env.Prober.Err = servicetest.ErrProbe
		file := stage(t, "clip.mp4")
		_, err := env.Videos.Publish(context.Background(), alice, service.PublishInput{Title: "t", Description: "d"}, file, stage(t, "b.jpg"))
		assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))
		assert.ErrorIs(t, err, servicetest.ErrProbe)
		assert.Empty(t, env.Media.Uploaded)
		assertRemoved(t, file)
	})
}

func TestVideoVisibility(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	bob := env.DB.SeedUser(t, "bob", "secret1")
	draft := env.DB.SeedVideo(t, alice.ID, "draft", false)
	env.DB.SeedVideo(t, alice.ID, "public", true)

	_, err := env.Videos.Get(ctx, draft.ID, bob.ID)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
	_, err = env.Videos.Get(ctx, draft.ID, 0)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))

	got, err := env.Videos.Get(ctx, draft.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "alice", got.Owner.Username)

	list, err := env.Videos.List(ctx, service.VideoQuery{}, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "public", list[0].Title)

	list, err = env.Videos.List(ctx, service.VideoQuery{}, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListVideos(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	for _, title := range []string{"bravo", "alpha", "charlie"} {
		env.DB.SeedVideo(t, alice.ID, title, true)
	}

	list, err := env.Videos.List(ctx, service.VideoQuery{SortBy: "title", SortType: "asc"}, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, []string{list[0].Title, list[1].Title, list[2].Title})

	list, err = env.Videos.List(ctx, service.VideoQuery{Limit: 2, Page: 2}, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bravo", list[0].Title)

	list, err = env.Videos.List(ctx, service.VideoQuery{Query: "ALP"}, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = env.Videos.List(ctx, service.VideoQuery{Query: "zulu"}, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = env.Videos.List(ctx, service.VideoQuery{SortBy: "password"}, 0)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
}

func TestUpdateVideo(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	bob := env.DB.SeedUser(t, "bob", "secret1")
	v := env.DB.SeedVideo(t, alice.ID, "clip", true)

	title := "Renamed"
	_, err := env.Videos.Update(ctx, bob.ID, v.ID, service.VideoUpdate{Title: &title}, "")
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))

	thumb := stage(t, "thumb.jpg")
	updated, err := env.Videos.Update(ctx, alice.ID, v.ID, service.VideoUpdate{Title: &title}, thumb)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, v.Description, updated.Description)
	assert.NotEqual(t, v.Thumbnail, updated.Thumbnail)
	assert.Contains(t, env.Media.Deleted, v.Thumbnail)
	assertRemoved(t, thumb)

	blank := " "
	_, err = env.Videos.Update(ctx, alice.ID, v.ID, service.VideoUpdate{Description: &blank}, "")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
}

func TestTogglePublish(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	v := env.DB.SeedVideo(t, alice.ID, "clip", true)

	got, err := env.Videos.TogglePublish(ctx, alice.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)

	got, err = env.Videos.TogglePublish(ctx, alice.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)

	_, err = env.Videos.TogglePublish(ctx, alice.ID+100, v.ID)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestDeleteVideoCascades(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	bob := env.DB.SeedUser(t, "bob", "secret1")
	v := env.DB.SeedVideo(t, alice.ID, "clip", true)

	c, err := env.Comments.Add(ctx, bob.ID, v.ID, "nice")
	require.NoError(t, err)
	_, err = env.Likes.Toggle(ctx, bob.ID, model.TargetVideo, v.ID)
	require.NoError(t, err)
	_, err = env.Likes.Toggle(ctx, alice.ID, model.TargetComment, c.ID)
	require.NoError(t, err)
	p, err := env.Playlists.Create(ctx, bob.ID, service.PlaylistInput{Name: "faves", Description: "d"})
	require.NoError(t, err)
	_, _, err = env.Playlists.AddVideo(ctx, bob.ID, p.ID, v.ID)
	require.NoError(t, err)
	_, err = env.Videos.RecordView(ctx, bob.ID, v.ID)
	require.NoError(t, err)

	require.Equal(t, http.StatusNotFound, apperr.StatusOf(env.Videos.Delete(ctx, bob.ID, v.ID)))
	require.NoError(t, env.Videos.Delete(ctx, alice.ID, v.ID))

	assert.Empty(t, env.DB.Comments)
	assert.Empty(t, env.DB.Likes)
	assert.Empty(t, env.DB.History)
	assert.Empty(t, env.DB.Playlists[p.ID].VideoIDs)
	assert.ElementsMatch(t, []string{v.VideoFile, v.Thumbnail}, env.Media.Deleted)

	_, err = env.Videos.Get(ctx, v.ID, alice.ID)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestRecordViewMovesToHistoryHead(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	bob := env.DB.SeedUser(t, "bob", "secret1")
	a := env.DB.SeedVideo(t, alice.ID, "a", true)
	b := env.DB.SeedVideo(t, alice.ID, "b", true)

	for _, id := range []uint{a.ID, b.ID, a.ID} {
		_, err := env.Videos.RecordView(ctx, bob.ID, id)
		require.NoError(t, err)
	}

	history, err := env.Stats.WatchHistory(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, a.ID, history[0].Video.ID)
	assert.Equal(t, b.ID, history[1].Video.ID)
	assert.Equal(t, "alice", history[0].Video.Owner.Username)

	got, err := env.Videos.Get(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestRecordViewAnonymousSkipsHistory(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	v := env.DB.SeedVideo(t, alice.ID, "a", true)

	got, err := env.Videos.RecordView(ctx, 0, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Empty(t, env.DB.History)
}

func TestWatchHistoryIsBounded(t *testing.T) {
	env := servicetest.NewEnv(2)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		v := env.DB.SeedVideo(t, alice.ID, title, true)
		ids = append(ids, v.ID)
		_, err := env.Videos.RecordView(ctx, alice.ID, v.ID)
		require.NoError(t, err)
	}

	history, err := env.Stats.WatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ids[2], history[0].Video.ID)
	assert.Equal(t, ids[1], history[1].Video.ID)
}

func TestRemoveFromHistory(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	alice := env.DB.SeedUser(t, "alice", "secret1")
	v := env.DB.SeedVideo(t, alice.ID, "a", true)
	_, err := env.Videos.RecordView(ctx, alice.ID, v.ID)
	require.NoError(t, err)

	require.NoError(t, env.Stats.RemoveFromHistory(ctx, alice.ID, v.ID))
	err = env.Stats.RemoveFromHistory(ctx, alice.ID, v.ID)
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))

	history, err := env.Stats.WatchHistory(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
