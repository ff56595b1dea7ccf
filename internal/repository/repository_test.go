package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"

	"github.com/user/vidtube/internal/model"
)

func newMockDB(t *testing.T) (*Repositories, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)
	return NewRepositories(db), mock
}

func TestHistoryUpsertMovesEntry(t *testing.T) {
	repos, mock := newMockDB(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "watch_history" ("user_id","video_id","watched_at") VALUES ($1,$2,$3) ON CONFLICT ("user_id","video_id") DO UPDATE SET "watched_at"="excluded"."watched_at" RETURNING "id"`)).
		WithArgs(1, 2, at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	require.NoError(t, repos.History.Upsert(context.Background(), 1, 2, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryTrimKeepsNewest(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM "watch_history" WHERE user_id = \$1 AND id NOT IN \(SELECT "id" FROM "watch_history" WHERE user_id = \$2 ORDER BY watched_at DESC LIMIT \$3\)`).
		WithArgs(1, 1, 100).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repos.History.Trim(context.Background(), 1, 100))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryDeleteMissing(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM "watch_history" WHERE user_id = \$1 AND video_id = \$2`).
		WithArgs(1, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repos.History.Delete(context.Background(), 1, 99), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOnOwnerVideos(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "likes" JOIN videos ON videos.id = likes.target_id WHERE likes.target_type = \$1 AND videos.owner_id = \$2`).
		WithArgs("video", 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repos.Like.CountOnOwnerVideos(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByIDNotFound(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repos.User.FindByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByLoginPrefersEmail(t *testing.T) {
	t.Run("email match", func(t *testing.T) {
		repos, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WithArgs("bob@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(2, "bob", "bob@example.com"))

		user, err := repos.User.FindByLogin(context.Background(), "bob@example.com", "alice")
		require.NoError(t, err)
		assert.Equal(t, uint(2), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to username", func(t *testing.T) {
		repos, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
			WithArgs("alice", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))

		user, err := repos.User.FindByLogin(context.Background(), "nobody@example.com", "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserCreateDuplicate(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repos.User.Create(context.Background(), &model.User{Username: "alice", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaylistAddVideoIsIdempotent(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "playlists" SET "video_ids"=array_append\(video_ids, \$1\).* WHERE id = \$\d+ AND NOT \(\$\d+ = ANY\(video_ids\)\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "playlists" SET "video_ids"=array_append`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repos.Playlist.AddVideo(context.Background(), 3, 9)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repos.Playlist.AddVideo(context.Background(), 3, 9)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
}

func TestTweetListPages(t *testing.T) {
	repos, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tweets" WHERE owner_id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT \* FROM "tweets" WHERE owner_id = \$1 ORDER BY "created_at" DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(4, 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "content"}).AddRow(21, 4, "hello"))

	tweets, total, err := repos.Tweet.List(context.Background(), TweetFilter{OwnerID: 4, Page: Page{Limit: 10, Offset: 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, tweets, 1)
	assert.Equal(t, "hello", tweets[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}
