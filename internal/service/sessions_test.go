package service_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vidtube/internal/apperr"
	"github.com/user/vidtube/internal/service/servicetest"
)

func TestSessionIssuePairValidates(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	user := env.DB.SeedUser(t, "alice", "secret1")

	pair, err := env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	got, claims, err := env.Sessions.ValidateAccess(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", claims.Username)

	stored, err := env.DB.Stores().Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestSessionRejectsWrongTokenKind(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	user := env.DB.SeedUser(t, "alice", "secret1")
	pair, err := env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)

	_, _, err = env.Sessions.ValidateAccess(ctx, pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	_, err = env.Sessions.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	_, _, err = env.Sessions.ValidateAccess(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
}

func TestSessionRefreshRotates(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	user := env.DB.SeedUser(t, "alice", "secret1")
	first, err := env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)

	second, err := env.Sessions.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = env.Sessions.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
	assert.Equal(t, "Refresh token is expired or used", apperr.From(err).Message)

	_, err = env.Sessions.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestSessionLatestLoginWins(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	user := env.DB.SeedUser(t, "alice", "secret1")

	older, err := env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)
	_, err = env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)

	_, err = env.Sessions.Refresh(ctx, older.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
}

func TestSessionConcurrentRefreshSharesResult(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	user := env.DB.SeedUser(t, "alice", "secret1")
	pair, err := env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []string
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := env.Sessions.Refresh(ctx, pair.RefreshToken)
			if err != nil {
				assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
				return
			}
			mu.Lock()
			results = append(results, next.RefreshToken)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestSessionRevokeBlacklistsAccessToken(t *testing.T) {
	env := servicetest.NewEnv(0)
	ctx := context.Background()
	user := env.DB.SeedUser(t, "alice", "secret1")
	pair, err := env.Sessions.IssuePair(ctx, user)
	require.NoError(t, err)

	_, claims, err := env.Sessions.ValidateAccess(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, env.Users.Logout(ctx, user.ID, claims))

	_, _, err = env.Sessions.ValidateAccess(ctx, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	_, err = env.Sessions.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
}
