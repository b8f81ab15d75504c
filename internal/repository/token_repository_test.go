package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/repository"
	redisapp "github.com/raks-h21/muse-weave-27/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepo(t *testing.T) (*repository.RedisTokenRepo, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	repo := repository.NewRedisTokenRepo(&redisapp.Client{Client: client})

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
	})

	return repo, mock
}

func TestRedisTokenRepo_SaveAndGet(t *testing.T) {
	repo, mock := setupTokenRepo(t)

	userID := uuid.NewString()
	token := uuid.NewString()
	key := "refresh:" + userID + ":" + token

	mock.ExpectSet(key, "1", time.Hour).SetVal("OK")
	mock.ExpectGet(key).SetVal("1")

	require.NoError(t, repo.SaveRefreshToken(context.Background(), userID, token, time.Hour))

	ok, err := repo.GetRefreshToken(context.Background(), userID, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisTokenRepo_GetMissingToken(t *testing.T) {
	repo, mock := setupTokenRepo(t)

	mock.ExpectGet("refresh:u:t").RedisNil()

	ok, err := repo.GetRefreshToken(context.Background(), "u", "t")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTokenRepo_Delete(t *testing.T) {
	repo, mock := setupTokenRepo(t)

	mock.ExpectDel("refresh:u:t").SetVal(1)

	require.NoError(t, repo.DeleteRefreshToken(context.Background(), "u", "t"))
}

func TestRedisTokenRepo_DeleteAllUserTokens(t *testing.T) {
	repo, mock := setupTokenRepo(t)

	mock.ExpectKeys("refresh:u:*").SetVal([]string{"refresh:u:a", "refresh:u:b"})
	mock.ExpectDel("refresh:u:a", "refresh:u:b").SetVal(2)

	require.NoError(t, repo.DeleteAllUserTokens(context.Background(), "u"))
}

func TestRedisTokenRepo_DeleteAllUserTokens_NoneStored(t *testing.T) {
	repo, mock := setupTokenRepo(t)

	mock.ExpectKeys("refresh:u:*").SetVal([]string{})

	require.NoError(t, repo.DeleteAllUserTokens(context.Background(), "u"))
}
