package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
	"github.com/ericfisherdev/storypartner/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKey is a fixed 32-byte key for session token encryption in tests.
var testKey = []byte("0123456789abcdef0123456789abcdef")

func makeSession(id string, expiresAt time.Time) model.Session {
	return model.Session{
		ID:          id,
		UserID:      "u-1",
		Email:       "anna@example.com",
		AccessToken: "token-" + id,
		CreatedAt:   expiresAt.Add(-time.Hour),
		ExpiresAt:   expiresAt,
	}
}

func TestSessionRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey)
	ctx := context.Background()

	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, makeSession("s-1", expires)))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "anna@example.com", got.Email)
	assert.Equal(t, "token-s-1", got.AccessToken)
	assert.True(t, expires.Equal(got.ExpiresAt))
	assert.True(t, expires.Add(-time.Hour).Equal(got.CreatedAt))
}

func TestSessionRepo_TokenEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeSession("s-1", time.Now().Add(time.Hour))))

	var stored string
	err := db.Reader.QueryRowContext(ctx, `SELECT access_token FROM sessions WHERE id = ?`, "s-1").Scan(&stored)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
	assert.NotContains(t, stored, "token-s-1")
}

func TestSessionRepo_NoKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, nil)
	ctx := context.Background()

	err := repo.Create(ctx, makeSession("s-1", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	local := makeSession("s-2", time.Now().Add(time.Hour))
	local.AccessToken = ""
	require.NoError(t, repo.Create(ctx, local), "sessions without a token need no key")

	got, err := repo.Get(ctx, "s-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.AccessToken)
}

func TestSessionRepo_Get_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey)

	got, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeSession("s-1", time.Now().Add(time.Hour))))
	require.NoError(t, repo.Delete(ctx, "s-1"))
	require.NoError(t, repo.Delete(ctx, "s-1"), "deleting twice is not an error")

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeSession("old", now.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, makeSession("edge", now)))
	require.NoError(t, repo.Create(ctx, makeSession("fresh", now.Add(time.Minute))))

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
