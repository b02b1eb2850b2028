package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("file:test.db", []string{"mode=memory"}, []string{"foreign_keys(ON)", "busy_timeout(5000)"})
	assert.Equal(t, "file:test.db?mode=memory&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dsn)
}

func TestNewDB_FileMigratesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storypartner.db")
	ctx := context.Background()

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Ping(ctx))

	var mode string
	require.NoError(t, db.Reader.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	version, err := SchemaVersion(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)

	require.NoError(t, NewPartnerRepo(db).Upsert(ctx, makePartner("kino-nowe", "Kino Nowe")))
	require.NoError(t, db.Close())

	// Reopening runs migrations again as a no-op and keeps the data.
	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	p, err := NewPartnerRepo(db).GetBySlug(ctx, "kino-nowe")
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestForeignKeysEnabled(t *testing.T) {
	db := setupTestDB(t)

	var on int
	require.NoError(t, db.Writer.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)
}
