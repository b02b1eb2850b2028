package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteadapter "github.com/ericfisherdev/storypartner/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

func openTestDB(t *testing.T) *sqliteadapter.DB {
	t.Helper()
	db, err := sqliteadapter.NewDB(context.Background(), filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func loadExample(t *testing.T) seedFile {
	t.Helper()
	data, err := os.ReadFile("example.yaml")
	require.NoError(t, err)
	doc, err := parseSeed(data)
	require.NoError(t, err)
	return doc
}

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestApply_Example(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	doc := loadExample(t)

	res, err := apply(ctx, db, doc, false, envOf(map[string]string{"STORYPARTNER_SEED_ADMIN_PASSWORD": "s3cret"}))
	require.NoError(t, err)
	assert.Equal(t, seedResult{Partners: 2, Profiles: 2, Passwords: 2}, res)

	kino, err := sqliteadapter.NewPartnerRepo(db).GetBySlug(ctx, "kino-nowe")
	require.NoError(t, err)
	require.NotNil(t, kino)
	assert.Equal(t, "Kina Nowego", kino.NameGenitive)
	assert.True(t, kino.HasVoiceOver())
	assert.True(t, kino.IsActive())

	zoo, err := sqliteadapter.NewPartnerRepo(db).GetBySlug(ctx, "zoo-park")
	require.NoError(t, err)
	require.NotNil(t, zoo)
	assert.False(t, zoo.IsActive())

	accounts := sqliteadapter.NewAccountRepo(db)
	auth, err := accounts.SignInWithPassword(ctx, "anna@example.com", "bajka123")
	require.NoError(t, err)

	profile, err := sqliteadapter.NewProfileRepo(db).GetByUserID(ctx, auth.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "kino-nowe", profile.PartnerSlug)
	assert.Equal(t, model.RolePartner, profile.Role)

	_, err = accounts.SignInWithPassword(ctx, "admin@example.com", "s3cret")
	require.NoError(t, err)
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	doc := loadExample(t)
	env := envOf(map[string]string{"STORYPARTNER_SEED_ADMIN_PASSWORD": "s3cret"})

	_, err := apply(ctx, db, doc, false, env)
	require.NoError(t, err)
	first, err := sqliteadapter.NewAccountRepo(db).SignInWithPassword(ctx, "anna@example.com", "bajka123")
	require.NoError(t, err)

	_, err = apply(ctx, db, doc, false, env)
	require.NoError(t, err)
	second, err := sqliteadapter.NewAccountRepo(db).SignInWithPassword(ctx, "anna@example.com", "bajka123")
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID, "derived user IDs are stable")

	all, err := sqliteadapter.NewPartnerRepo(db).ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApply_MissingPasswordEnv(t *testing.T) {
	db := openTestDB(t)

	_, err := apply(context.Background(), db, loadExample(t), false, envOf(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORYPARTNER_SEED_ADMIN_PASSWORD is not set")
}

func TestApply_Prune(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	env := envOf(map[string]string{"STORYPARTNER_SEED_ADMIN_PASSWORD": "s3cret"})

	_, err := apply(ctx, db, loadExample(t), false, env)
	require.NoError(t, err)

	doc, err := parseSeed([]byte(`
partners:
  - slug: kino-nowe
    name: Kino Nowe
    status: active
`))
	require.NoError(t, err)

	res, err := apply(ctx, db, doc, true, env)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pruned)

	zoo, err := sqliteadapter.NewPartnerRepo(db).GetBySlug(ctx, "zoo-park")
	require.NoError(t, err)
	assert.Nil(t, zoo)
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown key",
			yaml:    "partners:\n  - slug: a\n    name: A\n    colour: red\n",
			wantErr: "colour",
		},
		{
			name:    "bad slug",
			yaml:    "partners:\n  - slug: Kino Nowe\n    name: A\n",
			wantErr: `invalid slug "Kino Nowe"`,
		},
		{
			name:    "duplicate slug",
			yaml:    "partners:\n  - slug: a\n    name: A\n  - slug: a\n    name: B\n",
			wantErr: `duplicate slug "a"`,
		},
		{
			name:    "missing name",
			yaml:    "partners:\n  - slug: a\n",
			wantErr: "name is required",
		},
		{
			name:    "bad status",
			yaml:    "partners:\n  - slug: a\n    name: A\n    status: paused\n",
			wantErr: `unknown status "paused"`,
		},
		{
			name:    "bad role",
			yaml:    "profiles:\n  - email: a@example.com\n    role: owner\n",
			wantErr: `unknown role "owner"`,
		},
		{
			name:    "both passwords",
			yaml:    "profiles:\n  - email: a@example.com\n    password: x\n    password_env: X\n",
			wantErr: "not both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
